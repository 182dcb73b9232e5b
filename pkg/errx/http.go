package errx

import (
	"github.com/gofiber/fiber/v2"
)

// HTTPErrorResponse is the wire shape every error leaves the service in.
type HTTPErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ToHTTPResponse converts an Error to an HTTPErrorResponse
func (e *Error) ToHTTPResponse() HTTPErrorResponse {
	return HTTPErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Type:    string(e.Type),
		Details: e.Details,
	}
}

// FiberErrorHandler converts errors bubbling out of handlers into the
// standard HTTP error shape. Wire it as fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var e *Error
	if As(err, &e) {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(HTTPErrorResponse{
			Code:    "HTTP_ERROR",
			Message: fe.Message,
			Type:    string(TypeInternal),
		})
	}

	internal := New("An unexpected error occurred", TypeInternal)
	return c.Status(internal.HTTPStatus).JSON(internal.ToHTTPResponse())
}
