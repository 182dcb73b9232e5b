package authapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam"
	"github.com/tambo-labs/tambo/pkg/iam/auth"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpsrv"
	"github.com/tambo-labs/tambo/pkg/user/usersrv"
)

// AuthHandlers exposes the registration and login flow over HTTP.
type AuthHandlers struct {
	otps  *otpsrv.Service
	auths *auth.Service
	users *usersrv.UserService
}

// NewAuthHandlers creates the handler set.
func NewAuthHandlers(otps *otpsrv.Service, auths *auth.Service, users *usersrv.UserService) *AuthHandlers {
	return &AuthHandlers{
		otps:  otps,
		auths: auths,
		users: users,
	}
}

// RegisterRoutes mounts the auth endpoints. Route access is decided by the
// policy table wired into the token middleware, not here.
func (h *AuthHandlers) RegisterRoutes(app *fiber.App) {
	grp := app.Group("/auth")
	grp.Post("/otp/request", h.requestOTP)
	grp.Post("/otp/verify", h.verifyOTP)
	grp.Post("/register", h.register)
	grp.Post("/login", h.login)
	grp.Get("/me", h.me)
}

func (h *AuthHandlers) requestOTP(c *fiber.Ctx) error {
	var dto OTPRequestDTO
	if err := c.BodyParser(&dto); err != nil {
		return errx.New("Malformed request body", errx.TypeValidation)
	}
	if err := dto.Validate(); err != nil {
		return errx.Wrap(err, "Invalid request", errx.TypeValidation)
	}

	// The code travels by email only; the response never carries it.
	if _, err := h.otps.RequestCode(c.Context(), dto.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

func (h *AuthHandlers) verifyOTP(c *fiber.Ctx) error {
	var dto OTPVerifyDTO
	if err := c.BodyParser(&dto); err != nil {
		return errx.New("Malformed request body", errx.TypeValidation)
	}
	if err := dto.Validate(); err != nil {
		return errx.Wrap(err, "Invalid request", errx.TypeValidation)
	}

	ok, err := h.otps.VerifyCode(c.Context(), dto.Email, dto.Code)
	if err != nil {
		return err
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"verified": false,
			"message":  "Invalid or expired code",
		})
	}

	return c.JSON(fiber.Map{"verified": true})
}

func (h *AuthHandlers) register(c *fiber.Ctx) error {
	var dto RegisterDTO
	if err := c.BodyParser(&dto); err != nil {
		return errx.New("Malformed request body", errx.TypeValidation)
	}
	if err := dto.Validate(); err != nil {
		return errx.Wrap(err, "Invalid request", errx.TypeValidation)
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return errx.New("Identity document is required", errx.TypeValidation)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return errx.Wrap(err, "Could not read identity document", errx.TypeValidation)
	}
	defer file.Close()
	document, err := io.ReadAll(file)
	if err != nil {
		return errx.Wrap(err, "Could not read identity document", errx.TypeValidation)
	}

	u, err := h.users.Register(c.Context(), usersrv.RegisterInput{
		NationalID:      dto.NationalID,
		Name:            dto.Name,
		Email:           dto.Email,
		Phone:           dto.Phone,
		Password:        dto.Password,
		ConfirmPassword: dto.ConfirmPassword,
		Roles:           dto.Roles,
		Document:        document,
		DocumentName:    fileHeader.Filename,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *AuthHandlers) login(c *fiber.Ctx) error {
	var dto LoginDTO
	if err := c.BodyParser(&dto); err != nil {
		return errx.New("Malformed request body", errx.TypeValidation)
	}
	if err := dto.Validate(); err != nil {
		return errx.Wrap(err, "Invalid request", errx.TypeValidation)
	}

	result, err := h.auths.Login(c.Context(), dto.Email, dto.Password)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *AuthHandlers) me(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return iam.ErrUnauthorized()
	}
	return c.JSON(authCtx)
}
