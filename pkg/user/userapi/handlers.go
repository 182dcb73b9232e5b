package userapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/kernel"
	"github.com/tambo-labs/tambo/pkg/user"
	"github.com/tambo-labs/tambo/pkg/user/usersrv"
)

// UserHandlers exposes the admin review surface: listing registered
// accounts, inspecting documents and moving accounts through the approval
// lifecycle. The policy table restricts every route here to admins.
type UserHandlers struct {
	users *usersrv.UserService
}

// NewUserHandlers creates the handler set.
func NewUserHandlers(users *usersrv.UserService) *UserHandlers {
	return &UserHandlers{users: users}
}

// RegisterRoutes mounts the admin user endpoints.
func (h *UserHandlers) RegisterRoutes(app *fiber.App) {
	grp := app.Group("/api/v1/users")
	grp.Get("/", h.list)
	grp.Get("/:id", h.get)
	grp.Get("/:id/document", h.document)
	grp.Patch("/:id/status", h.setStatus)
}

func (h *UserHandlers) list(c *fiber.Ctx) error {
	opts := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	page, err := h.users.List(c.Context(), opts)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *UserHandlers) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errx.New("Invalid user id", errx.TypeValidation)
	}

	u, err := h.users.Get(c.Context(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *UserHandlers) document(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errx.New("Invalid user id", errx.TypeValidation)
	}

	data, err := h.users.GetDocument(c.Context(), int64(id))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, http.DetectContentType(data))
	return c.Send(data)
}

type statusDTO struct {
	Status string `json:"status"`
}

func (h *UserHandlers) setStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errx.New("Invalid user id", errx.TypeValidation)
	}

	var dto statusDTO
	if err := c.BodyParser(&dto); err != nil {
		return errx.New("Malformed request body", errx.TypeValidation)
	}

	if err := h.users.SetStatus(c.Context(), int64(id), user.Status(dto.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": id, "status": dto.Status})
}
