package delivery

import (
	"github.com/gofiber/fiber/v2"

	"needy/domain"
	"needy/middleware"
)

type childHandler struct {
	ruc domain.RegisterUseCase
}

func NewChildDelivery(app *fiber.App, ruc domain.RegisterUseCase) {
	handler := &childHandler{
		ruc: ruc,
	}

	route := app.Group("/child", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin, domain.RoleGroupAdmin))
	route.Post("/signup", handler.CreateChild)
	route.Post("/edit/:id", handler.EditChild)
	route.Delete("/:id", handler.DeleteChild)
}

func (ch *childHandler) CreateChild(c *fiber.Ctx) error {
	_, user := caller(c)

	var req domain.ChildPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "CreateChild", "Invalid request body", err)
	}

	child, err := ch.ruc.CreateChild(c.Context(), &req)
	if err != nil {
		return failWith(c, user, "CreateChild", "Failed to register child", err)
	}
	return succeed(c, user, "CreateChild", fiber.StatusCreated, "Child registered successfully", child)
}

func (ch *childHandler) EditChild(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "EditChild", "Invalid child id", err)
	}
	var req domain.ChildPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "EditChild", "Invalid request body", err)
	}

	child, err := ch.ruc.EditChild(c.Context(), id, &req)
	if err != nil {
		return failWith(c, user, "EditChild", "Failed to update child", err)
	}
	return succeed(c, user, "EditChild", fiber.StatusOK, "Child updated successfully", child)
}

func (ch *childHandler) DeleteChild(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "DeleteChild", "Invalid child id", err)
	}
	if err := ch.ruc.DeleteChild(c.Context(), id); err != nil {
		return failWith(c, user, "DeleteChild", "Failed to delete child", err)
	}
	return succeed(c, user, "DeleteChild", fiber.StatusOK, "Child deleted successfully", nil)
}
