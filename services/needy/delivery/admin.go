package delivery

import (
	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"

	"needy/domain"
	"needy/middleware"
)

type adminHandler struct {
	auc domain.AdminUseCase
}

func NewAdminDelivery(app *fiber.App, auc domain.AdminUseCase) {
	handler := &adminHandler{
		auc: auc,
	}

	route := app.Group("/admin", middleware.AuthRequired())
	route.Get("/map", middleware.RoleRequired(domain.RoleAdmin, domain.RoleGroupAdmin), handler.AdminMap)
	route.Get("/info", middleware.RoleRequired(domain.RoleAdmin, domain.RoleGroupAdmin), handler.InfoAdmins)
	route.Post("/signup", middleware.RoleRequired(domain.RoleAdmin), handler.CreateAdmin)
	route.Post("/edit/:id", middleware.RoleRequired(domain.RoleAdmin), handler.EditAdmin)
	route.Delete("/:id", middleware.RoleRequired(domain.RoleAdmin), handler.DeleteAdmin)
}

func (ah *adminHandler) CreateAdmin(c *fiber.Ctx) error {
	_, user := caller(c)

	var req domain.AdminCreate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "CreateAdmin", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, user, "CreateAdmin", "Validation failed", err)
	}

	admin, err := ah.auc.CreateAdmin(c.Context(), &req, callerID(c))
	if err != nil {
		return failWith(c, user, "CreateAdmin", "Failed to create admin", err)
	}
	return succeed(c, user, "CreateAdmin", fiber.StatusCreated, "Admin created successfully", admin)
}

func (ah *adminHandler) EditAdmin(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "EditAdmin", "Invalid admin id", err)
	}
	var req domain.AdminPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "EditAdmin", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, user, "EditAdmin", "Validation failed", err)
	}

	admin, err := ah.auc.EditAdmin(c.Context(), id, &req)
	if err != nil {
		return failWith(c, user, "EditAdmin", "Failed to update admin", err)
	}
	return succeed(c, user, "EditAdmin", fiber.StatusOK, "Admin updated successfully", admin)
}

func (ah *adminHandler) DeleteAdmin(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "DeleteAdmin", "Invalid admin id", err)
	}
	admin, err := ah.auc.DeleteAdmin(c.Context(), id)
	if err != nil {
		return failWith(c, user, "DeleteAdmin", "Failed to delete admin", err)
	}
	return succeed(c, user, "DeleteAdmin", fiber.StatusOK, "Admin deleted successfully", admin)
}

func (ah *adminHandler) AdminMap(c *fiber.Ctx) error {
	_, user := caller(c)

	locations, err := ah.auc.FindAdminLocations(c.Context())
	if err != nil {
		return failWith(c, user, "AdminMap", "Failed to retrieve admin locations", err)
	}
	return succeed(c, user, "AdminMap", fiber.StatusOK, "Admin locations retrieved successfully", locations)
}

func (ah *adminHandler) InfoAdmins(c *fiber.Ctx) error {
	_, user := caller(c)

	info, err := ah.auc.InfoAdmins(c.Context())
	if err != nil {
		return failWith(c, user, "InfoAdmins", "Failed to retrieve admin summary", err)
	}
	return succeed(c, user, "InfoAdmins", fiber.StatusOK, "Admin summary retrieved successfully", info)
}
