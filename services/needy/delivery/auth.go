package delivery

import (
	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"

	"needy/domain"
)

type authHandler struct {
	auc domain.AuthUseCase
}

func NewAuthDelivery(app *fiber.App, auc domain.AuthUseCase) {
	handler := &authHandler{
		auc: auc,
	}

	route := app.Group("/login")
	route.Post("/admin", handler.LoginAdmin)
}

func (ah *authHandler) LoginAdmin(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, nil, "LoginAdmin", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, &req.Username, "LoginAdmin", "Validation failed", err)
	}

	res, err := ah.auc.Login(c.Context(), &req)
	if err != nil {
		return failWith(c, &req.Username, "LoginAdmin", "Login failed", err)
	}
	return succeed(c, &req.Username, "LoginAdmin", fiber.StatusOK, "Login successful", res)
}
