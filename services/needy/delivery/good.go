package delivery

import (
	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"

	"needy/domain"
	"needy/middleware"
)

type goodHandler struct {
	guc domain.GoodUseCase
}

func NewGoodDelivery(app *fiber.App, guc domain.GoodUseCase) {
	handler := &goodHandler{
		guc: guc,
	}

	route := app.Group("/good", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin, domain.RoleGroupAdmin))
	route.Post("/add", handler.CreateGood)
	route.Post("/edit/:id", handler.EditGood)
	route.Get("/of/:register_id", handler.GetGoodsForRegister)
	route.Put("/sync/:register_id", handler.SyncGoodsForRegister)
	route.Post("/:id/send-code", handler.SendGoodVerification)
	route.Post("/:id/verify", handler.VerifyGood)
}

func (gh *goodHandler) CreateGood(c *fiber.Ctx) error {
	_, user := caller(c)

	var req domain.GoodPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "CreateGood", "Invalid request body", err)
	}

	good, err := gh.guc.CreateGood(c.Context(), &req)
	if err != nil {
		return failWith(c, user, "CreateGood", "Failed to add good", err)
	}
	return succeed(c, user, "CreateGood", fiber.StatusCreated, "Good added successfully", good)
}

func (gh *goodHandler) EditGood(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "EditGood", "Invalid good id", err)
	}
	var req domain.GoodPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "EditGood", "Invalid request body", err)
	}

	good, err := gh.guc.EditGood(c.Context(), id, &req)
	if err != nil {
		return failWith(c, user, "EditGood", "Failed to update good", err)
	}
	return succeed(c, user, "EditGood", fiber.StatusOK, "Good updated successfully", good)
}

func (gh *goodHandler) GetGoodsForRegister(c *fiber.Ctx) error {
	_, user := caller(c)

	registerID, err := c.ParamsInt("register_id")
	if err != nil {
		return badRequest(c, user, "GetGoodsForRegister", "Invalid needy id", err)
	}
	goods, err := gh.guc.GetGoodsForRegister(c.Context(), registerID)
	if err != nil {
		return failWith(c, user, "GetGoodsForRegister", "Failed to retrieve goods", err)
	}
	return succeed(c, user, "GetGoodsForRegister", fiber.StatusOK, "Goods retrieved successfully", goods)
}

func (gh *goodHandler) SyncGoodsForRegister(c *fiber.Ctx) error {
	_, user := caller(c)

	registerID, err := c.ParamsInt("register_id")
	if err != nil {
		return badRequest(c, user, "SyncGoodsForRegister", "Invalid needy id", err)
	}
	var items []domain.GoodPayload
	if err := c.BodyParser(&items); err != nil {
		return badRequest(c, user, "SyncGoodsForRegister", "Invalid request body", err)
	}

	goods, err := gh.guc.SyncGoodsForRegister(c.Context(), registerID, items)
	if err != nil {
		return failWith(c, user, "SyncGoodsForRegister", "Failed to synchronize goods", err)
	}
	return succeed(c, user, "SyncGoodsForRegister", fiber.StatusOK, "Goods synchronized successfully", goods)
}

func (gh *goodHandler) SendGoodVerification(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "SendGoodVerification", "Invalid good id", err)
	}
	if err := gh.guc.SendGoodVerification(c.Context(), id); err != nil {
		return failWith(c, user, "SendGoodVerification", "Failed to send verification code", err)
	}
	return succeed(c, user, "SendGoodVerification", fiber.StatusOK, "Verification code sent", nil)
}

func (gh *goodHandler) VerifyGood(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "VerifyGood", "Invalid good id", err)
	}
	var req domain.VerifyGoodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "VerifyGood", "Invalid request body", err)
	}
	if _, err := govalidator.ValidateStruct(req); err != nil {
		return badRequest(c, user, "VerifyGood", "Validation failed", err)
	}

	good, err := gh.guc.VerifyGood(c.Context(), id, req.Code)
	if err != nil {
		return failWith(c, user, "VerifyGood", "Failed to verify good", err)
	}
	return succeed(c, user, "VerifyGood", fiber.StatusOK, "Good verified successfully", good)
}
