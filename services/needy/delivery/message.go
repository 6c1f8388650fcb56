package delivery

import (
	"github.com/gofiber/fiber/v2"

	"needy/domain"
	"needy/middleware"
)

type messageHandler struct {
	muc domain.MessageUseCase
}

func NewMessageDelivery(app *fiber.App, muc domain.MessageUseCase) {
	handler := &messageHandler{
		muc: muc,
	}

	route := app.Group("/message", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin, domain.RoleGroupAdmin))
	route.Post("/add", handler.CreateMessage)
	route.Post("/edit/:id", handler.EditMessage)
}

func (mh *messageHandler) CreateMessage(c *fiber.Ctx) error {
	_, user := caller(c)

	var req domain.MessagePayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "CreateMessage", "Invalid request body", err)
	}

	msg, err := mh.muc.CreateMessage(c.Context(), &req, callerID(c))
	if err != nil {
		return failWith(c, user, "CreateMessage", "Failed to create message", err)
	}
	return succeed(c, user, "CreateMessage", fiber.StatusCreated, "Message created successfully", msg)
}

func (mh *messageHandler) EditMessage(c *fiber.Ctx) error {
	_, user := caller(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, user, "EditMessage", "Invalid message id", err)
	}
	var req domain.MessagePayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, user, "EditMessage", "Invalid request body", err)
	}

	msg, err := mh.muc.EditMessage(c.Context(), id, &req)
	if err != nil {
		return failWith(c, user, "EditMessage", "Failed to update message", err)
	}
	return succeed(c, user, "EditMessage", fiber.StatusOK, "Message updated successfully", msg)
}
