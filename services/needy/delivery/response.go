package delivery

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"needy/config"
	"needy/domain"
)

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicatePhone),
		errors.Is(err, domain.ErrReferenceIntegrity):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidNumericFormat),
		errors.Is(err, domain.ErrInvalidDateFormat),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrPayloadRequired):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// caller returns the token claims and username of the request, both nil on
// public routes.
func caller(c *fiber.Ctx) (*domain.Claims, *string) {
	userToken, ok := c.Locals("user").(*domain.Claims)
	if !ok || userToken == nil {
		return nil, nil
	}
	return userToken, &userToken.Username
}

func callerID(c *fiber.Ctx) *int {
	userToken, _ := caller(c)
	if userToken == nil {
		return nil
	}
	id := userToken.AdminID
	return &id
}

func failWith(c *fiber.Ctx, user *string, functionName, message string, err error) error {
	status := errorStatus(err)
	config.PrintLogInfo(user, status, functionName)
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
		"data":    nil,
	})
}

func badRequest(c *fiber.Ctx, user *string, functionName, message string, err error) error {
	config.PrintLogInfo(user, fiber.StatusBadRequest, functionName)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
		"data":    nil,
	})
}

func succeed(c *fiber.Ctx, user *string, functionName string, status int, message string, data interface{}) error {
	config.PrintLogInfo(user, status, functionName)
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}
