package config

import (
	"errors"
	"net"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func GetFiberListenAddress() string {
	return net.JoinHostPort(GetFiberHttpHost(), GetFiberHttpPort())
}

func GetFiberConfig() fiber.Config {
	return fiber.Config{
		JSONEncoder:   sonic.Marshal,
		JSONDecoder:   sonic.Unmarshal,
		ServerHeader:  GetAppName(),
		AppName:       GetAppName(),
		ReadTimeout:   time.Minute,
		CaseSensitive: true,
		ErrorHandler:  jsonErrorHandler,
	}
}

// jsonErrorHandler answers unhandled errors (unknown routes, panics caught by
// recover) with the same envelope the handlers use.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	PrintLogInfo(nil, code, "ErrorHandler")
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": "Request failed",
		"error":   err.Error(),
		"data":    nil,
	})
}

func GetAppName() string {
	return envOr("APP_NAME", "MADADJU")
}

func GetFiberHttpHost() string {
	return envOr("HTTP_HOST", "0.0.0.0")
}

func GetFiberHttpPort() string {
	return envOr("HTTP_PORT", "8000")
}

func GetCORSOrigins() string {
	return envOr("CORS_ALLOW_ORIGINS", "*")
}
