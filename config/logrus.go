package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logrusInstance *logrus.Logger

func GetLogrusInstance() *logrus.Logger {
	if logrusInstance == nil {
		logrusInstance = logrus.New()
		logrusInstance.SetFormatter(&logrus.JSONFormatter{})
		logrusInstance.SetOutput(os.Stdout)

		level, err := logrus.ParseLevel(GetLogLevel())
		if err != nil {
			level = logrus.InfoLevel
		}
		logrusInstance.SetLevel(level)
	}
	return logrusInstance
}

func GetLogLevel() string {
	v := os.Getenv("LOG_LEVEL")
	if v == "" {
		return "info"
	}
	return v
}

const (
	green  = "\033[32m" // Green for 200 OK
	yellow = "\033[33m" // Yellow for 300 series
	red    = "\033[31m" // Red for 400 and 500 series
	reset  = "\033[0m"  // Reset to default color
)

func PrintLogInfo(username *string, statusCode int, functionName string) {
	var logColor string

	switch {
	case statusCode == fiber.StatusOK, statusCode == fiber.StatusCreated:
		logColor = green
	case statusCode == fiber.StatusAccepted:
		logColor = yellow
	case statusCode >= fiber.StatusBadRequest:
		logColor = red
	default:
		logColor = reset
	}

	user := "Unknown"
	if username != nil {
		user = *username
	}

	GetLogrusInstance().WithFields(logrus.Fields{
		"user":     user,
		"function": functionName,
		"status":   statusCode,
	}).Info(fmt.Sprintf("(%s) => Status: %s[%d] - %s%s", functionName, logColor, statusCode, http.StatusText(statusCode), reset))
}

func PrintStruct(strck interface{}) {
	jsonData, err := sonic.Marshal(strck)
	if err != nil {
		GetLogrusInstance().Errorf("Error marshaling struct: %v", err)
		return
	}

	GetLogrusInstance().Debug(string(jsonData))
}
