package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

var meowWhatsapp *whatsmeow.Client

func GetWAEnabled() bool {
	v, _ := strconv.ParseBool(os.Getenv("WA_ENABLED"))
	return v
}

// GetWACountryCode is prepended to local numbers once their leading zero is
// dropped.
func GetWACountryCode() string {
	v := os.Getenv("WA_COUNTRY_CODE")
	if v == "" {
		return "98"
	}
	return v
}

func GetWAQRPath() string {
	v := os.Getenv("WA_QR_PATH")
	if v == "" {
		return "qrcode.png"
	}
	return v
}

// InitSender connects the WhatsApp client used for verification codes. It
// returns nil when WA_ENABLED is off.
func InitSender(log *logrus.Logger) (*whatsmeow.Client, error) {
	if !GetWAEnabled() {
		log.Warn("WA_ENABLED is off, verification codes will only be logged")
		return nil, nil
	}

	meowAddress := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))

	container, err := sqlstore.New("postgres", meowAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to load whatsapp device: %w", err)
	}
	meowWhatsapp = whatsmeow.NewClient(deviceStore, nil)

	if meowWhatsapp.Store.ID != nil {
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect whatsapp: %w", err)
		}
		log.Info("WhatsMeow initialized")
		return meowWhatsapp, nil
	}

	qrChan, err := meowWhatsapp.GetQRChannel(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to open whatsapp qr channel: %w", err)
	}
	if err := meowWhatsapp.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect whatsapp: %w", err)
	}

	go func() {
		qrPath := GetWAQRPath()
		for evt := range qrChan {
			if evt.Event != "code" {
				log.Infof("Login event: %s", evt.Event)
				continue
			}
			if err := generateQRCode(evt.Code, qrPath); err != nil {
				log.Errorf("failed to write whatsapp qr code: %v", err)
				continue
			}
			log.Warnf("No WhatsApp session found, scan the QR code written to %s", qrPath)
		}
	}()

	return meowWhatsapp, nil
}

func generateQRCode(data, filePath string) error {
	err := qrcode.WriteFile(data, qrcode.Medium, 256, filePath)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %v", err)
	}
	return nil
}
