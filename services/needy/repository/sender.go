package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"

	"needy/digits"
	"needy/domain"
)

type whatsappSender struct {
	meowClient  *whatsmeow.Client
	countryCode string
	appName     string
	log         *logrus.Logger
}

// NewSender delivers codes over WhatsApp when a client is connected and only
// logs them otherwise.
func NewSender(meow *whatsmeow.Client, countryCode, appName string, log *logrus.Logger) domain.SenderRepo {
	if meow == nil {
		return &logSender{log: log}
	}
	return &whatsappSender{
		meowClient:  meow,
		countryCode: countryCode,
		appName:     appName,
		log:         log,
	}
}

func (s *whatsappSender) SendCode(ctx context.Context, phone, code string) error {
	number := InternationalNumber(phone, s.countryCode)
	if number == "" {
		return fmt.Errorf("%w: empty phone", domain.ErrInvalidNumericFormat)
	}

	jid := types.NewJID(number, types.DefaultUserServer)
	body := fmt.Sprintf("%s verification code: %s", s.appName, code)
	conversationMessage := &waE2E.Message{
		Conversation: &body,
	}

	if _, err := s.meowClient.SendMessage(ctx, jid, conversationMessage); err != nil {
		s.log.WithField("jid", jid.String()).Errorf("whatsapp send failed: %v", err)
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

// InternationalNumber turns a local number such as "0912..." into "98912...".
// Numbers already carrying a "+" or the country code are kept as digits.
func InternationalNumber(phone, countryCode string) string {
	number := strings.TrimSpace(digits.Normalize(phone))
	number = strings.ReplaceAll(number, " ", "")
	number = strings.ReplaceAll(number, "-", "")
	switch {
	case strings.HasPrefix(number, "+"):
		return number[1:]
	case strings.HasPrefix(number, "00"):
		return number[2:]
	case strings.HasPrefix(number, "0"):
		return countryCode + number[1:]
	}
	return number
}

type logSender struct {
	log *logrus.Logger
}

func (s *logSender) SendCode(_ context.Context, phone, code string) error {
	s.log.WithFields(logrus.Fields{"phone": phone, "code": code}).Info("verification code (not delivered)")
	return nil
}
