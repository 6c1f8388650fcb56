package domain

import "context"

// SenderRepo delivers a verification code to a phone number.
type SenderRepo interface {
	SendCode(ctx context.Context, phone, code string) error
}
