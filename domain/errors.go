package domain

import "errors"

var (
	ErrPayloadRequired      = errors.New("payload required")
	ErrDuplicatePhone       = errors.New("a needy person with this phone number is already registered")
	ErrInvalidNumericFormat = errors.New("invalid numeric format")
	ErrInvalidDateFormat    = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrNotFound             = errors.New("record not found")
	ErrChildPersistence     = errors.New("failed to persist children")
	ErrGoodPersistence      = errors.New("failed to persist goods")
	ErrReferenceIntegrity   = errors.New("referenced record does not exist or is still referenced")
	ErrInvalidRole          = errors.New("role must be Admin or GroupAdmin")
	ErrInvalidCode          = errors.New("verification code does not match")
	ErrInvalidCredentials   = errors.New("invalid username or password")
)
