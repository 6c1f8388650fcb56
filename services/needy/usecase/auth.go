package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"needy/digits"
	"needy/domain"
	"needy/middleware"
)

type authUC struct {
	admins  domain.AdminRepo
	TimeOut time.Duration
}

func NewAuthUseCase(admins domain.AdminRepo, timeOut time.Duration) domain.AuthUseCase {
	return &authUC{
		admins:  admins,
		TimeOut: timeOut,
	}
}

// Login accepts the admin's phone or e-mail as username. Unknown users and
// wrong passwords give the same error.
func (auc *authUC) Login(ctx context.Context, data *domain.LoginRequest) (*domain.LoginResponse, error) {
	if data == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	username := strings.TrimSpace(digits.Normalize(data.Username))
	admin, err := auc.admins.GetAdminByLogin(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(data.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := middleware.GenerateJWT(admin.AdminID, username, admin.UserRole)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{
		Token:   token,
		Role:    admin.UserRole,
		AdminID: admin.AdminID,
	}, nil
}
