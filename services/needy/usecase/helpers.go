package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"needy/domain"
)

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// merge copies src into dst when the payload carried a value.
func merge[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// joinNonEmpty joins the non-empty parts with a space, or returns nil when
// nothing is left.
func joinNonEmpty(parts ...*string) *string {
	var out []string
	for _, p := range parts {
		if p != nil && strings.TrimSpace(*p) != "" {
			out = append(out, strings.TrimSpace(*p))
		}
	}
	if len(out) == 0 {
		return nil
	}
	s := strings.Join(out, " ")
	return &s
}

// resolveIssuer picks the admin credited with a good: the explicit value,
// else the registrant's primary supervisor, else the first admin on record.
// The last fallback credits an unrelated admin and is kept only for
// compatibility with existing clients.
func resolveIssuer(ctx context.Context, admins domain.AdminRepo, given *int, reg *domain.Register) (int, error) {
	if given != nil {
		return *given, nil
	}
	if reg != nil && reg.UnderWhichAdmin != nil {
		return *reg.UnderWhichAdmin, nil
	}
	first, err := admins.FirstAdminID(ctx)
	if err != nil {
		return 0, err
	}
	if first == nil {
		return 0, fmt.Errorf("%w: no admin available to issue goods", domain.ErrReferenceIntegrity)
	}
	return *first, nil
}
