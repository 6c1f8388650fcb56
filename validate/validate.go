// Package validate coerces loosely typed payload fields into their stored
// types.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"needy/digits"
	"needy/domain"
)

// Int resolves a nullable numeric field. Absent, null and blank input yield
// nil. Text is trimmed and digit-normalized; anything that is not all digits
// fails under Strict and becomes nil under BestEffort.
func Int(in domain.FlexInt, policy domain.Policy) (*int, error) {
	if in.Int != nil {
		n := *in.Int
		return &n, nil
	}
	if in.Text == nil {
		return nil, nil
	}

	norm := strings.TrimSpace(digits.Normalize(*in.Text))
	if norm == "" {
		return nil, nil
	}
	if digits.IsASCIIDigits(norm) {
		if n, err := strconv.Atoi(norm); err == nil {
			return &n, nil
		}
	}

	if policy == domain.BestEffort {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNumericFormat, *in.Text)
}

// Date resolves a nullable YYYY-MM-DD date.
func Date(in domain.FlexDate) (*time.Time, error) {
	if in.Time != nil {
		t := *in.Time
		return &t, nil
	}
	if in.Text == nil {
		return nil, nil
	}

	norm := strings.TrimSpace(digits.Normalize(*in.Text))
	if norm == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, norm)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDateFormat, *in.Text)
	}
	return &t, nil
}

// Phone returns the digit-normalized, trimmed phone or nil when empty.
func Phone(phone *string) *string {
	if phone == nil {
		return nil
	}
	norm := strings.TrimSpace(digits.Normalize(*phone))
	if norm == "" {
		return nil
	}
	return &norm
}
