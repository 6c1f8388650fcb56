package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"needy/domain"
)

func TestInt(t *testing.T) {
	cases := []struct {
		name   string
		in     domain.FlexInt
		policy domain.Policy
		want   *int
		err    error
	}{
		{"absent", domain.FlexInt{}, domain.Strict, nil, nil},
		{"null", domain.NullInt(), domain.Strict, nil, nil},
		{"typed", domain.IntValue(7), domain.Strict, intPtr(7), nil},
		{"ascii text", domain.TextValue(" 42 "), domain.Strict, intPtr(42), nil},
		{"persian text", domain.TextValue("۱۲"), domain.Strict, intPtr(12), nil},
		{"arabic text", domain.TextValue("٣"), domain.Strict, intPtr(3), nil},
		{"blank", domain.TextValue("   "), domain.Strict, nil, nil},
		{"garbage strict", domain.TextValue("abc"), domain.Strict, nil, domain.ErrInvalidNumericFormat},
		{"garbage lenient", domain.TextValue("abc"), domain.BestEffort, nil, nil},
		{"negative strict", domain.TextValue("-3"), domain.Strict, nil, domain.ErrInvalidNumericFormat},
		{"float strict", domain.TextValue("3.5"), domain.Strict, nil, domain.ErrInvalidNumericFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Int(tc.in, tc.policy)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDate(t *testing.T) {
	got, err := Date(domain.DateText("۱۳۹۹-۰۱-۰۲"))
	require.NoError(t, err)
	assert.Equal(t, "1399-01-02", got.Format(time.DateOnly))

	got, err = Date(domain.DateText("2020-02-29"))
	require.NoError(t, err)
	assert.Equal(t, 2020, got.Year())

	typed := time.Date(2001, 5, 6, 0, 0, 0, 0, time.UTC)
	got, err = Date(domain.DateValue(typed))
	require.NoError(t, err)
	assert.True(t, typed.Equal(*got))

	got, err = Date(domain.FlexDate{Null: true})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Date(domain.DateText("02/03/2020"))
	assert.ErrorIs(t, err, domain.ErrInvalidDateFormat)
}

func TestPhone(t *testing.T) {
	p := " ۰۹۱۲۳۴۵۶۷۸۹ "
	assert.Equal(t, "09123456789", *Phone(&p))
	empty := "  "
	assert.Nil(t, Phone(&empty))
	assert.Nil(t, Phone(nil))
}

func intPtr(n int) *int { return &n }
