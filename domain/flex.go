package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// FlexInt carries a numeric payload field that clients send either as a JSON
// number or as a (possibly localized) numeral string. A zero FlexInt means the
// key was absent; Null marks an explicit JSON null.
type FlexInt struct {
	Null bool
	Int  *int
	Text *string
}

func IntValue(n int) FlexInt { return FlexInt{Int: &n} }

func TextValue(s string) FlexInt { return FlexInt{Text: &s} }

func NullInt() FlexInt { return FlexInt{Null: true} }

// Present reports whether the field carried a non-null value.
func (f FlexInt) Present() bool { return f.Int != nil || f.Text != nil }

func (f FlexInt) MarshalJSON() ([]byte, error) {
	switch {
	case f.Int != nil:
		return []byte(strconv.Itoa(*f.Int)), nil
	case f.Text != nil:
		return sonic.Marshal(*f.Text)
	}
	return []byte("null"), nil
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	*f = FlexInt{}
	switch {
	case raw == "null" || raw == "":
		f.Null = true
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		f.Text = &s
	default:
		if n, err := strconv.Atoi(raw); err == nil {
			f.Int = &n
			return nil
		}
		// 3.0, true and friends are kept verbatim so the validators can reject them.
		f.Text = &raw
	}
	return nil
}

// FlexDate carries a date sent as "YYYY-MM-DD" (localized digits allowed) or
// already parsed by Go callers.
type FlexDate struct {
	Null bool
	Time *time.Time
	Text *string
}

func DateValue(t time.Time) FlexDate { return FlexDate{Time: &t} }

func DateText(s string) FlexDate { return FlexDate{Text: &s} }

func (f FlexDate) Present() bool { return f.Time != nil || f.Text != nil }

func (f FlexDate) MarshalJSON() ([]byte, error) {
	switch {
	case f.Time != nil:
		return sonic.Marshal(f.Time.Format(time.DateOnly))
	case f.Text != nil:
		return sonic.Marshal(*f.Text)
	}
	return []byte("null"), nil
}

func (f *FlexDate) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	*f = FlexDate{}
	if raw == "null" || raw == "" {
		f.Null = true
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		f.Text = &s
		return nil
	}
	f.Text = &raw
	return nil
}
