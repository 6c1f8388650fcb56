// Package digits folds Persian and Arabic-Indic numerals into ASCII digits.
package digits

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	persianZero = '۰' // U+06F0
	arabicZero  = '٠' // U+0660
)

var folder = runes.Map(fold)

func fold(r rune) rune {
	switch {
	case r >= persianZero && r <= persianZero+9:
		return '0' + (r - persianZero)
	case r >= arabicZero && r <= arabicZero+9:
		return '0' + (r - arabicZero)
	}
	return r
}

// Normalize returns s with every Persian (۰-۹) and Arabic-Indic (٠-٩) digit
// replaced by its ASCII counterpart. Other runes pass through unchanged.
func Normalize(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return out
}

// IsASCIIDigits reports whether s is non-empty and made only of 0-9.
func IsASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
