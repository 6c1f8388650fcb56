package domain

import "strings"

// Policy decides what happens to a numeric field that fails to parse.
type Policy int

const (
	// Strict rejects the payload with ErrInvalidNumericFormat.
	Strict Policy = iota
	// BestEffort silently turns the value into NULL.
	BestEffort
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "strict"
}

// ParsePolicy maps "strict" / "best-effort" (also "lenient") to a Policy.
func ParsePolicy(s string, fallback Policy) Policy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict
	case "best-effort", "besteffort", "lenient":
		return BestEffort
	}
	return fallback
}

// Policies is the per-field validation table. Create and edit paths keep
// separate entries because they historically disagree.
type Policies struct {
	ChildAgeCreate     Policy
	ChildAgeEdit       Policy
	GoodQuantityCreate Policy
	GoodQuantityEdit   Policy
	AdminRef           Policy
}

func DefaultPolicies() Policies {
	return Policies{
		ChildAgeCreate:     Strict,
		ChildAgeEdit:       BestEffort,
		GoodQuantityCreate: Strict,
		GoodQuantityEdit:   BestEffort,
		AdminRef:           Strict,
	}
}
