package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"needy/domain"
)

// GetContextTimeout is the per-request usecase deadline; zero disables it.
func GetContextTimeout() time.Duration {
	v, err := strconv.Atoi(os.Getenv("CONTEXT_TIMEOUT"))
	if err != nil || v <= 0 {
		return 0
	}
	return time.Duration(v) * time.Second
}

// GetAtomicRegistration wraps signup of a registrant, its children and its
// goods in a single transaction when true.
func GetAtomicRegistration() bool {
	v, _ := strconv.ParseBool(os.Getenv("ATOMIC_REGISTRATION"))
	return v
}

// GetPhoneGuard selects the duplicate phone check: "scan" walks every
// registrant, "index" relies on the normalized phone column.
func GetPhoneGuard() string {
	v := strings.ToLower(os.Getenv("PHONE_GUARD"))
	if v == "index" {
		return v
	}
	return "scan"
}

func GetJWTSecret() []byte {
	v := os.Getenv("BYTE_KEY")
	if v == "" {
		v = "dev-secret-key-change-in-production"
	}
	return []byte(v)
}

func GetTokenTTL() time.Duration {
	v, err := strconv.Atoi(os.Getenv("TOKEN_TTL_HOURS"))
	if err != nil || v <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(v) * time.Hour
}

func GetPolicies() domain.Policies {
	p := domain.DefaultPolicies()
	p.ChildAgeCreate = domain.ParsePolicy(os.Getenv("POLICY_CHILD_AGE_CREATE"), p.ChildAgeCreate)
	p.ChildAgeEdit = domain.ParsePolicy(os.Getenv("POLICY_CHILD_AGE_EDIT"), p.ChildAgeEdit)
	p.GoodQuantityCreate = domain.ParsePolicy(os.Getenv("POLICY_GOOD_QUANTITY_CREATE"), p.GoodQuantityCreate)
	p.GoodQuantityEdit = domain.ParsePolicy(os.Getenv("POLICY_GOOD_QUANTITY_EDIT"), p.GoodQuantityEdit)
	p.AdminRef = domain.ParsePolicy(os.Getenv("POLICY_ADMIN_REF"), p.AdminRef)
	return p
}
