package security

import (
	"regexp"
	"strings"
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

	weakPasswords = map[string]struct{}{
		"password":    {},
		"123456":      {},
		"password123": {},
		"admin":       {},
		"qwerty":      {},
		"letmein":     {},
		"welcome":     {},
		"monkey":      {},
		"1234567890":  {},
	}
)

// ValidatePasswordStrength checks a password against the practice's password
// policy and returns one message per violated rule
func ValidatePasswordStrength(password string) []string {
	var errors []string

	if len(password) < 8 {
		errors = append(errors, "Password must be at least 8 characters long")
	}

	if !upperPattern.MatchString(password) {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}

	if !lowerPattern.MatchString(password) {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}

	if !digitPattern.MatchString(password) {
		errors = append(errors, "Password must contain at least one number")
	}

	if !specialPattern.MatchString(password) {
		errors = append(errors, "Password must contain at least one special character")
	}

	if _, weak := weakPasswords[strings.ToLower(password)]; weak {
		errors = append(errors, "Password is too common and weak")
	}

	return errors
}
