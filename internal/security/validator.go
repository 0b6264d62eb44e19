package security

import (
	"fmt"
	"regexp"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)

	// Heuristic denylist for injection-shaped input. Best effort only, the
	// real defense is parameterized queries at the repository layer.
	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION)\b)`),
		regexp.MustCompile(`(--|#|/\*|\*/)`),
		regexp.MustCompile(`(?i)(\b(OR|AND)\s+\d+\s*=\s*\d+)`),
		regexp.MustCompile(`(?i)('\s*(OR|AND)\s*'\w*'\s*=\s*'\w*')`),
	}
)

// ValidationRules declares which fields of a request body are required and
// which carry email or phone values
type ValidationRules struct {
	Required    []string
	EmailFields []string
	PhoneFields []string
}

// ValidateInput checks the given fields against the rules and returns one
// message per violated rule. All violations are accumulated so the caller
// can report every problem in a single response.
func ValidateInput(fields map[string]interface{}, rules ValidationRules) []string {
	var errors []string

	for _, field := range rules.Required {
		value, ok := fields[field]
		if !ok || isEmpty(value) {
			errors = append(errors, fmt.Sprintf("%s is required", field))
		}
	}

	for _, field := range rules.EmailFields {
		if s, ok := stringField(fields, field); ok && s != "" {
			if !emailPattern.MatchString(s) {
				errors = append(errors, fmt.Sprintf("%s must be a valid email address", field))
			}
		}
	}

	for _, field := range rules.PhoneFields {
		if s, ok := stringField(fields, field); ok && s != "" {
			if !phonePattern.MatchString(s) {
				errors = append(errors, fmt.Sprintf("%s must be a valid phone number", field))
			}
		}
	}

	for field, value := range fields {
		s, ok := value.(string)
		if !ok {
			continue
		}
		for _, pattern := range sqlInjectionPatterns {
			if pattern.MatchString(s) {
				errors = append(errors, fmt.Sprintf("Invalid characters detected in %s", field))
				break
			}
		}
	}

	return errors
}

// isEmpty reports whether a field value counts as missing
func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	default:
		return false
	}
}

// stringField extracts a string-valued field
func stringField(fields map[string]interface{}, field string) (string, bool) {
	value, ok := fields[field]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}
