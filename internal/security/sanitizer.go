package security

import (
	"strings"
)

// maxStringLength caps sanitized string values
const maxStringLength = 1000

var dangerousChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// Sanitize strips dangerous characters from every string contained in the
// value and truncates strings to maxStringLength. Maps and slices are rebuilt
// with each contained value sanitized recursively; other kinds pass through
// unchanged. Sanitizing an already sanitized value is a no-op.
func Sanitize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for key, item := range v {
			sanitized[key] = Sanitize(item)
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, item := range v {
			sanitized[i] = Sanitize(item)
		}
		return sanitized
	case string:
		return SanitizeString(v)
	default:
		return value
	}
}

// SanitizeString strips dangerous characters from a single string and
// truncates it to maxStringLength
func SanitizeString(s string) string {
	s = dangerousChars.Replace(s)
	if len(s) > maxStringLength {
		s = s[:maxStringLength]
	}
	return s
}

// SanitizeMap sanitizes a decoded request body in place of the original
func SanitizeMap(fields map[string]interface{}) map[string]interface{} {
	return Sanitize(fields).(map[string]interface{})
}
