package gdpr

// Anonymize replaces the named fields with neutral placeholder values,
// leaving all other fields untouched. The input map is not modified.
func Anonymize(fields map[string]interface{}, fieldsToAnonymize []string) map[string]interface{} {
	anonymized := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		anonymized[key] = value
	}

	for _, field := range fieldsToAnonymize {
		if _, ok := anonymized[field]; !ok {
			continue
		}
		switch field {
		case "email":
			anonymized[field] = "anonymized@example.com"
		case "first_name", "last_name":
			anonymized[field] = "ANONYMIZED"
		case "phone":
			anonymized[field] = "XXX-XXX-XXXX"
		case "address":
			anonymized[field] = "ANONYMIZED ADDRESS"
		default:
			anonymized[field] = "ANONYMIZED"
		}
	}

	return anonymized
}
