package gdpr

import (
	"time"

	"github.com/medicare/practice-api/pkg/types"
)

// ProcessingPurposes returns the purposes for which the practice processes
// personal data (Articles 13/14 disclosure)
func (s *Service) ProcessingPurposes() []types.ProcessingPurpose {
	return []types.ProcessingPurpose{
		{
			Purpose:         "Healthcare Service Delivery",
			LegalBasis:      "Vital interests and consent",
			DataCategories:  []string{"Personal identification", "Health data", "Contact information"},
			RetentionPeriod: "7 years after last treatment",
			Description:     "Processing patient data to provide medical care and maintain health records",
		},
		{
			Purpose:         "Appointment Management",
			LegalBasis:      "Contract performance and consent",
			DataCategories:  []string{"Personal identification", "Contact information", "Appointment details"},
			RetentionPeriod: "2 years after appointment",
			Description:     "Managing and scheduling patient appointments with healthcare providers",
		},
		{
			Purpose:         "System Security and Audit",
			LegalBasis:      "Legitimate interests",
			DataCategories:  []string{"Access logs", "System usage data"},
			RetentionPeriod: "1 year",
			Description:     "Ensuring system security and maintaining audit trails for compliance",
		},
	}
}

// RetentionPolicies returns how long each category of data is kept
func (s *Service) RetentionPolicies() map[string]types.RetentionPolicy {
	return map[string]types.RetentionPolicy{
		"medical_records": {
			RetentionPeriod: "7 years",
			LegalBasis:      "Legal obligation and vital interests",
		},
		"appointment_data": {
			RetentionPeriod: "2 years",
			LegalBasis:      "Contract performance",
		},
		"user_accounts": {
			RetentionPeriod: "Until account deletion requested",
			LegalBasis:      "Consent and contract performance",
		},
		"audit_logs": {
			RetentionPeriod: "1 year",
			LegalBasis:      "Legitimate interests",
		},
	}
}

// SubjectRights lists the rights every data subject can exercise
func SubjectRights() []string {
	return []string{
		"Right to access your data",
		"Right to rectify inaccurate data",
		"Right to erase your data",
		"Right to restrict processing",
		"Right to data portability",
		"Right to object to processing",
		"Right to withdraw consent",
	}
}

// DataController identifies the controller and its privacy contacts
func DataController() map[string]string {
	return map[string]string{
		"name":        "MediCare Medical Practice",
		"contact":     "privacy@medicare.com",
		"dpo_contact": "dpo@medicare.com",
	}
}

// PrivacyPolicy returns the current privacy policy payload
func PrivacyPolicy() map[string]interface{} {
	return map[string]interface{}{
		"version":        "1.0",
		"effective_date": "2024-01-01",
		"last_updated":   time.Now().UTC().Format(time.RFC3339),
		"policy_url":     "/privacy-policy",
		"summary": map[string]interface{}{
			"data_collected": []string{
				"Personal identification information",
				"Health and medical information",
				"Contact information",
				"Appointment and scheduling data",
			},
			"data_usage": []string{
				"Providing healthcare services",
				"Managing appointments",
				"Maintaining medical records",
				"System security and compliance",
			},
			"data_sharing":   "Data is not shared with third parties except as required by law or for emergency medical care",
			"data_retention": "Medical data retained for 7 years, appointment data for 2 years, as per legal requirements",
			"user_rights":    "Users have full GDPR rights including access, rectification, erasure, and portability",
		},
	}
}
