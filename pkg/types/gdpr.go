package types

import "time"

// Consent holds a data subject's consent flags for the processing purposes
// the practice supports
type Consent struct {
	SubjectRole    Role      `json:"-" db:"subject_role"`
	SubjectID      int64     `json:"-" db:"subject_id"`
	DataProcessing bool      `json:"data_processing_consent" db:"data_processing"`
	Marketing      bool      `json:"marketing_consent" db:"marketing"`
	Analytics      bool      `json:"analytics_consent" db:"analytics"`
	Version        string    `json:"consent_version" db:"version"`
	UpdatedAt      time.Time `json:"consent_date" db:"updated_at"`
}

// DefaultConsent returns the consent flags assumed before a subject has
// recorded any preference
func DefaultConsent(role Role, subjectID int64) *Consent {
	return &Consent{
		SubjectRole:    role,
		SubjectID:      subjectID,
		DataProcessing: true,
		Marketing:      false,
		Analytics:      true,
		Version:        "1.0",
		UpdatedAt:      time.Now().UTC(),
	}
}

// DataExport is the portable bundle returned by the GDPR export endpoint
// (Article 20, right to data portability)
type DataExport struct {
	ExportDate  time.Time              `json:"export_date"`
	DataSubject Role                   `json:"data_subject"`
	Data        map[string]interface{} `json:"data"`
}

// RetentionPolicy describes how long a category of data is kept and why
type RetentionPolicy struct {
	RetentionPeriod string `json:"retention_period"`
	LegalBasis      string `json:"legal_basis"`
}

// ProcessingPurpose describes one purpose for which the practice processes
// personal data (Articles 13/14 disclosure)
type ProcessingPurpose struct {
	Purpose         string   `json:"purpose"`
	LegalBasis      string   `json:"legal_basis"`
	DataCategories  []string `json:"data_categories"`
	RetentionPeriod string   `json:"retention_period"`
	Description     string   `json:"description"`
}
