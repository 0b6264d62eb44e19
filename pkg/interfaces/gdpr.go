package interfaces

import (
	"github.com/medicare/practice-api/pkg/types"
)

// GDPRService defines the interface for data subject rights handling
type GDPRService interface {
	ExportData(identity types.Identity) (*types.DataExport, error)
	DeleteData(identity types.Identity) error
	RectifyData(identity types.Identity, fields map[string]interface{}) ([]string, error)
	GetConsent(identity types.Identity) (*types.Consent, error)
	UpdateConsent(identity types.Identity, updates map[string]interface{}) (*types.Consent, error)
	ProcessingPurposes() []types.ProcessingPurpose
	RetentionPolicies() map[string]types.RetentionPolicy
}

// ConsentRepository defines the interface for consent persistence
type ConsentRepository interface {
	Get(role types.Role, subjectID int64) (*types.Consent, error)
	Upsert(consent *types.Consent) error
	Delete(role types.Role, subjectID int64) error
}
