package gdpr

import (
	"database/sql"
	"fmt"

	"github.com/medicare/practice-api/pkg/database"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// ConsentRepository implements consent persistence
type ConsentRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewConsentRepository creates a new consent repository
func NewConsentRepository(db *database.DB, log *logger.Logger) interfaces.ConsentRepository {
	return &ConsentRepository{
		db:     db,
		logger: log,
	}
}

// Get retrieves a subject's recorded consent
func (r *ConsentRepository) Get(role types.Role, subjectID int64) (*types.Consent, error) {
	query := `
		SELECT subject_role, subject_id, data_processing, marketing, analytics, version, updated_at
		FROM consents
		WHERE subject_role = $1 AND subject_id = $2`

	var consent types.Consent
	err := r.db.QueryRow(query, role, subjectID).Scan(
		&consent.SubjectRole,
		&consent.SubjectID,
		&consent.DataProcessing,
		&consent.Marketing,
		&consent.Analytics,
		&consent.Version,
		&consent.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("CONSENT_NOT_FOUND", "No consent recorded")
		}
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}

	return &consent, nil
}

// Upsert stores a subject's consent, replacing any previous record
func (r *ConsentRepository) Upsert(consent *types.Consent) error {
	query := `
		INSERT INTO consents (subject_role, subject_id, data_processing, marketing, analytics, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (subject_role, subject_id) DO UPDATE SET
			data_processing = EXCLUDED.data_processing,
			marketing = EXCLUDED.marketing,
			analytics = EXCLUDED.analytics,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(query,
		consent.SubjectRole,
		consent.SubjectID,
		consent.DataProcessing,
		consent.Marketing,
		consent.Analytics,
		consent.Version,
		consent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert consent: %w", err)
	}

	return nil
}

// Delete removes a subject's consent record
func (r *ConsentRepository) Delete(role types.Role, subjectID int64) error {
	if _, err := r.db.Exec(`DELETE FROM consents WHERE subject_role = $1 AND subject_id = $2`, role, subjectID); err != nil {
		return fmt.Errorf("failed to delete consent: %w", err)
	}
	return nil
}
