package gdpr

import (
	"fmt"
	"time"

	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Service implements the data subject rights endpoints: export, erasure,
// rectification and consent management
type Service struct {
	patients     interfaces.PatientRepository
	doctors      interfaces.DoctorRepository
	appointments interfaces.AppointmentRepository
	notes        interfaces.MedicalNoteRepository
	consents     interfaces.ConsentRepository
	logger       *logger.Logger
}

// NewService creates a new GDPR service
func NewService(
	patients interfaces.PatientRepository,
	doctors interfaces.DoctorRepository,
	appointments interfaces.AppointmentRepository,
	notes interfaces.MedicalNoteRepository,
	consents interfaces.ConsentRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		patients:     patients,
		doctors:      doctors,
		appointments: appointments,
		notes:        notes,
		consents:     consents,
		logger:       log,
	}
}

// ExportData bundles everything the practice holds about the caller
func (s *Service) ExportData(identity types.Identity) (*types.DataExport, error) {
	data := map[string]interface{}{}

	switch identity.Role {
	case types.RolePatient:
		patient, err := s.patients.GetByID(identity.SubjectID)
		if err != nil {
			return nil, err
		}
		data["profile"] = patient

		appointments, err := s.appointments.ListByPatient(identity.SubjectID)
		if err != nil {
			return nil, types.NewInternalError("Failed to export data", err)
		}
		data["appointments"] = appointments

		notes, err := s.notes.ListByPatient(identity.SubjectID)
		if err != nil {
			return nil, types.NewInternalError("Failed to export data", err)
		}
		data["medical_notes"] = notes

	case types.RoleDoctor:
		doctor, err := s.doctors.GetByID(identity.SubjectID)
		if err != nil {
			return nil, err
		}
		data["profile"] = doctor

		appointments, err := s.appointments.ListByDoctor(identity.SubjectID)
		if err != nil {
			return nil, types.NewInternalError("Failed to export data", err)
		}
		data["appointments"] = appointments

		notes, err := s.notes.ListByDoctor(identity.SubjectID)
		if err != nil {
			return nil, types.NewInternalError("Failed to export data", err)
		}
		data["medical_notes"] = notes

	default:
		return nil, types.NewValidationError([]string{"Invalid user type"})
	}

	consent, err := s.consents.Get(identity.Role, identity.SubjectID)
	if err == nil {
		data["consent"] = consent
	}

	s.logger.Audit(fmt.Sprintf("%d", identity.SubjectID), "data_export", string(identity.Role), true, nil)

	return &types.DataExport{
		ExportDate:  time.Now().UTC(),
		DataSubject: identity.Role,
		Data:        data,
	}, nil
}

// DeleteData erases the caller's account and all dependent records.
// Dependent rows go first, the subject row last.
func (s *Service) DeleteData(identity types.Identity) error {
	switch identity.Role {
	case types.RolePatient:
		patient, err := s.patients.GetByID(identity.SubjectID)
		if err != nil {
			return err
		}

		if err := s.notes.DeleteByPatient(identity.SubjectID); err != nil {
			return types.NewInternalError("Failed to delete data", err)
		}
		if err := s.appointments.DeleteByPatient(identity.SubjectID); err != nil {
			return types.NewInternalError("Failed to delete data", err)
		}
		_ = s.consents.Delete(identity.Role, identity.SubjectID)
		if err := s.patients.Delete(identity.SubjectID); err != nil {
			return err
		}

		// The audit trail keeps an anonymized profile, not the erased PII
		s.logger.Audit(fmt.Sprintf("%d", identity.SubjectID), "data_deletion", "patient", true,
			Anonymize(map[string]interface{}{
				"first_name": patient.FirstName,
				"last_name":  patient.LastName,
				"email":      patient.Email,
			}, []string{"first_name", "last_name", "email"}))

	case types.RoleDoctor:
		doctor, err := s.doctors.GetByID(identity.SubjectID)
		if err != nil {
			return err
		}

		if err := s.notes.DeleteByDoctor(identity.SubjectID); err != nil {
			return types.NewInternalError("Failed to delete data", err)
		}
		if err := s.appointments.DeleteByDoctor(identity.SubjectID); err != nil {
			return types.NewInternalError("Failed to delete data", err)
		}
		_ = s.consents.Delete(identity.Role, identity.SubjectID)
		if err := s.doctors.Delete(identity.SubjectID); err != nil {
			return err
		}

		s.logger.Audit(fmt.Sprintf("%d", identity.SubjectID), "data_deletion", "doctor", true,
			Anonymize(map[string]interface{}{
				"first_name": doctor.FirstName,
				"last_name":  doctor.LastName,
				"email":      doctor.Email,
			}, []string{"first_name", "last_name", "email"}))

	default:
		return types.NewValidationError([]string{"Invalid user type"})
	}

	return nil
}

// RectifyData updates the caller's rectifiable profile fields. Fields outside
// the per-role allowlist are ignored, and the applied field names returned.
func (s *Service) RectifyData(identity types.Identity, fields map[string]interface{}) ([]string, error) {
	var allowed []string
	switch identity.Role {
	case types.RolePatient:
		allowed = types.PatientRectifiableFields
	case types.RoleDoctor:
		allowed = types.DoctorRectifiableFields
	default:
		return nil, types.NewValidationError([]string{"Invalid user type"})
	}

	updates := map[string]interface{}{}
	var applied []string
	for _, field := range allowed {
		if value, ok := fields[field]; ok {
			updates[field] = value
			applied = append(applied, field)
		}
	}

	if len(updates) == 0 {
		return nil, types.NewValidationError([]string{"No rectifiable fields provided"})
	}

	var err error
	switch identity.Role {
	case types.RolePatient:
		err = s.patients.UpdateFields(identity.SubjectID, updates)
	case types.RoleDoctor:
		err = s.doctors.UpdateFields(identity.SubjectID, updates)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Audit(fmt.Sprintf("%d", identity.SubjectID), "data_rectification", string(identity.Role), true,
		map[string]interface{}{"fields": applied})

	return applied, nil
}

// GetConsent returns the caller's recorded consent, or the defaults when no
// preference has been stored yet
func (s *Service) GetConsent(identity types.Identity) (*types.Consent, error) {
	consent, err := s.consents.Get(identity.Role, identity.SubjectID)
	if err != nil {
		return types.DefaultConsent(identity.Role, identity.SubjectID), nil
	}
	return consent, nil
}

// UpdateConsent applies the submitted consent flags and persists the result
func (s *Service) UpdateConsent(identity types.Identity, updates map[string]interface{}) (*types.Consent, error) {
	consent, err := s.consents.Get(identity.Role, identity.SubjectID)
	if err != nil {
		consent = types.DefaultConsent(identity.Role, identity.SubjectID)
	}

	if v, ok := updates["data_processing_consent"].(bool); ok {
		consent.DataProcessing = v
	}
	if v, ok := updates["marketing_consent"].(bool); ok {
		consent.Marketing = v
	}
	if v, ok := updates["analytics_consent"].(bool); ok {
		consent.Analytics = v
	}
	consent.UpdatedAt = time.Now().UTC()

	if err := s.consents.Upsert(consent); err != nil {
		return nil, types.NewInternalError("Failed to update consent", err)
	}

	return consent, nil
}
