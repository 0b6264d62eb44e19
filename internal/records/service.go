package records

import (
	"time"

	"github.com/medicare/practice-api/internal/auth"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Service implements medical note management. Notes are authored by doctors;
// patients may only read notes written about them.
type Service struct {
	notes    interfaces.MedicalNoteRepository
	patients interfaces.PatientRepository
	logger   *logger.Logger
}

// NewService creates a new medical records service
func NewService(notes interfaces.MedicalNoteRepository, patients interfaces.PatientRepository, log *logger.Logger) *Service {
	return &Service{
		notes:    notes,
		patients: patients,
		logger:   log,
	}
}

// CreateNote creates a medical note authored by the calling doctor
func (s *Service) CreateNote(identity types.Identity, req *types.MedicalNoteRequest) (*types.MedicalNote, error) {
	if identity.Role != types.RoleDoctor {
		return nil, types.NewAuthorizationError("Only doctors can create medical notes")
	}

	if err := validateNoteDate(req.NoteDate); err != nil {
		return nil, err
	}

	if _, err := s.patients.GetByID(req.PatientID); err != nil {
		return nil, err
	}

	note := &types.MedicalNote{
		PatientID:   req.PatientID,
		DoctorID:    identity.SubjectID,
		NoteDate:    req.NoteDate,
		NoteDetails: req.NoteDetails,
		Medication:  req.Medication,
		Treatment:   req.Treatment,
		CreatedAt:   time.Now(),
	}

	id, err := s.notes.Create(note)
	if err != nil {
		return nil, err
	}
	note.ID = id

	s.logger.WithFields(map[string]interface{}{
		"note_id":    id,
		"patient_id": note.PatientID,
		"doctor_id":  note.DoctorID,
	}).Info("Medical note created")

	return note, nil
}

// GetNote returns one note if the caller owns it
func (s *Service) GetNote(identity types.Identity, noteID int64) (*types.MedicalNote, error) {
	note, err := s.notes.GetByID(noteID)
	if err != nil {
		return nil, err
	}

	if auth.AuthorizeResource(identity, note.PatientID, note.DoctorID) != auth.Granted {
		return nil, types.NewAuthorizationError("Access denied")
	}

	return note, nil
}

// ListNotes returns the caller's notes: a patient's own records, or the
// notes a doctor has authored
func (s *Service) ListNotes(identity types.Identity) ([]*types.MedicalNote, error) {
	switch identity.Role {
	case types.RolePatient:
		return s.notes.ListByPatient(identity.SubjectID)
	case types.RoleDoctor:
		return s.notes.ListByDoctor(identity.SubjectID)
	default:
		return nil, types.NewValidationError([]string{"Invalid user type"})
	}
}

// ListPatientNotes returns all notes for one patient. Doctors only.
func (s *Service) ListPatientNotes(identity types.Identity, patientID int64) ([]*types.MedicalNote, error) {
	if identity.Role != types.RoleDoctor {
		return nil, types.NewAuthorizationError("Only doctors can access patient medical notes")
	}

	if _, err := s.patients.GetByID(patientID); err != nil {
		return nil, err
	}

	return s.notes.ListByPatient(patientID)
}

// UpdateNote applies updates to a note the calling doctor authored
func (s *Service) UpdateNote(identity types.Identity, noteID int64, updates *types.MedicalNoteUpdates) (*types.MedicalNote, error) {
	if identity.Role != types.RoleDoctor {
		return nil, types.NewAuthorizationError("Only doctors can update medical notes")
	}

	note, err := s.notes.GetByID(noteID)
	if err != nil {
		return nil, err
	}
	if auth.Authorize(identity, types.RoleDoctor, note.DoctorID) != auth.Granted {
		return nil, types.NewAuthorizationError("Access denied")
	}

	if updates.NoteDate != nil {
		if err := validateNoteDate(*updates.NoteDate); err != nil {
			return nil, err
		}
	}

	if err := s.notes.Update(noteID, updates); err != nil {
		return nil, err
	}

	return s.notes.GetByID(noteID)
}

// DeleteNote removes a note the calling doctor authored
func (s *Service) DeleteNote(identity types.Identity, noteID int64) error {
	if identity.Role != types.RoleDoctor {
		return types.NewAuthorizationError("Only doctors can delete medical notes")
	}

	note, err := s.notes.GetByID(noteID)
	if err != nil {
		return err
	}
	if auth.Authorize(identity, types.RoleDoctor, note.DoctorID) != auth.Granted {
		return types.NewAuthorizationError("Access denied")
	}

	return s.notes.Delete(noteID)
}

// ListPatients returns the patient directory. Doctors only.
func (s *Service) ListPatients(identity types.Identity) ([]*types.Patient, error) {
	if identity.Role != types.RoleDoctor {
		return nil, types.NewAuthorizationError("Only doctors can access patient list")
	}

	return s.patients.List()
}

func validateNoteDate(noteDate string) error {
	if _, err := time.Parse(types.DateLayout, noteDate); err != nil {
		return types.NewValidationError([]string{"note_date must use YYYY-MM-DD format"})
	}
	return nil
}
