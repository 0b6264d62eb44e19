package records

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/medicare/practice-api/pkg/database"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Repository implements medical note persistence
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new medical note repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.MedicalNoteRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const noteSelect = `
	SELECT n.note_id, n.patient_id, n.doctor_id,
		   to_char(n.note_date, 'YYYY-MM-DD'),
		   n.note_details, n.medication, n.treatment, n.created_at,
		   p.first_name || ' ' || p.last_name,
		   d.first_name || ' ' || d.last_name
	FROM medical_notes n
	JOIN patients p ON p.patient_id = n.patient_id
	JOIN doctors d ON d.doctor_id = n.doctor_id`

// Create inserts a new medical note and returns its id
func (r *Repository) Create(note *types.MedicalNote) (int64, error) {
	query := `
		INSERT INTO medical_notes (patient_id, doctor_id, note_date, note_details, medication, treatment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING note_id`

	var id int64
	err := r.db.QueryRow(query,
		note.PatientID,
		note.DoctorID,
		note.NoteDate,
		note.NoteDetails,
		note.Medication,
		note.Treatment,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create medical note: %w", err)
	}

	return id, nil
}

// GetByID retrieves a medical note by id
func (r *Repository) GetByID(id int64) (*types.MedicalNote, error) {
	query := noteSelect + ` WHERE n.note_id = $1`

	note, err := scanNote(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("NOTE_NOT_FOUND", "Medical note not found")
		}
		return nil, fmt.Errorf("failed to get medical note: %w", err)
	}

	return note, nil
}

// ListByPatient returns a patient's notes, newest first
func (r *Repository) ListByPatient(patientID int64) ([]*types.MedicalNote, error) {
	query := noteSelect + ` WHERE n.patient_id = $1 ORDER BY n.note_date DESC, n.note_id DESC`
	return r.list(query, patientID)
}

// ListByDoctor returns the notes a doctor authored, newest first
func (r *Repository) ListByDoctor(doctorID int64) ([]*types.MedicalNote, error) {
	query := noteSelect + ` WHERE n.doctor_id = $1 ORDER BY n.note_date DESC, n.note_id DESC`
	return r.list(query, doctorID)
}

func (r *Repository) list(query string, ownerID int64) ([]*types.MedicalNote, error) {
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical notes: %w", err)
	}
	defer rows.Close()

	var notes []*types.MedicalNote
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medical note: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// Update applies the non-nil fields of updates to a note
func (r *Repository) Update(id int64, updates *types.MedicalNoteUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.NoteDate != nil {
		setParts = append(setParts, fmt.Sprintf("note_date = $%d", argIndex))
		args = append(args, *updates.NoteDate)
		argIndex++
	}

	if updates.NoteDetails != nil {
		setParts = append(setParts, fmt.Sprintf("note_details = $%d", argIndex))
		args = append(args, *updates.NoteDetails)
		argIndex++
	}

	if updates.Medication != nil {
		setParts = append(setParts, fmt.Sprintf("medication = $%d", argIndex))
		args = append(args, *updates.Medication)
		argIndex++
	}

	if updates.Treatment != nil {
		setParts = append(setParts, fmt.Sprintf("treatment = $%d", argIndex))
		args = append(args, *updates.Treatment)
		argIndex++
	}

	if len(setParts) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE medical_notes SET %s WHERE note_id = $%d",
		strings.Join(setParts, ", "), argIndex)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update medical note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update medical note: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("NOTE_NOT_FOUND", "Medical note not found")
	}

	return nil
}

// Delete removes a medical note
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM medical_notes WHERE note_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete medical note: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("NOTE_NOT_FOUND", "Medical note not found")
	}

	return nil
}

// DeleteByPatient removes all of a patient's notes
func (r *Repository) DeleteByPatient(patientID int64) error {
	if _, err := r.db.Exec(`DELETE FROM medical_notes WHERE patient_id = $1`, patientID); err != nil {
		return fmt.Errorf("failed to delete patient medical notes: %w", err)
	}
	return nil
}

// DeleteByDoctor removes all notes a doctor authored
func (r *Repository) DeleteByDoctor(doctorID int64) error {
	if _, err := r.db.Exec(`DELETE FROM medical_notes WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("failed to delete doctor medical notes: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*types.MedicalNote, error) {
	var note types.MedicalNote
	err := row.Scan(
		&note.ID,
		&note.PatientID,
		&note.DoctorID,
		&note.NoteDate,
		&note.NoteDetails,
		&note.Medication,
		&note.Treatment,
		&note.CreatedAt,
		&note.PatientName,
		&note.DoctorName,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
