package appointments

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/medicare/practice-api/pkg/database"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Repository implements appointment persistence
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new appointment repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.AppointmentRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const appointmentSelect = `
	SELECT a.appointment_id, a.patient_id, a.doctor_id,
		   to_char(a.appointment_date, 'YYYY-MM-DD'),
		   to_char(a.appointment_time, 'HH24:MI'),
		   a.reason, a.created_at,
		   p.first_name || ' ' || p.last_name,
		   d.first_name || ' ' || d.last_name
	FROM appointments a
	JOIN patients p ON p.patient_id = a.patient_id
	JOIN doctors d ON d.doctor_id = a.doctor_id`

// Create inserts a new appointment and returns its id
func (r *Repository) Create(apt *types.Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, appointment_time, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING appointment_id`

	var id int64
	err := r.db.QueryRow(query,
		apt.PatientID,
		apt.DoctorID,
		apt.Date,
		apt.Time,
		apt.Reason,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create appointment: %w", err)
	}

	return id, nil
}

// GetByID retrieves an appointment by id
func (r *Repository) GetByID(id int64) (*types.Appointment, error) {
	query := appointmentSelect + ` WHERE a.appointment_id = $1`

	apt, err := scanAppointment(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("APPOINTMENT_NOT_FOUND", "Appointment not found")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return apt, nil
}

// ListByPatient returns a patient's appointments ordered by slot
func (r *Repository) ListByPatient(patientID int64) ([]*types.Appointment, error) {
	query := appointmentSelect + ` WHERE a.patient_id = $1 ORDER BY a.appointment_date, a.appointment_time`
	return r.list(query, patientID)
}

// ListByDoctor returns a doctor's appointments ordered by slot
func (r *Repository) ListByDoctor(doctorID int64) ([]*types.Appointment, error) {
	query := appointmentSelect + ` WHERE a.doctor_id = $1 ORDER BY a.appointment_date, a.appointment_time`
	return r.list(query, doctorID)
}

func (r *Repository) list(query string, ownerID int64) ([]*types.Appointment, error) {
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, apt)
	}

	return appointments, rows.Err()
}

// Update applies the non-nil fields of updates to an appointment
func (r *Repository) Update(id int64, updates *types.AppointmentUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.Date != nil {
		setParts = append(setParts, fmt.Sprintf("appointment_date = $%d", argIndex))
		args = append(args, *updates.Date)
		argIndex++
	}

	if updates.Time != nil {
		setParts = append(setParts, fmt.Sprintf("appointment_time = $%d", argIndex))
		args = append(args, *updates.Time)
		argIndex++
	}

	if updates.Reason != nil {
		setParts = append(setParts, fmt.Sprintf("reason = $%d", argIndex))
		args = append(args, *updates.Reason)
		argIndex++
	}

	if len(setParts) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE appointments SET %s WHERE appointment_id = $%d",
		strings.Join(setParts, ", "), argIndex)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("APPOINTMENT_NOT_FOUND", "Appointment not found")
	}

	return nil
}

// Delete removes an appointment
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM appointments WHERE appointment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("APPOINTMENT_NOT_FOUND", "Appointment not found")
	}

	return nil
}

// DeleteByPatient removes all of a patient's appointments
func (r *Repository) DeleteByPatient(patientID int64) error {
	if _, err := r.db.Exec(`DELETE FROM appointments WHERE patient_id = $1`, patientID); err != nil {
		return fmt.Errorf("failed to delete patient appointments: %w", err)
	}
	return nil
}

// DeleteByDoctor removes all of a doctor's appointments
func (r *Repository) DeleteByDoctor(doctorID int64) error {
	if _, err := r.db.Exec(`DELETE FROM appointments WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("failed to delete doctor appointments: %w", err)
	}
	return nil
}

// SlotTaken reports whether a doctor already has an appointment at the slot
func (r *Repository) SlotTaken(doctorID int64, date, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND appointment_date = $2 AND appointment_time = $3
		)`

	var taken bool
	if err := r.db.QueryRow(query, doctorID, date, timeOfDay).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check slot availability: %w", err)
	}

	return taken, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*types.Appointment, error) {
	var apt types.Appointment
	err := row.Scan(
		&apt.ID,
		&apt.PatientID,
		&apt.DoctorID,
		&apt.Date,
		&apt.Time,
		&apt.Reason,
		&apt.CreatedAt,
		&apt.PatientName,
		&apt.DoctorName,
	)
	if err != nil {
		return nil, err
	}
	return &apt, nil
}
