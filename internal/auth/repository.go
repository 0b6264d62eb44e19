package auth

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/medicare/practice-api/pkg/database"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// PatientRepository implements patient persistence
type PatientRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *database.DB, log *logger.Logger) interfaces.PatientRepository {
	return &PatientRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new patient and returns its id
func (r *PatientRepository) Create(patient *types.Patient) (int64, error) {
	query := `
		INSERT INTO patients (first_name, last_name, date_of_birth, gender, address, phone, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING patient_id`

	var id int64
	err := r.db.QueryRow(query,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.Phone,
		patient.Email,
		patient.PasswordHash,
	).Scan(&id)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, types.NewConflictError("EMAIL_EXISTS", "Email already registered")
		}
		return 0, fmt.Errorf("failed to create patient: %w", err)
	}

	r.logger.WithField("patient_id", id).Info("Patient created successfully")
	return id, nil
}

// GetByID retrieves a patient by id
func (r *PatientRepository) GetByID(id int64) (*types.Patient, error) {
	query := patientSelect + ` WHERE patient_id = $1`

	patient, err := scanPatient(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient by id: %w", err)
	}

	return patient, nil
}

// GetByEmail retrieves a patient by email
func (r *PatientRepository) GetByEmail(email string) (*types.Patient, error) {
	query := patientSelect + ` WHERE email = $1`

	patient, err := scanPatient(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}

	return patient, nil
}

// UpdateFields updates the given columns of a patient record
func (r *PatientRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	return updateRow(r.db, "patients", "patient_id", id, updates)
}

// Delete removes a patient record
func (r *PatientRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM patients WHERE patient_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found")
	}

	r.logger.WithField("patient_id", id).Info("Patient deleted")
	return nil
}

// List returns all patients ordered by name
func (r *PatientRepository) List() ([]*types.Patient, error) {
	query := patientSelect + ` ORDER BY last_name, first_name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []*types.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, patient)
	}

	return patients, rows.Err()
}

// DoctorRepository implements doctor persistence
type DoctorRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *database.DB, log *logger.Logger) interfaces.DoctorRepository {
	return &DoctorRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new doctor and returns its id
func (r *DoctorRepository) Create(doctor *types.Doctor) (int64, error) {
	query := `
		INSERT INTO doctors (first_name, last_name, specialty, phone, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING doctor_id`

	var id int64
	err := r.db.QueryRow(query,
		doctor.FirstName,
		doctor.LastName,
		doctor.Specialty,
		doctor.Phone,
		doctor.Email,
		doctor.PasswordHash,
	).Scan(&id)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, types.NewConflictError("EMAIL_EXISTS", "Email already registered")
		}
		return 0, fmt.Errorf("failed to create doctor: %w", err)
	}

	r.logger.WithField("doctor_id", id).Info("Doctor created successfully")
	return id, nil
}

// GetByID retrieves a doctor by id
func (r *DoctorRepository) GetByID(id int64) (*types.Doctor, error) {
	query := doctorSelect + ` WHERE doctor_id = $1`

	doctor, err := scanDoctor(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("DOCTOR_NOT_FOUND", "Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor by id: %w", err)
	}

	return doctor, nil
}

// GetByEmail retrieves a doctor by email
func (r *DoctorRepository) GetByEmail(email string) (*types.Doctor, error) {
	query := doctorSelect + ` WHERE email = $1`

	doctor, err := scanDoctor(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("DOCTOR_NOT_FOUND", "Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}

	return doctor, nil
}

// UpdateFields updates the given columns of a doctor record
func (r *DoctorRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	return updateRow(r.db, "doctors", "doctor_id", id, updates)
}

// Delete removes a doctor record
func (r *DoctorRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM doctors WHERE doctor_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("DOCTOR_NOT_FOUND", "Doctor not found")
	}

	r.logger.WithField("doctor_id", id).Info("Doctor deleted")
	return nil
}

// List returns all doctors ordered by name
func (r *DoctorRepository) List() ([]*types.Doctor, error) {
	query := doctorSelect + ` ORDER BY last_name, first_name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*types.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	return doctors, rows.Err()
}

const patientSelect = `
	SELECT patient_id, first_name, last_name, to_char(date_of_birth, 'YYYY-MM-DD'),
		   gender, address, phone, email, password_hash, created_at
	FROM patients`

const doctorSelect = `
	SELECT doctor_id, first_name, last_name, specialty, phone, email, password_hash, created_at
	FROM doctors`

// rowScanner abstracts sql.Row and sql.Rows for the scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*types.Patient, error) {
	var patient types.Patient
	err := row.Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&patient.DateOfBirth,
		&patient.Gender,
		&patient.Address,
		&patient.Phone,
		&patient.Email,
		&patient.PasswordHash,
		&patient.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func scanDoctor(row rowScanner) (*types.Doctor, error) {
	var doctor types.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.FirstName,
		&doctor.LastName,
		&doctor.Specialty,
		&doctor.Phone,
		&doctor.Email,
		&doctor.PasswordHash,
		&doctor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

// updateRow builds and executes a dynamic UPDATE for the given columns
func updateRow(db *database.DB, table, idColumn string, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	for column, value := range updates {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(setParts, ", "), idColumn, argIndex)

	result, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if rows == 0 {
		return types.NewNotFoundError("NOT_FOUND", "Record not found")
	}

	return nil
}
