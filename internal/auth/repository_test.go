package auth

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare/practice-api/pkg/database"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

func setupMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return &database.DB{DB: sqlDB}, mock
}

func TestPatientRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, logger.New("error"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WithArgs("Jane", "Doe", "1990-04-02", "female", "1 Main St", "+1 555 123 4567", "jane@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"patient_id"}).AddRow(int64(11)))

	id, err := repo.Create(&types.Patient{
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  "1990-04-02",
		Gender:       "female",
		Address:      "1 Main St",
		Phone:        "+1 555 123 4567",
		Email:        "jane@example.com",
		PasswordHash: "hash",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, logger.New("error"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "patients_email_key"})

	_, err := repo.Create(&types.Patient{Email: "jane@example.com"})

	require.Error(t, err)
	appErr, ok := err.(*types.AppError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
	assert.Equal(t, "EMAIL_EXISTS", appErr.Code)
}

func TestPatientRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, logger.New("error"))

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"patient_id", "first_name", "last_name", "to_char", "gender",
		"address", "phone", "email", "password_hash", "created_at",
	}).AddRow(int64(11), "Jane", "Doe", "1990-04-02", "female", "1 Main St", "+1 555 123 4567", "jane@example.com", "hash", created)

	mock.ExpectQuery("SELECT .+ FROM patients").
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	patient, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(11), patient.ID)
	assert.Equal(t, "1990-04-02", patient.DateOfBirth)
	assert.Equal(t, "Jane Doe", patient.FullName())
}

func TestPatientRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, logger.New("error"))

	mock.ExpectQuery("SELECT .+ FROM patients").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"patient_id"}))

	_, err := repo.GetByID(99)
	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeNotFound, appErr.Type)
}

func TestPatientRepository_UpdateFields(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, logger.New("error"))

	mock.ExpectExec("UPDATE patients SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(11, map[string]interface{}{"phone": "+1 555 000 0000"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db, logger.New("error"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM patients")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(99)
	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeNotFound, appErr.Type)
}

func TestDoctorRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDoctorRepository(db, logger.New("error"))

	created := time.Now()
	rows := sqlmock.NewRows([]string{
		"doctor_id", "first_name", "last_name", "specialty", "phone", "email", "password_hash", "created_at",
	}).
		AddRow(int64(1), "Greg", "House", "Diagnostics", "", "house@example.com", "hash", created).
		AddRow(int64(2), "James", "Wilson", "Oncology", "", "wilson@example.com", "hash", created)

	mock.ExpectQuery("SELECT .+ FROM doctors").WillReturnRows(rows)

	doctors, err := repo.List()
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Diagnostics", doctors[0].Specialty)
}
