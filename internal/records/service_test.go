package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// MockMedicalNoteRepository is a mock implementation of MedicalNoteRepository
type MockMedicalNoteRepository struct {
	mock.Mock
}

func (m *MockMedicalNoteRepository) Create(note *types.MedicalNote) (int64, error) {
	args := m.Called(note)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicalNoteRepository) GetByID(id int64) (*types.MedicalNote, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MedicalNote), args.Error(1)
}

func (m *MockMedicalNoteRepository) ListByPatient(patientID int64) ([]*types.MedicalNote, error) {
	args := m.Called(patientID)
	return args.Get(0).([]*types.MedicalNote), args.Error(1)
}

func (m *MockMedicalNoteRepository) ListByDoctor(doctorID int64) ([]*types.MedicalNote, error) {
	args := m.Called(doctorID)
	return args.Get(0).([]*types.MedicalNote), args.Error(1)
}

func (m *MockMedicalNoteRepository) Update(id int64, updates *types.MedicalNoteUpdates) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockMedicalNoteRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMedicalNoteRepository) DeleteByPatient(patientID int64) error {
	args := m.Called(patientID)
	return args.Error(0)
}

func (m *MockMedicalNoteRepository) DeleteByDoctor(doctorID int64) error {
	args := m.Called(doctorID)
	return args.Error(0)
}

// MockPatientRepository is a mock implementation of PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(patient *types.Patient) (int64, error) {
	args := m.Called(patient)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) GetByID(id int64) (*types.Patient, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockPatientRepository) GetByEmail(email string) (*types.Patient, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockPatientRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPatientRepository) List() ([]*types.Patient, error) {
	args := m.Called()
	return args.Get(0).([]*types.Patient), args.Error(1)
}

func setupTestService() (*Service, *MockMedicalNoteRepository, *MockPatientRepository) {
	notes := &MockMedicalNoteRepository{}
	patients := &MockPatientRepository{}
	service := NewService(notes, patients, logger.New("error"))
	return service, notes, patients
}

var (
	patientIdentity = types.Identity{SubjectID: 7, Role: types.RolePatient}
	doctorIdentity  = types.Identity{SubjectID: 3, Role: types.RoleDoctor}
)

func TestService_CreateNote_DoctorOnly(t *testing.T) {
	service, notes, _ := setupTestService()

	_, err := service.CreateNote(patientIdentity, &types.MedicalNoteRequest{
		PatientID: 7,
		NoteDate:  "2026-08-30",
	})

	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeAuthorization, appErr.Type)
	notes.AssertNotCalled(t, "Create", mock.Anything)
}

func TestService_CreateNote_Success(t *testing.T) {
	service, notes, patients := setupTestService()

	patients.On("GetByID", int64(7)).Return(&types.Patient{ID: 7}, nil)
	notes.On("Create", mock.AnythingOfType("*types.MedicalNote")).Return(int64(31), nil)

	note, err := service.CreateNote(doctorIdentity, &types.MedicalNoteRequest{
		PatientID:   7,
		NoteDate:    "2026-08-30",
		NoteDetails: "Stable vitals",
		Medication:  "None",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(31), note.ID)

	// The note is always attributed to the calling doctor
	assert.Equal(t, int64(3), note.DoctorID)
	notes.AssertExpectations(t)
}

func TestService_CreateNote_UnknownPatient(t *testing.T) {
	service, _, patients := setupTestService()

	patients.On("GetByID", int64(99)).
		Return(nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found"))

	_, err := service.CreateNote(doctorIdentity, &types.MedicalNoteRequest{
		PatientID: 99,
		NoteDate:  "2026-08-30",
	})

	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeNotFound, appErr.Type)
}

func TestService_CreateNote_BadDate(t *testing.T) {
	service, _, _ := setupTestService()

	_, err := service.CreateNote(doctorIdentity, &types.MedicalNoteRequest{
		PatientID: 7,
		NoteDate:  "30-08-2026",
	})

	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeValidation, appErr.Type)
}

func TestService_GetNote_PatientReadsOwnNote(t *testing.T) {
	service, notes, _ := setupTestService()

	notes.On("GetByID", int64(31)).Return(&types.MedicalNote{
		ID: 31, PatientID: 7, DoctorID: 3,
	}, nil)

	note, err := service.GetNote(patientIdentity, 31)
	require.NoError(t, err)
	assert.Equal(t, int64(31), note.ID)
}

func TestService_GetNote_OtherPatientDenied(t *testing.T) {
	service, notes, _ := setupTestService()

	notes.On("GetByID", int64(31)).Return(&types.MedicalNote{
		ID: 31, PatientID: 8, DoctorID: 3,
	}, nil)

	_, err := service.GetNote(patientIdentity, 31)
	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeAuthorization, appErr.Type)
}

func TestService_ListPatientNotes_DoctorOnly(t *testing.T) {
	service, notes, patients := setupTestService()

	_, err := service.ListPatientNotes(patientIdentity, 7)
	require.Error(t, err)

	patients.On("GetByID", int64(7)).Return(&types.Patient{ID: 7}, nil)
	notes.On("ListByPatient", int64(7)).Return([]*types.MedicalNote{{ID: 31}}, nil)

	got, err := service.ListPatientNotes(doctorIdentity, 7)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_UpdateNote_OnlyAuthor(t *testing.T) {
	service, notes, _ := setupTestService()

	notes.On("GetByID", int64(31)).Return(&types.MedicalNote{
		ID: 31, PatientID: 7, DoctorID: 4, // authored by a different doctor
	}, nil)

	details := "Updated"
	_, err := service.UpdateNote(doctorIdentity, 31, &types.MedicalNoteUpdates{NoteDetails: &details})

	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeAuthorization, appErr.Type)
	notes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateNote_Success(t *testing.T) {
	service, notes, _ := setupTestService()

	notes.On("GetByID", int64(31)).Return(&types.MedicalNote{
		ID: 31, PatientID: 7, DoctorID: 3,
	}, nil)

	details := "Improving"
	notes.On("Update", int64(31), mock.MatchedBy(func(u *types.MedicalNoteUpdates) bool {
		return u.NoteDetails != nil && *u.NoteDetails == "Improving"
	})).Return(nil)

	_, err := service.UpdateNote(doctorIdentity, 31, &types.MedicalNoteUpdates{NoteDetails: &details})
	require.NoError(t, err)
	notes.AssertExpectations(t)
}

func TestService_DeleteNote(t *testing.T) {
	service, notes, _ := setupTestService()

	notes.On("GetByID", int64(31)).Return(&types.MedicalNote{
		ID: 31, PatientID: 7, DoctorID: 3,
	}, nil)
	notes.On("Delete", int64(31)).Return(nil)

	require.Error(t, service.DeleteNote(patientIdentity, 31))
	require.NoError(t, service.DeleteNote(doctorIdentity, 31))
}

func TestService_ListPatients_DoctorOnly(t *testing.T) {
	service, _, patients := setupTestService()

	_, err := service.ListPatients(patientIdentity)
	require.Error(t, err)

	patients.On("List").Return([]*types.Patient{{ID: 7}}, nil)
	got, err := service.ListPatients(doctorIdentity)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
