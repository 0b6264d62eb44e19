package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

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

// MockDoctorRepository is a mock implementation of DoctorRepository
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(doctor *types.Doctor) (int64, error) {
	args := m.Called(doctor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDoctorRepository) GetByID(id int64) (*types.Doctor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) GetByEmail(email string) (*types.Doctor, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockDoctorRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDoctorRepository) List() ([]*types.Doctor, error) {
	args := m.Called()
	return args.Get(0).([]*types.Doctor), args.Error(1)
}

func setupTestService() (*Service, *MockPatientRepository, *MockDoctorRepository) {
	patients := &MockPatientRepository{}
	doctors := &MockDoctorRepository{}
	service := NewService(patients, doctors, testTokenManager(), logger.New("error"))
	return service, patients, doctors
}

func TestService_RegisterPatient_Success(t *testing.T) {
	service, patients, _ := setupTestService()

	patients.On("Create", mock.AnythingOfType("*types.Patient")).Return(int64(11), nil)

	patient, err := service.RegisterPatient(map[string]interface{}{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"password":   "Str0ng!Pass",
		"phone":      "+1 555 123 4567",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), patient.ID)
	assert.Equal(t, "Jane", patient.FirstName)
	assert.NotEqual(t, "Str0ng!Pass", patient.PasswordHash)

	// Stored hash must verify against the submitted password
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte("Str0ng!Pass")))
	patients.AssertExpectations(t)
}

func TestService_RegisterPatient_WeakPassword(t *testing.T) {
	service, patients, _ := setupTestService()

	_, err := service.RegisterPatient(map[string]interface{}{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"password":   "abc",
	})

	require.Error(t, err)
	appErr, ok := err.(*types.AppError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeValidation, appErr.Type)

	messages := appErr.Details["errors"].([]string)
	assert.Len(t, messages, 4)
	patients.AssertNotCalled(t, "Create", mock.Anything)
}

func TestService_RegisterPatient_MissingFields(t *testing.T) {
	service, _, _ := setupTestService()

	_, err := service.RegisterPatient(map[string]interface{}{
		"first_name": "Jane",
	})

	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeValidation, appErr.Type)

	messages := appErr.Details["errors"].([]string)
	assert.Contains(t, messages, "last_name is required")
	assert.Contains(t, messages, "email is required")
	assert.Contains(t, messages, "password is required")
}

func TestService_RegisterPatient_DuplicateEmail(t *testing.T) {
	service, patients, _ := setupTestService()

	patients.On("Create", mock.AnythingOfType("*types.Patient")).
		Return(int64(0), types.NewConflictError("EMAIL_EXISTS", "Email already registered"))

	_, err := service.RegisterPatient(map[string]interface{}{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"password":   "Str0ng!Pass",
	})

	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
}

func TestService_RegisterDoctor_Success(t *testing.T) {
	service, _, doctors := setupTestService()

	doctors.On("Create", mock.AnythingOfType("*types.Doctor")).Return(int64(3), nil)

	doctor, err := service.RegisterDoctor(map[string]interface{}{
		"first_name": "Greg",
		"last_name":  "House",
		"email":      "house@example.com",
		"password":   "Str0ng!Pass",
		"specialty":  "Diagnostics",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), doctor.ID)
	assert.Equal(t, "Diagnostics", doctor.Specialty)
}

func TestService_LoginPatient_Success(t *testing.T) {
	service, patients, _ := setupTestService()

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.MinCost)
	require.NoError(t, err)

	patients.On("GetByEmail", "jane@example.com").Return(&types.Patient{
		ID:           11,
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}, nil)

	token, patient, err := service.LoginPatient("jane@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, int64(11), patient.ID)

	// The issued token must round-trip to the same identity
	identity, err := service.tokens.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, types.Identity{SubjectID: 11, Role: types.RolePatient}, identity)
}

func TestService_LoginPatient_WrongPassword(t *testing.T) {
	service, patients, _ := setupTestService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.MinCost)
	patients.On("GetByEmail", "jane@example.com").Return(&types.Patient{
		ID:           11,
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}, nil)

	_, _, err := service.LoginPatient("jane@example.com", "WrongPass1!")
	require.Error(t, err)
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeAuthentication, appErr.Type)
}

func TestService_LoginPatient_UnknownEmail(t *testing.T) {
	service, patients, _ := setupTestService()

	patients.On("GetByEmail", "nobody@example.com").
		Return(nil, types.NewNotFoundError("PATIENT_NOT_FOUND", "Patient not found"))

	_, _, err := service.LoginPatient("nobody@example.com", "Str0ng!Pass")
	require.Error(t, err)

	// An unknown account is indistinguishable from a wrong password
	appErr := err.(*types.AppError)
	assert.Equal(t, types.ErrorTypeAuthentication, appErr.Type)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestService_LoginDoctor_Success(t *testing.T) {
	service, _, doctors := setupTestService()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.MinCost)
	doctors.On("GetByEmail", "house@example.com").Return(&types.Doctor{
		ID:           3,
		Email:        "house@example.com",
		PasswordHash: string(hash),
	}, nil)

	token, doctor, err := service.LoginDoctor("house@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Equal(t, int64(3), doctor.ID)

	identity, err := service.tokens.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, types.RoleDoctor, identity.Role)
}

func TestService_GetProfile(t *testing.T) {
	service, patients, doctors := setupTestService()

	patients.On("GetByID", int64(11)).Return(&types.Patient{ID: 11, FirstName: "Jane"}, nil)
	doctors.On("GetByID", int64(3)).Return(&types.Doctor{ID: 3, FirstName: "Greg"}, nil)

	profile, err := service.GetProfile(types.Identity{SubjectID: 11, Role: types.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.(*types.Patient).FirstName)

	profile, err = service.GetProfile(types.Identity{SubjectID: 3, Role: types.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, "Greg", profile.(*types.Doctor).FirstName)
}
