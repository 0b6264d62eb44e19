package auth

import (
	"fmt"
	"time"

	"github.com/medicare/practice-api/internal/security"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Service implements registration, login and profile lookup
type Service struct {
	patients  interfaces.PatientRepository
	doctors   interfaces.DoctorRepository
	tokens    *TokenManager
	passwords *PasswordManager
	logger    *logger.Logger
}

// NewService creates a new auth service
func NewService(patients interfaces.PatientRepository, doctors interfaces.DoctorRepository, tokens *TokenManager, log *logger.Logger) *Service {
	return &Service{
		patients:  patients,
		doctors:   doctors,
		tokens:    tokens,
		passwords: NewPasswordManager(),
		logger:    log,
	}
}

// RegisterPatient validates the submitted fields and creates a patient
// account. The fields map is the sanitized request body.
func (s *Service) RegisterPatient(fields map[string]interface{}) (*types.Patient, error) {
	rules := security.ValidationRules{
		Required:    []string{"first_name", "last_name", "email", "password"},
		EmailFields: []string{"email"},
	}
	if _, ok := fields["phone"]; ok {
		rules.PhoneFields = []string{"phone"}
	}

	if errors := security.ValidateInput(fields, rules); len(errors) > 0 {
		return nil, types.NewValidationError(errors)
	}

	password, _ := fields["password"].(string)
	if errors := security.ValidatePasswordStrength(password); len(errors) > 0 {
		return nil, types.NewValidationError(errors)
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, types.NewInternalError("Registration failed", err)
	}

	patient := &types.Patient{
		FirstName:    stringValue(fields, "first_name"),
		LastName:     stringValue(fields, "last_name"),
		DateOfBirth:  stringValue(fields, "date_of_birth"),
		Gender:       stringValue(fields, "gender"),
		Address:      stringValue(fields, "address"),
		Phone:        stringValue(fields, "phone"),
		Email:        stringValue(fields, "email"),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	id, err := s.patients.Create(patient)
	if err != nil {
		return nil, err
	}
	patient.ID = id

	s.logger.Audit(fmt.Sprintf("%d", id), "register", "patient", true, nil)
	return patient, nil
}

// RegisterDoctor validates the submitted fields and creates a doctor account
func (s *Service) RegisterDoctor(fields map[string]interface{}) (*types.Doctor, error) {
	rules := security.ValidationRules{
		Required:    []string{"first_name", "last_name", "email", "password"},
		EmailFields: []string{"email"},
	}
	if _, ok := fields["phone"]; ok {
		rules.PhoneFields = []string{"phone"}
	}

	if errors := security.ValidateInput(fields, rules); len(errors) > 0 {
		return nil, types.NewValidationError(errors)
	}

	password, _ := fields["password"].(string)
	if errors := security.ValidatePasswordStrength(password); len(errors) > 0 {
		return nil, types.NewValidationError(errors)
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, types.NewInternalError("Registration failed", err)
	}

	doctor := &types.Doctor{
		FirstName:    stringValue(fields, "first_name"),
		LastName:     stringValue(fields, "last_name"),
		Specialty:    stringValue(fields, "specialty"),
		Phone:        stringValue(fields, "phone"),
		Email:        stringValue(fields, "email"),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	id, err := s.doctors.Create(doctor)
	if err != nil {
		return nil, err
	}
	doctor.ID = id

	s.logger.Audit(fmt.Sprintf("%d", id), "register", "doctor", true, nil)
	return doctor, nil
}

// LoginPatient verifies patient credentials and issues a session token
func (s *Service) LoginPatient(email, password string) (*types.AuthToken, *types.Patient, error) {
	if errors := security.ValidateInput(map[string]interface{}{
		"email":    email,
		"password": password,
	}, security.ValidationRules{
		Required:    []string{"email", "password"},
		EmailFields: []string{"email"},
	}); len(errors) > 0 {
		return nil, nil, types.NewValidationError(errors)
	}

	patient, err := s.patients.GetByEmail(email)
	if err != nil {
		// A missing account reports the same error as a bad password
		return nil, nil, invalidCredentials()
	}

	ok, err := s.passwords.VerifyPassword(patient.PasswordHash, password)
	if err != nil {
		return nil, nil, types.NewInternalError("Login failed", err)
	}
	if !ok {
		return nil, nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(types.Identity{SubjectID: patient.ID, Role: types.RolePatient})
	if err != nil {
		return nil, nil, types.NewInternalError("Login failed", err)
	}

	s.logger.Audit(fmt.Sprintf("%d", patient.ID), "login", "patient", true, nil)
	return token, patient, nil
}

// LoginDoctor verifies doctor credentials and issues a session token
func (s *Service) LoginDoctor(email, password string) (*types.AuthToken, *types.Doctor, error) {
	if errors := security.ValidateInput(map[string]interface{}{
		"email":    email,
		"password": password,
	}, security.ValidationRules{
		Required:    []string{"email", "password"},
		EmailFields: []string{"email"},
	}); len(errors) > 0 {
		return nil, nil, types.NewValidationError(errors)
	}

	doctor, err := s.doctors.GetByEmail(email)
	if err != nil {
		return nil, nil, invalidCredentials()
	}

	ok, err := s.passwords.VerifyPassword(doctor.PasswordHash, password)
	if err != nil {
		return nil, nil, types.NewInternalError("Login failed", err)
	}
	if !ok {
		return nil, nil, invalidCredentials()
	}

	token, err := s.tokens.Issue(types.Identity{SubjectID: doctor.ID, Role: types.RoleDoctor})
	if err != nil {
		return nil, nil, types.NewInternalError("Login failed", err)
	}

	s.logger.Audit(fmt.Sprintf("%d", doctor.ID), "login", "doctor", true, nil)
	return token, doctor, nil
}

// GetProfile returns the account record behind the caller identity
func (s *Service) GetProfile(identity types.Identity) (interface{}, error) {
	switch identity.Role {
	case types.RolePatient:
		return s.patients.GetByID(identity.SubjectID)
	case types.RoleDoctor:
		return s.doctors.GetByID(identity.SubjectID)
	default:
		return nil, types.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}
}

// ListDoctors returns the doctor directory for appointment booking
func (s *Service) ListDoctors() ([]*types.Doctor, error) {
	return s.doctors.List()
}

func invalidCredentials() *types.AppError {
	return types.NewAuthenticationError("INVALID_CREDENTIALS", "Invalid credentials")
}

func stringValue(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
