package interfaces

import (
	"github.com/medicare/practice-api/pkg/types"
)

// AuthService defines the interface for registration and login
type AuthService interface {
	RegisterPatient(fields map[string]interface{}) (*types.Patient, error)
	RegisterDoctor(fields map[string]interface{}) (*types.Doctor, error)
	LoginPatient(email, password string) (*types.AuthToken, *types.Patient, error)
	LoginDoctor(email, password string) (*types.AuthToken, *types.Doctor, error)
}

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	Create(patient *types.Patient) (int64, error)
	GetByID(id int64) (*types.Patient, error)
	GetByEmail(email string) (*types.Patient, error)
	UpdateFields(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	List() ([]*types.Patient, error)
}

// DoctorRepository defines the interface for doctor persistence
type DoctorRepository interface {
	Create(doctor *types.Doctor) (int64, error)
	GetByID(id int64) (*types.Doctor, error)
	GetByEmail(email string) (*types.Doctor, error)
	UpdateFields(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	List() ([]*types.Doctor, error)
}
