package types

import "time"

// Role represents the two user roles in the system
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Valid reports whether the role is one the system knows about
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// Identity is the caller identity recovered from a validated bearer token:
// the subject's record ID plus their role. It is reconstructed per request
// and never persisted.
type Identity struct {
	SubjectID int64 `json:"subject_id"`
	Role      Role  `json:"role"`
}

// Patient represents a registered patient
type Patient struct {
	ID           int64     `json:"patient_id" db:"patient_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	DateOfBirth  string    `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender       string    `json:"gender,omitempty" db:"gender"`
	Address      string    `json:"address,omitempty" db:"address"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// Doctor represents a registered doctor
type Doctor struct {
	ID           int64     `json:"doctor_id" db:"doctor_id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Specialty    string    `json:"specialty,omitempty" db:"specialty"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// FullName returns the patient's display name
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// FullName returns the doctor's display name
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

// AuthToken represents an authentication token response
type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// PatientRectifiableFields holds the fields a patient may rectify on their own record
var PatientRectifiableFields = []string{"first_name", "last_name", "date_of_birth", "gender", "address", "phone"}

// DoctorRectifiableFields holds the fields a doctor may rectify on their own record
var DoctorRectifiableFields = []string{"first_name", "last_name", "specialty", "phone"}
