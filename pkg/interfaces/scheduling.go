package interfaces

import (
	"github.com/medicare/practice-api/pkg/types"
)

// AppointmentService defines the interface for appointment management
type AppointmentService interface {
	BookAppointment(identity types.Identity, req *types.AppointmentRequest) (*types.Appointment, error)
	GetAppointment(identity types.Identity, appointmentID int64) (*types.Appointment, error)
	ListAppointments(identity types.Identity) ([]*types.Appointment, error)
	UpdateAppointment(identity types.Identity, appointmentID int64, updates *types.AppointmentUpdates) (*types.Appointment, error)
	CancelAppointment(identity types.Identity, appointmentID int64) error
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	Create(apt *types.Appointment) (int64, error)
	GetByID(id int64) (*types.Appointment, error)
	ListByPatient(patientID int64) ([]*types.Appointment, error)
	ListByDoctor(doctorID int64) ([]*types.Appointment, error)
	Update(id int64, updates *types.AppointmentUpdates) error
	Delete(id int64) error
	DeleteByPatient(patientID int64) error
	DeleteByDoctor(doctorID int64) error
	SlotTaken(doctorID int64, date, timeOfDay string) (bool, error)
}

// MedicalNoteService defines the interface for medical note management
type MedicalNoteService interface {
	CreateNote(identity types.Identity, req *types.MedicalNoteRequest) (*types.MedicalNote, error)
	GetNote(identity types.Identity, noteID int64) (*types.MedicalNote, error)
	ListNotes(identity types.Identity) ([]*types.MedicalNote, error)
	ListPatientNotes(identity types.Identity, patientID int64) ([]*types.MedicalNote, error)
	UpdateNote(identity types.Identity, noteID int64, updates *types.MedicalNoteUpdates) (*types.MedicalNote, error)
	DeleteNote(identity types.Identity, noteID int64) error
}

// MedicalNoteRepository defines the interface for medical note persistence
type MedicalNoteRepository interface {
	Create(note *types.MedicalNote) (int64, error)
	GetByID(id int64) (*types.MedicalNote, error)
	ListByPatient(patientID int64) ([]*types.MedicalNote, error)
	ListByDoctor(doctorID int64) ([]*types.MedicalNote, error)
	Update(id int64, updates *types.MedicalNoteUpdates) error
	Delete(id int64) error
	DeleteByPatient(patientID int64) error
	DeleteByDoctor(doctorID int64) error
}
