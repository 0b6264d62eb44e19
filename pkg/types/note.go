package types

import "time"

// MedicalNote represents a clinical note authored by a doctor for a patient
type MedicalNote struct {
	ID          int64     `json:"note_id" db:"note_id"`
	PatientID   int64     `json:"patient_id" db:"patient_id"`
	DoctorID    int64     `json:"doctor_id" db:"doctor_id"`
	NoteDate    string    `json:"note_date" db:"note_date"`
	NoteDetails string    `json:"note_details" db:"note_details"`
	Medication  string    `json:"medication" db:"medication"`
	Treatment   string    `json:"treatment" db:"treatment"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	PatientName string    `json:"patient_name,omitempty" db:"-"`
	DoctorName  string    `json:"doctor_name,omitempty" db:"-"`
}

// MedicalNoteRequest is the creation payload submitted by a doctor
type MedicalNoteRequest struct {
	PatientID   int64  `json:"patient_id"`
	NoteDate    string `json:"note_date"`
	NoteDetails string `json:"note_details"`
	Medication  string `json:"medication"`
	Treatment   string `json:"treatment"`
}

// MedicalNoteUpdates holds optional note fields to change
type MedicalNoteUpdates struct {
	NoteDate    *string `json:"note_date,omitempty"`
	NoteDetails *string `json:"note_details,omitempty"`
	Medication  *string `json:"medication,omitempty"`
	Treatment   *string `json:"treatment,omitempty"`
}
