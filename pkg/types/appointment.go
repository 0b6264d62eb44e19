package types

import "time"

// Appointment represents a booked appointment between a patient and a doctor.
// Date uses the 2006-01-02 layout and Time the 15:04 layout, matching the
// wire format of the booking endpoints.
type Appointment struct {
	ID          int64     `json:"appointment_id" db:"appointment_id"`
	PatientID   int64     `json:"patient_id" db:"patient_id"`
	DoctorID    int64     `json:"doctor_id" db:"doctor_id"`
	Date        string    `json:"appointment_date" db:"appointment_date"`
	Time        string    `json:"appointment_time" db:"appointment_time"`
	Reason      string    `json:"reason,omitempty" db:"reason"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	PatientName string    `json:"patient_name,omitempty" db:"-"`
	DoctorName  string    `json:"doctor_name,omitempty" db:"-"`
}

// AppointmentRequest is the booking payload submitted by a patient
type AppointmentRequest struct {
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"appointment_date"`
	Time     string `json:"appointment_time"`
	Reason   string `json:"reason"`
}

// AppointmentUpdates holds optional appointment fields to change. Patients may
// only set Reason; doctors may also move the slot.
type AppointmentUpdates struct {
	Date   *string `json:"appointment_date,omitempty"`
	Time   *string `json:"appointment_time,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// Wire layouts for appointment dates and times
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
