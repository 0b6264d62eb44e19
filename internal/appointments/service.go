package appointments

import (
	"time"

	"github.com/medicare/practice-api/internal/auth"
	"github.com/medicare/practice-api/pkg/interfaces"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Service implements appointment booking and management
type Service struct {
	appointments interfaces.AppointmentRepository
	doctors      interfaces.DoctorRepository
	logger       *logger.Logger
}

// NewService creates a new appointment service
func NewService(appointments interfaces.AppointmentRepository, doctors interfaces.DoctorRepository, log *logger.Logger) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		logger:       log,
	}
}

// BookAppointment books a new appointment. Only patients can book, and an
// appointment always belongs to the booking patient.
func (s *Service) BookAppointment(identity types.Identity, req *types.AppointmentRequest) (*types.Appointment, error) {
	if identity.Role != types.RolePatient {
		return nil, types.NewAuthorizationError("Only patients can book appointments")
	}

	if err := validateSlot(req.Date, req.Time); err != nil {
		return nil, err
	}

	if _, err := s.doctors.GetByID(req.DoctorID); err != nil {
		return nil, err
	}

	taken, err := s.appointments.SlotTaken(req.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, types.NewInternalError("Failed to book appointment", err)
	}
	if taken {
		return nil, types.NewConflictError("SLOT_TAKEN", "This time slot is already booked")
	}

	apt := &types.Appointment{
		PatientID: identity.SubjectID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		CreatedAt: time.Now(),
	}

	id, err := s.appointments.Create(apt)
	if err != nil {
		return nil, err
	}
	apt.ID = id

	s.logger.WithFields(map[string]interface{}{
		"appointment_id": id,
		"patient_id":     apt.PatientID,
		"doctor_id":      apt.DoctorID,
	}).Info("Appointment booked")

	return apt, nil
}

// GetAppointment returns one appointment if the caller owns it
func (s *Service) GetAppointment(identity types.Identity, appointmentID int64) (*types.Appointment, error) {
	apt, err := s.appointments.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}

	if auth.AuthorizeResource(identity, apt.PatientID, apt.DoctorID) != auth.Granted {
		return nil, types.NewAuthorizationError("Access denied")
	}

	return apt, nil
}

// ListAppointments returns the caller's appointments
func (s *Service) ListAppointments(identity types.Identity) ([]*types.Appointment, error) {
	switch identity.Role {
	case types.RolePatient:
		return s.appointments.ListByPatient(identity.SubjectID)
	case types.RoleDoctor:
		return s.appointments.ListByDoctor(identity.SubjectID)
	default:
		return nil, types.NewValidationError([]string{"Invalid user type"})
	}
}

// UpdateAppointment applies updates an owner is allowed to make. Patients may
// change only the reason; doctors may also reschedule date and time.
func (s *Service) UpdateAppointment(identity types.Identity, appointmentID int64, updates *types.AppointmentUpdates) (*types.Appointment, error) {
	apt, err := s.appointments.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}

	if auth.AuthorizeResource(identity, apt.PatientID, apt.DoctorID) != auth.Granted {
		return nil, types.NewAuthorizationError("Access denied")
	}

	allowed := &types.AppointmentUpdates{Reason: updates.Reason}
	if identity.Role == types.RoleDoctor {
		allowed.Date = updates.Date
		allowed.Time = updates.Time
	}

	if allowed.Date != nil || allowed.Time != nil {
		date := apt.Date
		timeOfDay := apt.Time
		if allowed.Date != nil {
			date = *allowed.Date
		}
		if allowed.Time != nil {
			timeOfDay = *allowed.Time
		}
		if err := validateSlot(date, timeOfDay); err != nil {
			return nil, err
		}
	}

	if err := s.appointments.Update(appointmentID, allowed); err != nil {
		return nil, err
	}

	return s.appointments.GetByID(appointmentID)
}

// CancelAppointment removes an appointment the caller owns
func (s *Service) CancelAppointment(identity types.Identity, appointmentID int64) error {
	apt, err := s.appointments.GetByID(appointmentID)
	if err != nil {
		return err
	}

	if auth.AuthorizeResource(identity, apt.PatientID, apt.DoctorID) != auth.Granted {
		return types.NewAuthorizationError("Access denied")
	}

	return s.appointments.Delete(appointmentID)
}

// validateSlot checks the wire formats for appointment date and time
func validateSlot(date, timeOfDay string) error {
	var errors []string
	if _, err := time.Parse(types.DateLayout, date); err != nil {
		errors = append(errors, "appointment_date must use YYYY-MM-DD format")
	}
	if _, err := time.Parse(types.TimeLayout, timeOfDay); err != nil {
		errors = append(errors, "appointment_time must use HH:MM format")
	}
	if len(errors) > 0 {
		return types.NewValidationError(errors)
	}
	return nil
}
