package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medicare/practice-api/internal/security"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Handlers exposes the auth endpoints
type Handlers struct {
	service *Service
	events  *security.EventRecorder
	logger  *logger.Logger
}

// NewHandlers creates the auth handlers
func NewHandlers(service *Service, events *security.EventRecorder, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		events:  events,
		logger:  log,
	}
}

// RegisterRoutes configures the auth routes
func (h *Handlers) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/register/patient", h.registerPatientHandler).Methods("POST")
	api.HandleFunc("/register/doctor", h.registerDoctorHandler).Methods("POST")
	api.HandleFunc("/login/patient", h.loginPatientHandler).Methods("POST")
	api.HandleFunc("/login/doctor", h.loginDoctorHandler).Methods("POST")
	api.HandleFunc("/profile", h.profileHandler).Methods("GET")
	api.HandleFunc("/doctors", h.listDoctorsHandler).Methods("GET")
}

func (h *Handlers) registerPatientHandler(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	patient, err := h.service.RegisterPatient(fields)
	if err != nil {
		h.recordRegistrationFailure(r, "patient", err)
		h.writeError(w, err)
		return
	}

	h.events.Record("successful_registration", r, patient.ID, map[string]interface{}{
		"user_type": "patient",
	})
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Patient registered successfully",
		"patient": patient,
	})
}

func (h *Handlers) registerDoctorHandler(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	doctor, err := h.service.RegisterDoctor(fields)
	if err != nil {
		h.recordRegistrationFailure(r, "doctor", err)
		h.writeError(w, err)
		return
	}

	h.events.Record("successful_registration", r, doctor.ID, map[string]interface{}{
		"user_type": "doctor",
	})
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Doctor registered successfully",
		"doctor":  doctor,
	})
}

func (h *Handlers) loginPatientHandler(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	email, _ := fields["email"].(string)
	password, _ := fields["password"].(string)

	token, patient, err := h.service.LoginPatient(email, password)
	if err != nil {
		h.recordLoginFailure(r, "patient", email, err)
		h.writeError(w, err)
		return
	}

	h.events.Record("successful_login", r, patient.ID, map[string]interface{}{
		"user_type": "patient",
	})
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_in":   token.ExpiresIn,
		"user":         patient,
	})
}

func (h *Handlers) loginDoctorHandler(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	email, _ := fields["email"].(string)
	password, _ := fields["password"].(string)

	token, doctor, err := h.service.LoginDoctor(email, password)
	if err != nil {
		h.recordLoginFailure(r, "doctor", email, err)
		h.writeError(w, err)
		return
	}

	h.events.Record("successful_login", r, doctor.ID, map[string]interface{}{
		"user_type": "doctor",
	})
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expires_in":   token.ExpiresIn,
		"user":         doctor,
	})
}

func (h *Handlers) profileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	profile, err := h.service.GetProfile(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) listDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := IdentityFromContext(r.Context()); !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	doctors, err := h.service.ListDoctors()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"doctors": doctors})
}

// decodeBody decodes and sanitizes a JSON request body
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return nil, false
	}
	return security.SanitizeMap(fields), true
}

func (h *Handlers) recordRegistrationFailure(r *http.Request, userType string, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		return
	}

	switch appErr.Type {
	case types.ErrorTypeValidation:
		h.events.Record("invalid_registration_attempt", r, 0, map[string]interface{}{
			"errors":    appErr.Details["errors"],
			"user_type": userType,
		})
	case types.ErrorTypeConflict:
		h.events.Record("duplicate_registration_attempt", r, 0, map[string]interface{}{
			"user_type": userType,
		})
	}
}

func (h *Handlers) recordLoginFailure(r *http.Request, userType, email string, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		return
	}

	switch appErr.Type {
	case types.ErrorTypeValidation:
		h.events.Record("invalid_login_attempt", r, 0, map[string]interface{}{
			"errors":    appErr.Details["errors"],
			"user_type": userType,
		})
	case types.ErrorTypeAuthentication:
		h.events.Record("failed_login_attempt", r, 0, map[string]interface{}{
			"email":     email,
			"user_type": userType,
		})
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		h.logger.WithError(err).Error("Unexpected error")
		appErr = types.NewInternalError("Internal server error", err)
	}
	if appErr.Type == types.ErrorTypeInternal {
		h.logger.WithError(appErr).Error("Request failed")
	}

	h.writeJSON(w, appErr.HTTPStatus(), appErr.ResponseBody())
}
