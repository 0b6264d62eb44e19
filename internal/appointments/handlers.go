package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/medicare/practice-api/internal/auth"
	"github.com/medicare/practice-api/internal/security"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Handlers exposes the appointment endpoints
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates the appointment handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the appointment routes
func (h *Handlers) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/appointments", h.bookAppointmentHandler).Methods("POST")
	api.HandleFunc("/appointments", h.listAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/{id:[0-9]+}", h.getAppointmentHandler).Methods("GET")
	api.HandleFunc("/appointments/{id:[0-9]+}", h.updateAppointmentHandler).Methods("PUT")
	api.HandleFunc("/appointments/{id:[0-9]+}", h.cancelAppointmentHandler).Methods("DELETE")
}

func (h *Handlers) bookAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	var req types.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return
	}
	req.Reason = security.SanitizeString(req.Reason)

	apt, err := h.service.BookAppointment(identity, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Appointment booked successfully",
		"appointment": apt,
	})
}

func (h *Handlers) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	appointments, err := h.service.ListAppointments(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if appointments == nil {
		appointments = []*types.Appointment{}
	}

	h.writeJSON(w, http.StatusOK, appointments)
}

func (h *Handlers) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	apt, err := h.service.GetAppointment(identity, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, apt)
}

func (h *Handlers) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var updates types.AppointmentUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return
	}
	if updates.Reason != nil {
		sanitized := security.SanitizeString(*updates.Reason)
		updates.Reason = &sanitized
	}

	apt, err := h.service.UpdateAppointment(identity, id, &updates)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Appointment updated successfully",
		"appointment": apt,
	})
}

func (h *Handlers) cancelAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.service.CancelAppointment(identity, id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled successfully"})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, types.NewValidationError([]string{"id must be an integer"})
	}
	return id, nil
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
