package records

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

// Handlers exposes the medical note endpoints
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates the medical note handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the medical note routes
func (h *Handlers) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/medical-notes", h.createNoteHandler).Methods("POST")
	api.HandleFunc("/medical-notes", h.listNotesHandler).Methods("GET")
	api.HandleFunc("/medical-notes/patient/{patientId:[0-9]+}", h.listPatientNotesHandler).Methods("GET")
	api.HandleFunc("/medical-notes/{id:[0-9]+}", h.getNoteHandler).Methods("GET")
	api.HandleFunc("/medical-notes/{id:[0-9]+}", h.updateNoteHandler).Methods("PUT")
	api.HandleFunc("/medical-notes/{id:[0-9]+}", h.deleteNoteHandler).Methods("DELETE")
	api.HandleFunc("/patients", h.listPatientsHandler).Methods("GET")
}

func (h *Handlers) createNoteHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	var req types.MedicalNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return
	}
	req.NoteDetails = security.SanitizeString(req.NoteDetails)
	req.Medication = security.SanitizeString(req.Medication)
	req.Treatment = security.SanitizeString(req.Treatment)

	note, err := h.service.CreateNote(identity, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Medical note created successfully",
		"note":    note,
	})
}

func (h *Handlers) listNotesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	notes, err := h.service.ListNotes(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if notes == nil {
		notes = []*types.MedicalNote{}
	}

	h.writeJSON(w, http.StatusOK, notes)
}

func (h *Handlers) listPatientNotesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	patientID, err := strconv.ParseInt(mux.Vars(r)["patientId"], 10, 64)
	if err != nil {
		h.writeError(w, types.NewValidationError([]string{"patient id must be an integer"}))
		return
	}

	notes, err := h.service.ListPatientNotes(identity, patientID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if notes == nil {
		notes = []*types.MedicalNote{}
	}

	h.writeJSON(w, http.StatusOK, notes)
}

func (h *Handlers) getNoteHandler(w http.ResponseWriter, r *http.Request) {
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

	note, err := h.service.GetNote(identity, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, note)
}

func (h *Handlers) updateNoteHandler(w http.ResponseWriter, r *http.Request) {
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

	var updates types.MedicalNoteUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return
	}
	sanitizeUpdates(&updates)

	note, err := h.service.UpdateNote(identity, id, &updates)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Medical note updated successfully",
		"note":    note,
	})
}

func (h *Handlers) deleteNoteHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteNote(identity, id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Medical note deleted successfully"})
}

func (h *Handlers) listPatientsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	patients, err := h.service.ListPatients(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if patients == nil {
		patients = []*types.Patient{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"patients": patients})
}

func sanitizeUpdates(updates *types.MedicalNoteUpdates) {
	if updates.NoteDetails != nil {
		s := security.SanitizeString(*updates.NoteDetails)
		updates.NoteDetails = &s
	}
	if updates.Medication != nil {
		s := security.SanitizeString(*updates.Medication)
		updates.Medication = &s
	}
	if updates.Treatment != nil {
		s := security.SanitizeString(*updates.Treatment)
		updates.Treatment = &s
	}
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
