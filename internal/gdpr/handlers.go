package gdpr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medicare/practice-api/internal/auth"
	"github.com/medicare/practice-api/internal/security"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/types"
)

// Handlers exposes the GDPR endpoints
type Handlers struct {
	service *Service
	events  *security.EventRecorder
	logger  *logger.Logger
}

// NewHandlers creates the GDPR handlers
func NewHandlers(service *Service, events *security.EventRecorder, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		events:  events,
		logger:  log,
	}
}

// RegisterRoutes configures the GDPR routes. The purposes and privacy policy
// endpoints are public; everything else requires a session.
func (h *Handlers) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/gdpr/data-export", h.exportHandler).Methods("GET")
	api.HandleFunc("/gdpr/data-deletion", h.deletionHandler).Methods("DELETE")
	api.HandleFunc("/gdpr/data-rectification", h.rectificationHandler).Methods("PUT")
	api.HandleFunc("/gdpr/consent-status", h.consentStatusHandler).Methods("GET")
	api.HandleFunc("/gdpr/consent", h.updateConsentHandler).Methods("POST")
	api.HandleFunc("/gdpr/data-processing-purposes", h.purposesHandler).Methods("GET")
	api.HandleFunc("/gdpr/privacy-policy", h.privacyPolicyHandler).Methods("GET")
	api.HandleFunc("/gdpr/retention-policy", h.retentionPolicyHandler).Methods("GET")
}

func (h *Handlers) exportHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	export, err := h.service.ExportData(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.events.Record("data_export", r, identity.SubjectID, map[string]interface{}{
		"user_type": string(identity.Role),
	})
	h.writeJSON(w, http.StatusOK, export)
}

func (h *Handlers) deletionHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	if err := h.service.DeleteData(identity); err != nil {
		h.writeError(w, err)
		return
	}

	h.events.Record("data_deletion", r, identity.SubjectID, map[string]interface{}{
		"user_type": string(identity.Role),
	})

	message := "Patient data deleted successfully"
	if identity.Role == types.RoleDoctor {
		message = "Doctor data deleted successfully"
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *Handlers) rectificationHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return
	}
	fields = security.SanitizeMap(fields)

	applied, err := h.service.RectifyData(identity, fields)
	if err != nil {
		h.writeError(w, err)
		return
	}

	profile, err := h.profileAfterRectification(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Data updated successfully",
		"updated_fields": applied,
		"data":           profile,
	})
}

func (h *Handlers) profileAfterRectification(identity types.Identity) (interface{}, error) {
	switch identity.Role {
	case types.RolePatient:
		return h.service.patients.GetByID(identity.SubjectID)
	default:
		return h.service.doctors.GetByID(identity.SubjectID)
	}
}

func (h *Handlers) consentStatusHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	consent, err := h.service.GetConsent(identity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, consent)
}

func (h *Handlers) updateConsentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, types.NewAuthenticationError(types.ErrCodeUnauthorized, "Authentication required"))
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, types.NewValidationError([]string{"Invalid request body"}))
		return
	}

	consent, err := h.service.UpdateConsent(identity, updates)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Consent preferences updated successfully",
		"updated_consents": consent,
	})
}

func (h *Handlers) purposesHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"purposes":        h.service.ProcessingPurposes(),
		"data_controller": DataController(),
		"rights":          SubjectRights(),
	})
}

func (h *Handlers) privacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, PrivacyPolicy())
}

func (h *Handlers) retentionPolicyHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.RetentionPolicies())
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
