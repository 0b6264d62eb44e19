package security

import (
	"net"
	"net/http"
	"strings"

	"github.com/medicare/practice-api/pkg/logger"
)

// EventRecorder writes security events to the structured log stream.
// Recording is best effort and never fails the calling request.
type EventRecorder struct {
	logger *logger.Logger
}

// NewEventRecorder creates a new security event recorder
func NewEventRecorder(log *logger.Logger) *EventRecorder {
	return &EventRecorder{logger: log}
}

// Record logs a security event with request context. subjectID may be zero
// for unauthenticated events.
func (er *EventRecorder) Record(eventType string, r *http.Request, subjectID int64, details map[string]interface{}) {
	if er == nil || er.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"details":    details,
		"client_ip":  ClientKey(r),
		"user_agent": r.UserAgent(),
		"endpoint":   r.URL.Path,
		"method":     r.Method,
	}
	if subjectID != 0 {
		fields["user_id"] = subjectID
	}

	er.logger.Security(eventType, fields)
}

// ClientKey derives the rate-limit bucket key from the caller's network
// address, honoring the first hop of X-Forwarded-For when present
func ClientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.Split(forwarded, ",")[0]
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
