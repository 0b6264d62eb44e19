package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medicare/practice-api/internal/auth"
	"github.com/medicare/practice-api/internal/security"
	"github.com/medicare/practice-api/pkg/types"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// publicPaths are reachable without a token
var publicPaths = map[string]bool{
	"/api/register/patient":              true,
	"/api/register/doctor":               true,
	"/api/login/patient":                 true,
	"/api/login/doctor":                  true,
	"/api/gdpr/data-processing-purposes": true,
	"/api/gdpr/privacy-policy":           true,
}

// corsMiddleware handles CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Configure appropriately for production
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to every response
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware assigns an ID to each request for log correlation
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs completed requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		requestID, _ := r.Context().Value(requestIDKey).(string)
		s.logger.HTTPRequest(
			r.Method,
			r.URL.Path,
			r.UserAgent(),
			security.ClientKey(r),
			recorder.statusCode,
			time.Since(start).Milliseconds(),
			requestID,
		)
	})
}

// rateLimitMiddleware applies the per-route sliding window limits. Denied
// requests are never counted against the window.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.RateLimit.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		limiter, ok := s.limiterFor(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		clientKey := security.ClientKey(r)
		if !limiter.Allow(clientKey) {
			s.events.Record("rate_limit_exceeded", r, 0, map[string]interface{}{
				"limit": limiter.Limit(),
			})
			if s.metrics != nil {
				s.metrics.RecordRateLimitDenial(r.URL.Path)
			}
			s.writeError(w, types.NewRateLimitError(limiter.RetryAfter()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// limiterFor maps a request path to its rate limiter
func (s *Server) limiterFor(path string) (*security.RateLimiter, bool) {
	switch {
	case strings.HasPrefix(path, "/api/register/"):
		return s.registrationLimiter, true
	case strings.HasPrefix(path, "/api/login/"):
		return s.loginLimiter, true
	}
	return nil, false
}

// authMiddleware validates bearer tokens and stores the caller identity in
// the request context
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.writeError(w, types.NewAuthenticationError("TOKEN_MISSING", "Authorization header is required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.writeError(w, types.NewAuthenticationError("TOKEN_MALFORMED", "Authorization header must be a bearer token"))
			return
		}

		identity, err := s.tokens.Validate(parts[1])
		if err != nil {
			s.events.Record("invalid_token", r, 0, map[string]interface{}{
				"reason": err.Error(),
			})
			s.writeError(w, types.NewAuthenticationError("TOKEN_INVALID", "Invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
	})
}

// isPublic reports whether a path is reachable without authentication
func (s *Server) isPublic(path string) bool {
	if path == "/" || publicPaths[path] {
		return true
	}
	return path == s.config.Monitoring.HealthPath || path == s.config.Monitoring.MetricsPath
}

// statusRecorder captures the response status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(statusCode int) {
	sr.statusCode = statusCode
	sr.ResponseWriter.WriteHeader(statusCode)
}
