package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/medicare/practice-api/internal/appointments"
	"github.com/medicare/practice-api/internal/auth"
	"github.com/medicare/practice-api/internal/gdpr"
	"github.com/medicare/practice-api/internal/records"
	"github.com/medicare/practice-api/internal/security"
	"github.com/medicare/practice-api/pkg/config"
	"github.com/medicare/practice-api/pkg/database"
	"github.com/medicare/practice-api/pkg/logger"
	"github.com/medicare/practice-api/pkg/monitoring"
	"github.com/medicare/practice-api/pkg/types"
)

const serviceName = "practice-api"

// ServiceVersion is stamped into health reports and trace metadata
var ServiceVersion = "dev"

// Server wires the HTTP surface: routing, middleware, and the domain handlers
type Server struct {
	config  *config.Config
	router  *mux.Router
	server  *http.Server
	db      *database.DB
	logger  *logger.Logger
	tokens  *auth.TokenManager
	events  *security.EventRecorder
	metrics *monitoring.MetricsCollector
	tracing *monitoring.TracingManager
	health  *monitoring.HealthManager

	registrationLimiter *security.RateLimiter
	loginLimiter        *security.RateLimiter
	stopSweep           func()
}

// New creates a fully wired server
func New(ctx context.Context, cfg *config.Config, db *database.DB, log *logger.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		router: mux.NewRouter(),
		db:     db,
		logger: log,
		tokens: auth.NewTokenManager(&cfg.JWT),
		events: security.NewEventRecorder(log),
		registrationLimiter: security.NewRateLimiter(
			cfg.RateLimit.Registration.MaxRequests,
			time.Duration(cfg.RateLimit.Registration.WindowMinutes)*time.Minute,
		),
		loginLimiter: security.NewRateLimiter(
			cfg.RateLimit.Login.MaxRequests,
			time.Duration(cfg.RateLimit.Login.WindowMinutes)*time.Minute,
		),
	}

	if cfg.Monitoring.Enabled {
		s.metrics = monitoring.NewMetricsCollector(serviceName)
	}

	if cfg.Monitoring.TracingEnabled {
		tracing, err := monitoring.NewTracingManager(ctx, &monitoring.TracingConfig{
			ServiceName:    serviceName,
			ServiceVersion: ServiceVersion,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			Environment:    "production",
			SamplingRate:   cfg.Monitoring.TraceSampleRate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		s.tracing = tracing
	}

	s.health = monitoring.NewHealthManager(serviceName, ServiceVersion)
	if db != nil {
		s.health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s, nil
}

// setupRoutes registers the operational endpoints and mounts the domain
// handlers under /api
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.rootHandler).Methods("GET")
	s.router.HandleFunc(s.config.Monitoring.HealthPath, s.health.HTTPHandler()).Methods("GET")
	if s.metrics != nil {
		s.router.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler()).Methods("GET")
	}

	api := s.router.PathPrefix("/api").Subrouter()

	patientRepo := auth.NewPatientRepository(s.db, s.logger)
	doctorRepo := auth.NewDoctorRepository(s.db, s.logger)
	appointmentRepo := appointments.NewRepository(s.db, s.logger)
	noteRepo := records.NewRepository(s.db, s.logger)
	consentRepo := gdpr.NewConsentRepository(s.db, s.logger)

	authService := auth.NewService(patientRepo, doctorRepo, s.tokens, s.logger)
	auth.NewHandlers(authService, s.events, s.logger).RegisterRoutes(api)

	appointmentService := appointments.NewService(appointmentRepo, doctorRepo, s.logger)
	appointments.NewHandlers(appointmentService, s.logger).RegisterRoutes(api)

	recordService := records.NewService(noteRepo, patientRepo, s.logger)
	records.NewHandlers(recordService, s.logger).RegisterRoutes(api)

	gdprService := gdpr.NewService(patientRepo, doctorRepo, appointmentRepo, noteRepo, consentRepo, s.logger)
	gdpr.NewHandlers(gdprService, s.events, s.logger).RegisterRoutes(api)
}

// setupMiddleware attaches the middleware chain. Order matters: rate limiting
// runs before authentication because the limited endpoints are public.
func (s *Server) setupMiddleware() {
	s.router.Use(s.corsMiddleware)
	s.router.Use(s.securityHeadersMiddleware)
	s.router.Use(s.requestIDMiddleware)
	if s.tracing != nil {
		s.router.Use(s.tracing.HTTPMiddleware)
	}
	if s.metrics != nil {
		s.router.Use(s.metrics.HTTPMiddleware)
	}
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.rateLimitMiddleware)
	s.router.Use(s.authMiddleware)
}

// Handler returns the configured root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and the rate limiter sweeper
func (s *Server) Start() error {
	if s.config.RateLimit.Enabled && s.config.RateLimit.SweepIntervalMinutes > 0 {
		interval := time.Duration(s.config.RateLimit.SweepIntervalMinutes) * time.Minute
		stopRegistration := s.registrationLimiter.StartSweep(interval)
		stopLogin := s.loginLimiter.StartSweep(interval)
		s.stopSweep = func() {
			stopRegistration()
			stopLogin()
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"addr":    s.server.Addr,
		"service": serviceName,
	}).Info("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")

	if s.stopSweep != nil {
		s.stopSweep()
	}
	if s.tracing != nil {
		if err := s.tracing.Shutdown(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to shut down tracing")
		}
	}

	return s.server.Shutdown(ctx)
}

// rootHandler serves a small service description
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": serviceName,
		"version": ServiceVersion,
		"status":  "running",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		appErr = types.NewInternalError("Internal server error", err)
	}

	if appErr.HTTPStatus() >= 500 {
		s.logger.WithError(err).Error("Request failed")
	}

	s.writeJSON(w, appErr.HTTPStatus(), appErr.ResponseBody())
}
