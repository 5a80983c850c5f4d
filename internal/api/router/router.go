package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kodmani-estates/leadflow/internal/adminauth"
	"github.com/kodmani-estates/leadflow/internal/audit"
	httpmiddleware "github.com/kodmani-estates/leadflow/internal/http/middleware"
	"github.com/kodmani-estates/leadflow/internal/intake"
	"github.com/kodmani-estates/leadflow/internal/leads"
	"github.com/kodmani-estates/leadflow/internal/subscribers"
	"github.com/kodmani-estates/leadflow/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	IntakeHandler      *intake.Handler
	SubscribersHandler *subscribers.Handler
	AdminAuthHandler   *adminauth.Handler
	AdminAuthService   *adminauth.Service
	AdminLeadsHandler  *leads.Handler
	AdminLogsHandler   *audit.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP rate limit for the public intake endpoints.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.IntakeHandler.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api", func(api chi.Router) {
			if cfg.RateLimitPerSecond > 0 {
				api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst, cfg.Logger))
			}
			api.Post("/leads", cfg.IntakeHandler.SubmitLead)
			api.Post("/leads/capture", cfg.IntakeHandler.CaptureLead)
			api.Post("/routing", cfg.IntakeHandler.RouteInquiry)
			if cfg.SubscribersHandler != nil {
				api.Post("/subscribers", cfg.SubscribersHandler.Subscribe)
			}
		})

	})

	// Admin endpoints. Login is open; everything else sits behind the
	// session check.
	r.Route("/admin", func(admin chi.Router) {
		if cfg.AdminAuthHandler != nil {
			admin.Post("/login", cfg.AdminAuthHandler.Login)
		}
		if cfg.AdminAuthService == nil {
			return
		}
		admin.Group(func(protected chi.Router) {
			protected.Use(httpmiddleware.AdminSession(cfg.AdminAuthService))
			if cfg.AdminAuthHandler != nil {
				protected.Post("/logout", cfg.AdminAuthHandler.Logout)
			}
			if cfg.AdminLeadsHandler != nil {
				protected.Get("/leads", cfg.AdminLeadsHandler.List)
				protected.Patch("/leads/{leadID}/status", cfg.AdminLeadsHandler.UpdateStatus)
			}
			if cfg.AdminLogsHandler != nil {
				protected.Get("/logs", cfg.AdminLogsHandler.List)
			}
		})
	})

	return r
}
