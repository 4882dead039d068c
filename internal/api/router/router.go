package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/contentflowhq/lead-pipeline/internal/http/middleware"
	"github.com/contentflowhq/lead-pipeline/internal/leadform"
	"github.com/contentflowhq/lead-pipeline/internal/pipeline"
	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	IntakeHandler      *pipeline.Handler
	AdminLeadsHandler  *leadform.AdminHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP rate limit for the public intake endpoint. Zero disables it.
	IntakeRatePerSec float64
	IntakeBurst      int
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
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.IntakeHandler != nil {
			public.Group(func(intake chi.Router) {
				if cfg.IntakeRatePerSec > 0 {
					intake.Use(httpmiddleware.RateLimit(cfg.IntakeRatePerSec, cfg.IntakeBurst))
				}
				intake.Post("/leads", cfg.IntakeHandler.Submit)
			})
		}
	})

	// Admin routes (protected by JWT)
	if cfg.AdminLeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.AdminLeadsHandler.ListLeads)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
