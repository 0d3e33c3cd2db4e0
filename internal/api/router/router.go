package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glossworks/detailing-ai-platform/internal/business"
	"github.com/glossworks/detailing-ai-platform/internal/commitments"
	"github.com/glossworks/detailing-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/glossworks/detailing-ai-platform/internal/http/middleware"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *handlers.AvailabilityHandler
	BookingsHandler     *commitments.Handler
	BusinessHandler     *business.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
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

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Tenant API: every route under /api resolves the business from the
	// X-Business-Id header.
	r.Route("/api", func(api chi.Router) {
		api.Use(requireBusinessID)
		if cfg.AvailabilityHandler != nil {
			api.Route("/availability", func(r chi.Router) {
				r.Get("/slots", cfg.AvailabilityHandler.GetSlots)
				r.Post("/validate", cfg.AvailabilityHandler.Validate)
			})
		}
		if cfg.BookingsHandler != nil {
			api.Mount("/bookings", cfg.BookingsHandler.Routes())
		}
	})

	// Admin: business scheduling configuration, keyed by path rather than
	// header so operators can address any tenant.
	if cfg.BusinessHandler != nil {
		r.Mount("/admin/businesses", cfg.BusinessHandler.Routes())
	}

	return r
}
