package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"palava-proof/internal/api/handlers"
	apimiddleware "palava-proof/internal/api/middleware"
	"palava-proof/internal/config"
	"palava-proof/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	limiter  apimiddleware.RateLimitStore
	logger   *logger.Logger
}

// NewRouter creates a new Router instance. limiter may be nil, which
// disables rate limiting.
func NewRouter(cfg config.Config, h *handlers.Handlers, limiter apimiddleware.RateLimitStore, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		limiter:  limiter,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	router.Get("/", r.handlers.Root.Index)
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	router.Route("/api/v1", func(api chi.Router) {
		if r.config.RateLimit.Enabled && r.limiter != nil {
			api.Use(apimiddleware.RateLimiter(r.limiter, r.config.RateLimit, r.logger))
		} else if r.config.RateLimit.Enabled {
			r.logger.Warn().Msg("rate limiting enabled but no Redis configured, skipping")
		}

		api.Post("/check", r.handlers.Check.Check)
		api.Post("/share", r.handlers.Check.Share)
		api.Get("/patterns", r.handlers.Check.Patterns)

		api.Post("/report", r.handlers.Reports.Submit)
		api.Get("/recent-scams", r.handlers.Reports.Recent)

		api.Post("/feedback", r.handlers.Feedback.Submit)
		api.Get("/feedback/stats", r.handlers.Feedback.Stats)
	})

	router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})

	return router
}
