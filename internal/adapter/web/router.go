package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"moodpoet/internal/infra/metrics"
	"moodpoet/internal/infra/middleware"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// RouterDeps holds the collaborators of the HTTP surface.
type RouterDeps struct {
	Poems   PoemService
	Health  HealthSource     // optional
	Metrics *metrics.Metrics // optional, enables /metrics and request counting
	Logger  *slog.Logger
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := NewHandler(deps.Poems, deps.Health, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.Get("/", h.Index)
	r.Post("/", h.Compose)

	r.Route("/api", func(r chi.Router) {
		r.Post("/poems", h.CreatePoem)
		r.Get("/providers", h.ListProviders)
	})

	r.Get("/health", h.Health)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS()))))

	return r
}
