package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/envdeck/envdeck/internal/chat"
	"github.com/envdeck/envdeck/internal/config"
	"github.com/envdeck/envdeck/internal/middleware"
	"github.com/envdeck/envdeck/internal/vault"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Config      *config.Config
	Logger      *slog.Logger
	Vault       *vault.Vault
	ChatBackend chat.Backend
}

// NewRouter creates and configures the HTTP router.
func NewRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics())
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.SecurityHeaders())

	healthHandler := NewHealthHandler(deps.Vault)
	apiHandler := NewAPIHandler(deps.Vault)
	chatHandler := NewChatHandler(deps.ChatBackend)

	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	// Health checks and metrics
	r.Get("/health", healthHandler.Liveness)
	r.Get("/ready", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/groups", func(r chi.Router) {
			r.Use(chimiddleware.Timeout(deps.Config.Server.RequestTimeout))
			r.Get("/", apiHandler.ListGroups)
			r.Put("/", apiHandler.SaveGroups)
			r.Get("/export", apiHandler.ExportGroups)
			r.Post("/import", apiHandler.ImportGroups)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", apiHandler.GetGroup)
				r.Put("/", apiHandler.UpsertGroup)
				r.Delete("/", apiHandler.DeleteGroup)

				r.Route("/variables/{key}", func(r chi.Router) {
					r.Put("/", apiHandler.SetVariable)
					r.Delete("/", apiHandler.DeleteVariable)
				})
			})
		})

		r.With(chimiddleware.Timeout(deps.Config.Server.RequestTimeout)).
			Get("/resolve/{key}", apiHandler.ResolveKey)

		// The chat stream stays open past the request timeout, so it
		// is not wrapped in one.
		r.Post("/chat/stream", chatHandler.Stream)
	})

	return r
}
