// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chads-social/internal/api/handler"
	"chads-social/internal/identity"
	"chads-social/internal/metrics"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Transfers *handler.TransferHandler
	Messages  *handler.MessageHandler
	Accounts  *handler.AccountHandler
}

// RouterDeps are the cross-cutting collaborators of the router.
type RouterDeps struct {
	Verifier    identity.Verifier
	RateLimiter *RateLimiter
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer // nil hides /metrics
	Logger      *slog.Logger
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Instrument(deps.Metrics))
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Everything below acts on behalf of a verified user.
	r.Group(func(r chi.Router) {
		r.Use(Authenticate(deps.Verifier, deps.Logger))
		r.Use(deps.RateLimiter.Middleware)

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", h.Transfers.Create)
			r.Get("/{transferID}", h.Transfers.Get)
			r.Post("/{transferID}/decision", h.Transfers.Decide)
		})

		r.Post("/messages", h.Messages.Send)
		r.Get("/messages/unread", h.Messages.Unread)

		r.Get("/threads", h.Messages.Threads)
		r.Get("/threads/{peerID}/messages", h.Messages.History)

		r.Get("/me", h.Accounts.Balance)
		r.Post("/me/account", h.Accounts.Open)
	})

	return r
}
