// Package httpadapter is the inbound HTTP adapter: a chi router exposing
// the optimizer operations as JSON endpoints, with session resolution and
// category-based error mapping.
package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"bidpilot/internal/core/port"
)

// Handler contains dependencies and routes. It holds the Optimizer to
// execute business logic, a session resolver and a logger. Routes are
// registered on a chi.Router.
type Handler struct {
	svc      port.Optimizer
	sessions *SessionResolver
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.Optimizer, sessions *SessionResolver, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, sessions: sessions, logger: logger}
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(h.requestID)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Get("/accounts", h.handleListAccounts)
		r.Route("/accounts/{accountID}", func(r chi.Router) {
			r.Get("/campaigns", h.handleListCampaigns)
			r.Get("/campaigns/{campaignID}", h.handleGetCampaign)
			r.Get("/campaigns/{campaignID}/analytics", h.handleCampaignAnalytics)
			r.Post("/campaigns/{campaignID}/bid", h.handleApplyBid)
			r.Get("/analyze", h.handleAnalyzeSpend)
			r.Get("/recent", h.handleRecentlyOptimized)
		})

		r.Get("/settings/accounts", h.handleGetSelectedAccounts)
		r.Put("/settings/accounts", h.handleSetSelectedAccounts)
		r.Delete("/tenant", h.handleDeleteTenant)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
