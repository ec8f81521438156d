package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/review"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *review.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Review runs.
	r.Post("/reviews", h.GenerateReview)
	r.Get("/runs", h.ListRuns)

	// Single-note summaries.
	r.Post("/summaries/*", h.SummarizeNote)

	return r
}
