package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/puzzleservice"
)

// NewRouter creates a chi router with all API routes mounted. Player
// routes (puzzle view, associations, events) are always open; admin
// routes (solution, generation trigger, history) sit behind Bearer auth
// when authEnabled is true. sseHandler, if non-nil, is mounted at
// GET /events.
func NewRouter(svc *puzzleservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Player surface.
	r.Get("/puzzle", h.GetPuzzle)
	r.Get("/associations", h.GetAssociations)
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	// Admin surface. The hidden solution path must never leak onto the
	// player routes above.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Get("/puzzle/solution", h.GetSolution)
		r.Post("/puzzle/generate", h.GeneratePuzzle)
		r.Get("/puzzles", h.History)
	})

	return r
}
