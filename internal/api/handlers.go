package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/puzzleservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *puzzleservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *puzzleservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetPuzzle handles GET /api/puzzle.
//
//	@Summary		Get the current puzzle (player view, no solution)
//	@Tags			puzzle
//	@Produce		json
//	@Success		200	{object}	PuzzleView
//	@Failure		404	{object}	errResponse
//	@Router			/puzzle [get]
func (h *Handler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Current()
	if err != nil {
		if errors.Is(err, apperr.ErrNoPuzzle) {
			writeJSON(w, http.StatusNotFound, errorBody("no puzzle available yet"))
			return
		}
		slog.Error("get puzzle failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, puzzleView(p))
}

// GetSolution handles GET /api/puzzle/solution (admin).
//
//	@Summary		Get the hidden solution path of the current puzzle
//	@Tags			puzzle
//	@Produce		json
//	@Success		200	{object}	SolutionView
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/puzzle/solution [get]
func (h *Handler) GetSolution(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Current()
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("no puzzle available yet"))
		return
	}
	writeJSON(w, http.StatusOK, SolutionView{
		ID:       p.ID,
		Path:     p.Path,
		MinSteps: p.MinSteps,
	})
}

// GeneratePuzzle handles POST /api/puzzle/generate (admin).
//
//	@Summary		Trigger a puzzle generation round
//	@Tags			puzzle
//	@Produce		json
//	@Success		201	{object}	PuzzleView
//	@Failure		429	{object}	errResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/puzzle/generate [post]
func (h *Handler) GeneratePuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Generate(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, errorBody("oracle call budget exhausted"))
		case errors.Is(err, apperr.ErrNoPathFound):
			writeJSON(w, http.StatusServiceUnavailable, errorBody("no valid puzzle path found"))
		default:
			slog.Error("generate puzzle failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, errorBody("puzzle generation failed"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, puzzleView(p))
}

// GetAssociations handles GET /api/associations.
//
//	@Summary		Get association candidates for a word (gameplay read path)
//	@Tags			associations
//	@Produce		json
//	@Param			word	query		string	true	"Word to look up"
//	@Success		200		{object}	AssociationsResponse
//	@Failure		400		{object}	errResponse
//	@Failure		429		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Router			/associations [get]
func (h *Handler) GetAssociations(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'word' is required"))
		return
	}
	rec, err := h.svc.Associations(r.Context(), word)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, errorBody("word is empty"))
		case errors.Is(err, apperr.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, errorBody("oracle call budget exhausted"))
		default:
			slog.Error("get associations failed", slog.String("word", word), slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("association fetch failed"))
		}
		return
	}

	entries := make([]AssociationEntry, 0, len(rec.Words))
	if len(rec.Detailed) == len(rec.Words) {
		for _, d := range rec.Detailed {
			entries = append(entries, AssociationEntry{Word: d.Word, Rationale: d.Rationale})
		}
	} else {
		for _, wd := range rec.Words {
			entries = append(entries, AssociationEntry{Word: wd})
		}
	}
	writeJSON(w, http.StatusOK, AssociationsResponse{Word: word, Associations: entries})
}

// History handles GET /api/puzzles (admin).
//
//	@Summary		List previously generated puzzles
//	@Tags			puzzle
//	@Produce		json
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/puzzles [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	puzzles, err := h.svc.History(limit)
	if err != nil {
		slog.Error("history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	views := make([]PuzzleView, len(puzzles))
	for i := range puzzles {
		views[i] = puzzleView(&puzzles[i])
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Puzzles: views})
}
