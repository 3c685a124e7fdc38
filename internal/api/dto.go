package api

import (
	"time"

	"github.com/starford/raido/internal/models"
)

// PuzzleView is the player-facing puzzle payload. It deliberately has no
// field for the solution path.
type PuzzleView struct {
	ID          string       `json:"id" example:"9f2d1c04ab38" validate:"required"`
	Start       string       `json:"start" example:"water" validate:"required"`
	Target      string       `json:"target" example:"violin" validate:"required"`
	MinSteps    int          `json:"min_steps" example:"4" validate:"required"`
	Theme       models.Theme `json:"theme"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// SolutionView is the trusted/administrative payload carrying the full
// hidden path.
type SolutionView struct {
	ID       string   `json:"id" validate:"required"`
	Path     []string `json:"path" validate:"required"`
	MinSteps int      `json:"min_steps" validate:"required"`
}

// AssociationEntry is one association in the gameplay read path.
type AssociationEntry struct {
	Word      string `json:"word" example:"river" validate:"required"`
	Rationale string `json:"rationale,omitempty" example:"rivers carry water"`
}

// AssociationsResponse wraps the association list for a word.
type AssociationsResponse struct {
	Word         string             `json:"word" example:"water" validate:"required"`
	Associations []AssociationEntry `json:"associations" validate:"required"`
}

// HistoryResponse wraps the puzzle generation history.
type HistoryResponse struct {
	Puzzles []PuzzleView `json:"puzzles" validate:"required"`
}

func puzzleView(p *models.Puzzle) PuzzleView {
	return PuzzleView{
		ID:          p.ID,
		Start:       p.Start,
		Target:      p.Target,
		MinSteps:    p.MinSteps,
		Theme:       p.Theme,
		GeneratedAt: p.GeneratedAt,
	}
}
