// Package models defines the domain types for Raido.
package models

import "time"

// Association is one oracle-supplied candidate: a word plus a short
// human-readable rationale for why it relates to the queried word.
type Association struct {
	Word      string `json:"word"`
	Rationale string `json:"rationale,omitempty"`
}

// Theme is the thematic label the oracle attaches to a start/target pair.
type Theme struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// Puzzle is one generated word-chain round. Immutable once assembled; a
// new generation cycle supersedes it rather than mutating it.
//
// Path holds the full hidden solution, seed through target. It is tagged
// out of JSON so the player-facing surface can never serialize it by
// accident; trusted callers read it through explicit admin payloads.
// MinSteps is a lower bound hint only: the length of the one path the
// engine happened to find, not a proven shortest path.
type Puzzle struct {
	ID          string    `json:"id"`
	Start       string    `json:"start"`
	Target      string    `json:"target"`
	Path        []string  `json:"-"`
	MinSteps    int       `json:"min_steps"`
	Theme       Theme     `json:"theme"`
	GeneratedAt time.Time `json:"generated_at"`
}
