package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/assoc"
)

// Validator decides whether a candidate word is a legitimate puzzle
// target for the path leading to it.
type Validator struct {
	fetch Fetcher
}

// NewValidator creates a validator over fetch.
func NewValidator(fetch Fetcher) *Validator {
	return &Validator{fetch: fetch}
}

// IsValidTarget reports whether candidate is a legitimate target after
// pathSoFar. The candidate is valid iff the immediate predecessor (last
// word of pathSoFar) lists it among its associations, and no earlier path
// word does — an earlier connection would be a shortcut making the puzzle
// solvable in fewer steps than intended.
//
// A fetch failure while checking a non-predecessor word means the
// non-connection cannot be verified; the candidate is rejected rather
// than trusted. The one exception is quota exhaustion, which returns the
// error so the caller stops the whole search.
func (v *Validator) IsValidTarget(ctx context.Context, candidate string, pathSoFar []string) (bool, error) {
	if len(pathSoFar) == 0 {
		return false, nil
	}
	candidate = assoc.Normalize(candidate)

	// The path must actually be connected: predecessor → candidate.
	predecessor := pathSoFar[len(pathSoFar)-1]
	words, err := v.fetch.Fetch(ctx, predecessor)
	if err != nil {
		if errors.Is(err, apperr.ErrQuotaExceeded) {
			return false, err
		}
		return false, nil
	}
	if !containsWord(words, candidate) {
		return false, nil
	}

	// No earlier path word may already reach the candidate.
	for _, w := range pathSoFar[:len(pathSoFar)-1] {
		words, err := v.fetch.Fetch(ctx, w)
		if err != nil {
			if errors.Is(err, apperr.ErrQuotaExceeded) {
				return false, err
			}
			slog.Debug("validator: non-connection unverifiable, rejecting candidate",
				slog.String("word", w),
				slog.String("candidate", candidate),
				slog.String("error", err.Error()))
			return false, nil
		}
		if containsWord(words, candidate) {
			return false, nil
		}
	}
	return true, nil
}

func containsWord(words []string, normalized string) bool {
	for _, w := range words {
		if assoc.Normalize(w) == normalized {
			return true
		}
	}
	return false
}
