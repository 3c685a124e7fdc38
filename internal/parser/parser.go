// Package parser extracts structured association and theme payloads from
// raw oracle completions.
//
// The oracle is prompted to answer with a JSON document, but models wrap
// their output in Markdown code fences, prepend prose, or refuse outright,
// so parsing is defensive: the JSON body is located inside the raw text,
// entries are validated individually, and the refusal sentinel is surfaced
// as a typed error rather than silently dropped.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// RefusalSentinel is the token the oracle is instructed to emit when it
// cannot produce associations for a word.
const RefusalSentinel = "CANNOT_COMPLY"

// MinAssociations is the minimum number of valid entries an association
// response must carry to be usable.
const MinAssociations = 3

// ParseAssociations parses a raw association completion into validated
// entries. Entries with empty words are discarded. It fails with
// apperr.ErrOracleRefused when the refusal sentinel appears anywhere in
// the response, and with apperr.ErrInsufficientAssociations when fewer
// than MinAssociations valid entries remain.
func ParseAssociations(raw string) ([]models.Association, error) {
	if strings.Contains(raw, RefusalSentinel) {
		return nil, fmt.Errorf("parser: refusal sentinel in response: %w", apperr.ErrOracleRefused)
	}

	body, err := extractJSON(raw, '[', ']')
	if err != nil {
		return nil, fmt.Errorf("parser: %w: %w", err, apperr.ErrInsufficientAssociations)
	}

	var entries []models.Association
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return nil, fmt.Errorf("parser: decode associations: %v: %w", err, apperr.ErrInsufficientAssociations)
	}

	out := make([]models.Association, 0, len(entries))
	for _, e := range entries {
		word := strings.TrimSpace(e.Word)
		if word == "" {
			continue
		}
		out = append(out, models.Association{
			Word:      word,
			Rationale: strings.TrimSpace(e.Rationale),
		})
	}
	if len(out) < MinAssociations {
		return nil, fmt.Errorf("parser: %d valid entries, need %d: %w",
			len(out), MinAssociations, apperr.ErrInsufficientAssociations)
	}
	return out, nil
}

// ParseTheme parses a raw theming completion into a Theme. Unlike
// associations, theming is best effort: any structural failure is a plain
// error the caller substitutes a generic label for.
func ParseTheme(raw string) (models.Theme, error) {
	body, err := extractJSON(raw, '{', '}')
	if err != nil {
		return models.Theme{}, fmt.Errorf("parser: theme: %w", err)
	}
	var theme models.Theme
	if err := json.Unmarshal([]byte(body), &theme); err != nil {
		return models.Theme{}, fmt.Errorf("parser: decode theme: %w", err)
	}
	theme.Label = strings.TrimSpace(theme.Label)
	if theme.Label == "" {
		return models.Theme{}, fmt.Errorf("parser: theme label is empty")
	}
	return theme, nil
}

// extractJSON returns the substring between the first opening delimiter
// and the last closing one, tolerating code fences and surrounding prose.
func extractJSON(raw string, opening, closing byte) (string, error) {
	start := strings.IndexByte(raw, opening)
	end := strings.LastIndexByte(raw, closing)
	if start < 0 || end < start {
		return "", fmt.Errorf("no %c...%c block in response", opening, closing)
	}
	return raw[start : end+1], nil
}
