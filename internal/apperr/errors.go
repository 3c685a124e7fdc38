// Package apperr defines the sentinel errors shared across Raido.
//
// The search engine distinguishes two classes of failure: branch-local
// errors (ErrInsufficientAssociations, ErrOracleRefused, ErrFetch) that
// abandon a single exploration path, and fatal errors (ErrQuotaExceeded,
// ErrNoPathFound) that abort the whole generation attempt and propagate
// to the caller unchanged.
package apperr

import "errors"

var (
	// ErrQuotaExceeded means the external call budget is spent. Fatal to
	// the current search; never retried or masked with a fallback.
	ErrQuotaExceeded = errors.New("call budget exhausted")

	// ErrInsufficientAssociations means the oracle returned fewer than the
	// minimum number of usable association entries for a word.
	ErrInsufficientAssociations = errors.New("insufficient associations")

	// ErrOracleRefused means the oracle signalled its refusal sentinel
	// instead of producing associations for the word.
	ErrOracleRefused = errors.New("oracle refused")

	// ErrFetch covers transient transport failures talking to the oracle.
	ErrFetch = errors.New("association fetch failed")

	// ErrNoPathFound means the search exhausted its budgets without
	// discovering a valid puzzle path.
	ErrNoPathFound = errors.New("no valid path found")

	// ErrNoPuzzle means no puzzle has been generated (or restored) yet.
	ErrNoPuzzle = errors.New("no puzzle available")

	// ErrNotFound is a generic lookup miss.
	ErrNotFound = errors.New("not found")
)
