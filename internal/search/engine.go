// Package search implements the puzzle-path discovery engine: a bounded,
// randomized, depth-prioritized exploration of the implicit association
// graph, plus the shortcut-freedom validator for candidate targets.
//
// The graph does not exist up front. Edges are revealed on demand by the
// Fetcher, which hides the cache/oracle split from the algorithm.
package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/assoc"
)

// Fetcher reveals the neighbors of a word. Implementations are expected
// to be cache-first and to surface apperr taxonomy errors unchanged.
type Fetcher interface {
	Fetch(ctx context.Context, word string) ([]string, error)
}

// Params are the explicit, caller-tunable search budgets. All are finite
// and mandatory; there is no unbounded mode.
type Params struct {
	// MinLength is the minimum acceptable path length in words, seed and
	// target inclusive.
	MinLength int `yaml:"min_length"`
	// MaxDepth caps how deep a path may grow before expansion stops.
	MaxDepth int `yaml:"max_depth"`
	// MaxExpansions caps the number of frontier pops for the whole run.
	MaxExpansions int `yaml:"max_expansions"`
	// DiversityFloor is the minimum count of not-yet-visited candidates a
	// node must offer to be worth expanding. Below it the path is
	// abandoned as too repetitive to yield a distinctive puzzle.
	DiversityFloor int `yaml:"diversity_floor"`
	// ResortEvery re-prioritizes the frontier every N expansions.
	ResortEvery int `yaml:"resort_every"`
	// ResortMinSize skips re-prioritization while the frontier is smaller
	// than this.
	ResortMinSize int `yaml:"resort_min_size"`
}

// Validate checks the budgets are usable.
func (p Params) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.MinLength, validation.Required, validation.Min(2)),
		validation.Field(&p.MaxDepth, validation.Required, validation.Min(p.MinLength)),
		validation.Field(&p.MaxExpansions, validation.Required, validation.Min(1)),
		validation.Field(&p.DiversityFloor, validation.Min(0)),
		validation.Field(&p.ResortEvery, validation.Min(0)),
		validation.Field(&p.ResortMinSize, validation.Min(0)),
	)
}

// DefaultParams returns the budgets used when the config leaves them
// unset.
func DefaultParams() Params {
	return Params{
		MinLength:      5,
		MaxDepth:       7,
		MaxExpansions:  60,
		DiversityFloor: 2,
		ResortEvery:    5,
		ResortMinSize:  8,
	}
}

// Result is a discovered puzzle path. Path runs seed through target;
// Target duplicates the last element for convenience.
type Result struct {
	Path   []string
	Target string
}

// Engine performs one search run. Runs are deterministic for a fixed
// shuffle seed and fetcher; create a fresh Engine per run.
type Engine struct {
	fetch Fetcher
	val   *Validator
	rng   *rand.Rand
}

// NewEngine creates an engine over fetch with the given shuffle seed.
func NewEngine(fetch Fetcher, seed int64) *Engine {
	return &Engine{
		fetch: fetch,
		val:   NewValidator(fetch),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// frontierEntry is one not-yet-expanded path. depth equals len(path).
type frontierEntry struct {
	path  []string
	depth int
}

// FindPath explores the association graph from seed until it finds a
// path of at least p.MinLength words whose last word validates as a
// legitimate target, or until a budget runs out.
//
// Branch-local failures (refusal, thin or malformed oracle output,
// transient fetch errors) abandon only the offending path. Quota
// exhaustion and cancellation abort the whole run: the former propagates
// apperr.ErrQuotaExceeded unchanged, the latter returns ctx.Err().
// Exhausting the frontier or the expansion budget yields
// apperr.ErrNoPathFound.
func (e *Engine) FindPath(ctx context.Context, seed string, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("search: params: %w", err)
	}
	seed = assoc.Normalize(seed)
	if seed == "" {
		return nil, fmt.Errorf("search: seed word is empty")
	}

	// Visited is global for the run: any abandoned branch still burns its
	// words, trading completeness for bounded runtime and fresh puzzles.
	visited := map[string]struct{}{seed: {}}
	frontier := []frontierEntry{{path: []string{seed}, depth: 1}}
	expansions := 0

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if expansions >= p.MaxExpansions {
			break
		}
		if p.ResortEvery > 0 && expansions > 0 &&
			expansions%p.ResortEvery == 0 && len(frontier) > p.ResortMinSize {
			prioritize(frontier, p.MinLength)
		}

		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		expansions++

		// A path at or past the minimum length nominates its last word as
		// the target candidate.
		if len(cur.path) >= p.MinLength {
			candidate := cur.path[len(cur.path)-1]
			ok, err := e.val.IsValidTarget(ctx, candidate, cur.path[:len(cur.path)-1])
			if err != nil {
				return nil, err
			}
			if ok {
				return &Result{Path: cur.path, Target: candidate}, nil
			}
		}

		if cur.depth >= p.MaxDepth {
			continue
		}

		words, err := e.fetch.Fetch(ctx, cur.path[len(cur.path)-1])
		if err != nil {
			if errors.Is(err, apperr.ErrQuotaExceeded) {
				return nil, err
			}
			// Branch-local failure: abandon this path only.
			continue
		}

		fresh := make([]string, 0, len(words))
		for _, w := range words {
			n := assoc.Normalize(w)
			if n == "" {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			fresh = append(fresh, n)
		}
		if len(fresh) < p.DiversityFloor {
			continue
		}

		e.shuffle(fresh)
		for _, w := range fresh {
			visited[w] = struct{}{}
			next := append(slices.Clone(cur.path), w)
			frontier = append(frontier, frontierEntry{path: next, depth: cur.depth + 1})
		}
	}

	return nil, fmt.Errorf("search: %d expansions from %q: %w", expansions, seed, apperr.ErrNoPathFound)
}

// shuffle is an unbiased Fisher–Yates over words using the engine's rng.
func (e *Engine) shuffle(words []string) {
	for i := len(words) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}

// prioritize re-sorts the frontier in place so the entry popped next (the
// slice tail) is the most promising: deeper paths first, and among equal
// depths the path whose length sits closest to the minimum target length.
// Paths below the minimum thereby prefer to grow; paths at or above it
// prefer to stay short.
func prioritize(frontier []frontierEntry, minLength int) {
	sort.SliceStable(frontier, func(i, j int) bool {
		a, b := frontier[i], frontier[j]
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		return lengthGap(a, minLength) > lengthGap(b, minLength)
	})
}

func lengthGap(e frontierEntry, minLength int) int {
	gap := len(e.path) - minLength
	if gap < 0 {
		return -gap
	}
	return gap
}
