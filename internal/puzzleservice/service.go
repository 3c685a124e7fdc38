// Package puzzleservice assembles puzzles: it picks a seed, drives the
// path search engine, attaches a thematic label, and holds the current
// puzzle for the serving layer.
package puzzleservice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/assoc"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/seeds"
	"github.com/starford/raido/internal/snapshot"
)

// Themer supplies the thematic label for a start/target pair. Best
// effort: failures degrade to a generic label, never to a failed puzzle.
type Themer interface {
	Theme(ctx context.Context, start, target string) (models.Theme, error)
}

// Deps wires the service's collaborators. Source, Themer and Pool are
// required; Store and Notify are optional.
type Deps struct {
	Source *assoc.Source
	Themer Themer
	Pool   *seeds.Pool
	Params search.Params
	// Store persists the cache and puzzle history after each successful
	// generation round.
	Store snapshot.Store
	// Notify is called with ("puzzle.generated", id) or
	// ("puzzle.failed", "") after each generation attempt.
	Notify func(kind, id string)
	// ShuffleSeed supplies the rng seed for each search run. Defaults to
	// wall-clock nanoseconds; tests pin it for reproducible runs.
	ShuffleSeed func() int64
}

// Service is the puzzle assembler. Generation rounds are serialized: a
// request arriving while a round is in flight observes that round's
// result instead of starting a second one.
type Service struct {
	source      *assoc.Source
	themer      Themer
	pool        *seeds.Pool
	params      search.Params
	store       snapshot.Store
	notify      func(kind, id string)
	shuffleSeed func() int64

	flight singleflight.Group

	mu      sync.RWMutex
	current *models.Puzzle
	rng     *rand.Rand
}

// New creates the service. The search params are validated up front so a
// bad config fails at startup, not at the first generation.
func New(d Deps) (*Service, error) {
	if d.Source == nil || d.Themer == nil || d.Pool == nil {
		return nil, fmt.Errorf("puzzleservice: source, themer and pool are required")
	}
	if err := d.Params.Validate(); err != nil {
		return nil, fmt.Errorf("puzzleservice: params: %w", err)
	}
	shuffleSeed := d.ShuffleSeed
	if shuffleSeed == nil {
		shuffleSeed = func() int64 { return time.Now().UnixNano() }
	}
	return &Service{
		source:      d.Source,
		themer:      d.Themer,
		pool:        d.Pool,
		params:      d.Params,
		store:       d.Store,
		notify:      d.Notify,
		shuffleSeed: shuffleSeed,
		rng:         rand.New(rand.NewSource(shuffleSeed())),
	}, nil
}

// Generate runs one generation round and installs the result as the
// current puzzle. On search failure the typed error propagates and the
// previous puzzle stays current; no fallback puzzle is fabricated here.
func (s *Service) Generate(ctx context.Context) (*models.Puzzle, error) {
	v, err, _ := s.flight.Do("generate", func() (any, error) {
		return s.generate(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Puzzle), nil
}

func (s *Service) generate(ctx context.Context) (*models.Puzzle, error) {
	seed := s.pickSeed()
	slog.Info("generation started", slog.String("seed", seed))

	engine := search.NewEngine(s.source, s.shuffleSeed())
	res, err := engine.FindPath(ctx, seed, s.params)
	if err != nil {
		s.emit("puzzle.failed", "")
		return nil, fmt.Errorf("generate from %q: %w", seed, err)
	}

	start, target := res.Path[0], res.Target
	theme, err := s.themer.Theme(ctx, start, target)
	if err != nil {
		// Theming is cosmetic; a failed call must not waste the search.
		slog.Warn("theming failed, using generic label", slog.String("error", err.Error()))
		theme = models.Theme{Label: "Word Chain"}
	}

	now := time.Now()
	p := &models.Puzzle{
		ID:          checksum.Short([]byte(start + "\x00" + target + "\x00" + now.Format(time.RFC3339Nano))),
		Start:       start,
		Target:      target,
		Path:        res.Path,
		MinSteps:    len(res.Path) - 1,
		Theme:       theme,
		GeneratedAt: now,
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	s.persist(p)
	s.emit("puzzle.generated", p.ID)
	slog.Info("puzzle generated",
		slog.String("id", p.ID),
		slog.String("start", p.Start),
		slog.String("target", p.Target),
		slog.Int("min_steps", p.MinSteps))
	return p, nil
}

// Current returns the puzzle being served, or apperr.ErrNoPuzzle when
// none has been generated or restored yet.
func (s *Service) Current() (*models.Puzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperr.ErrNoPuzzle
	}
	return s.current, nil
}

// Restore installs a previously persisted puzzle as current, used at
// startup so the service is playable before the first generation round.
func (s *Service) Restore(p *models.Puzzle) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
}

// Associations is the gameplay read path: cache-first association lookup
// for a single word, independent of generation.
func (s *Service) Associations(ctx context.Context, word string) (assoc.Record, error) {
	if assoc.Normalize(word) == "" {
		return assoc.Record{}, fmt.Errorf("word is empty: %w", apperr.ErrNotFound)
	}
	return s.source.Record(ctx, word)
}

// History returns up to limit previously generated puzzles, newest
// first. Returns nil when no store is wired.
func (s *Service) History(limit int) ([]models.Puzzle, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListPuzzles(limit)
}

// CachedWords returns the size of the association cache.
func (s *Service) CachedWords() int {
	return s.source.Cache().Len()
}

// Snapshot exports the association cache for persistence.
func (s *Service) Snapshot() map[string]assoc.Record {
	return s.source.Cache().Export()
}

// pickSeed samples the previously cached vocabulary, falling back to the
// seed pool while the cache is empty.
func (s *Service) pickSeed() string {
	keys := s.source.Cache().Keys()
	if len(keys) == 0 {
		return s.pool.Pick()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys[s.rng.Intn(len(keys))]
}

func (s *Service) persist(p *models.Puzzle) {
	if s.store == nil {
		return
	}
	if err := s.store.SavePuzzle(p); err != nil {
		slog.Warn("persist puzzle failed", slog.String("error", err.Error()))
	}
	if err := s.store.SaveCache(s.source.Cache().Export()); err != nil {
		slog.Warn("persist cache failed", slog.String("error", err.Error()))
	}
}

func (s *Service) emit(kind, id string) {
	if s.notify != nil {
		s.notify(kind, id)
	}
}
