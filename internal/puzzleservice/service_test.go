package puzzleservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/assoc"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/seeds"
	"github.com/starford/raido/internal/testutil"
)

// graphOracle serves a fixed adjacency map as association entries.
// Unknown words fail with ErrFetch.
type graphOracle struct {
	graph map[string][]string
	calls atomic.Int64
	gate  chan struct{} // when non-nil, calls park until closed
}

func (o *graphOracle) Associations(_ context.Context, word string) ([]models.Association, error) {
	o.calls.Add(1)
	if o.gate != nil {
		<-o.gate
	}
	words, ok := o.graph[word]
	if !ok {
		return nil, fmt.Errorf("no associations for %q: %w", word, apperr.ErrFetch)
	}
	out := make([]models.Association, len(words))
	for i, w := range words {
		out[i] = models.Association{Word: w, Rationale: "related to " + word}
	}
	return out, nil
}

type fakeThemer struct {
	theme models.Theme
	err   error
	calls int
}

func (f *fakeThemer) Theme(_ context.Context, _, _ string) (models.Theme, error) {
	f.calls++
	return f.theme, f.err
}

// memStore records persisted artifacts in memory.
type memStore struct {
	mu      sync.Mutex
	puzzles []models.Puzzle
	cache   map[string]assoc.Record
}

func (m *memStore) SaveCache(entries map[string]assoc.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = entries
	return nil
}
func (m *memStore) LoadCache() (map[string]assoc.Record, error) { return m.cache, nil }
func (m *memStore) SavePuzzle(p *models.Puzzle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puzzles = append(m.puzzles, *p)
	return nil
}
func (m *memStore) LatestPuzzle() (*models.Puzzle, error) { return nil, nil }
func (m *memStore) ListPuzzles(_ int) ([]models.Puzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Puzzle(nil), m.puzzles...), nil
}
func (m *memStore) WordCount() (int, error) { return len(m.cache), nil }
func (m *memStore) Close() error            { return nil }

func chainGraph() map[string][]string {
	return map[string][]string{
		"start": {"a", "b", "c"},
		"a":     {"d", "e"},
		"d":     {"goal", "f"},
	}
}

func testParams() search.Params {
	return search.Params{
		MinLength:      4,
		MaxDepth:       6,
		MaxExpansions:  100,
		DiversityFloor: 0,
		ResortEvery:    5,
		ResortMinSize:  8,
	}
}

func newTestService(t *testing.T, oracle assoc.Oracle, themer Themer, d *Deps) *Service {
	t.Helper()
	deps := Deps{
		Source:      assoc.NewSource(assoc.NewCache(), oracle),
		Themer:      themer,
		Pool:        seeds.New([]string{"start"}),
		Params:      testParams(),
		ShuffleSeed: func() int64 { return 11 },
	}
	if d != nil {
		if d.Store != nil {
			deps.Store = d.Store
		}
		if d.Notify != nil {
			deps.Notify = d.Notify
		}
	}
	svc, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestGenerate(t *testing.T) {
	themer := &fakeThemer{theme: models.Theme{Label: "A Short Journey", Difficulty: "easy"}}
	store := &memStore{}
	var events []string
	svc := newTestService(t, &graphOracle{graph: chainGraph()}, themer, &Deps{
		Store:  store,
		Notify: func(kind, _ string) { events = append(events, kind) },
	})

	p, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.Start != "start" {
		t.Errorf("start = %q", p.Start)
	}
	if p.MinSteps != len(p.Path)-1 {
		t.Errorf("min_steps = %d, path = %v", p.MinSteps, p.Path)
	}
	if len(p.Path) < 4 {
		t.Errorf("path too short: %v", p.Path)
	}
	if p.Theme.Label != "A Short Journey" {
		t.Errorf("theme = %+v", p.Theme)
	}
	if p.ID == "" {
		t.Error("puzzle id is empty")
	}

	current, err := svc.Current()
	if err != nil || current.ID != p.ID {
		t.Errorf("Current = %v, %v", current, err)
	}
	if len(store.puzzles) != 1 {
		t.Errorf("persisted puzzles = %d, want 1", len(store.puzzles))
	}
	if len(store.cache) == 0 {
		t.Error("cache snapshot not persisted")
	}
	if len(events) != 1 || events[0] != "puzzle.generated" {
		t.Errorf("events = %v", events)
	}
}

func TestGenerate_ThemingFailureFallsBack(t *testing.T) {
	themer := &fakeThemer{err: errors.New("theme service down")}
	svc := newTestService(t, &graphOracle{graph: chainGraph()}, themer, nil)

	p, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.Theme.Label != "Word Chain" {
		t.Errorf("label = %q, want generic fallback", p.Theme.Label)
	}
}

func TestGenerate_NoPathFound(t *testing.T) {
	// The seed has no associations at all, so the search exhausts its
	// frontier immediately.
	svc := newTestService(t, &graphOracle{graph: map[string][]string{}}, &fakeThemer{}, nil)

	_, err := svc.Generate(context.Background())
	if !errors.Is(err, apperr.ErrNoPathFound) {
		t.Fatalf("err = %v, want ErrNoPathFound", err)
	}
	if _, err := svc.Current(); !errors.Is(err, apperr.ErrNoPuzzle) {
		t.Error("no puzzle should be current after a failed round")
	}
}

func TestGenerate_QuotaPropagates(t *testing.T) {
	themer := &fakeThemer{}
	svc := newTestService(t, &quotaOracle{}, themer, nil)

	_, err := svc.Generate(context.Background())
	if !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if themer.calls != 0 {
		t.Error("themer must not run after an aborted search")
	}
}

type quotaOracle struct{}

func (quotaOracle) Associations(_ context.Context, _ string) ([]models.Association, error) {
	return nil, apperr.ErrQuotaExceeded
}

func TestGenerate_ConcurrentRequestsObserveOneRound(t *testing.T) {
	gate := make(chan struct{})
	oracle := &graphOracle{graph: chainGraph(), gate: gate}
	svc := newTestService(t, oracle, &fakeThemer{theme: models.Theme{Label: "x"}}, nil)

	const callers = 4
	var wg sync.WaitGroup
	ids := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.Generate(context.Background())
			if err == nil {
				ids[i] = p.ID
			}
			errs[i] = err
		}(i)
	}

	// Let the first round park inside the oracle, then release it.
	waitForCalls(t, &oracle.calls)
	close(gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d observed id %q, caller 0 observed %q", i, ids[i], ids[0])
		}
	}
}

func waitForCalls(t *testing.T, n *atomic.Int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for n.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("oracle never called")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGenerate_PersistsThroughSQLite(t *testing.T) {
	db := testutil.TestDB(t)
	svc := newTestService(t, &graphOracle{graph: chainGraph()}, &fakeThemer{theme: models.Theme{Label: "x"}}, &Deps{Store: db})

	p, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	latest, err := db.LatestPuzzle()
	if err != nil || latest == nil {
		t.Fatalf("LatestPuzzle = %v, %v", latest, err)
	}
	if latest.ID != p.ID {
		t.Errorf("persisted id = %q, want %q", latest.ID, p.ID)
	}
	if n, err := db.WordCount(); err != nil || n == 0 {
		t.Errorf("persisted word count = %d, %v", n, err)
	}
}

func TestRestore(t *testing.T) {
	svc := newTestService(t, &graphOracle{graph: chainGraph()}, &fakeThemer{}, nil)

	svc.Restore(&models.Puzzle{ID: "restored", Start: "a", Target: "b"})
	p, err := svc.Current()
	if err != nil || p.ID != "restored" {
		t.Errorf("Current = %v, %v", p, err)
	}
}

func TestAssociationsReadPath(t *testing.T) {
	oracle := &graphOracle{graph: chainGraph()}
	svc := newTestService(t, oracle, &fakeThemer{}, nil)

	rec, err := svc.Associations(context.Background(), " Start ")
	if err != nil {
		t.Fatalf("Associations: %v", err)
	}
	if len(rec.Words) != 3 {
		t.Errorf("words = %v", rec.Words)
	}
	// Second read is served from cache.
	if _, err := svc.Associations(context.Background(), "START"); err != nil {
		t.Fatal(err)
	}
	if oracle.calls.Load() != 1 {
		t.Errorf("oracle calls = %d, want 1", oracle.calls.Load())
	}

	if _, err := svc.Associations(context.Background(), "   "); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("empty word err = %v", err)
	}
}
