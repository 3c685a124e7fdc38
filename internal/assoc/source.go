package assoc

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/starford/raido/internal/models"
)

// Oracle supplies associations for words the cache has not seen. The
// implementation is expected to meter its own calls and surface the
// typed errors from apperr.
type Oracle interface {
	Associations(ctx context.Context, word string) ([]models.Association, error)
}

// Source is the find-or-fetch path in front of the cache: lookups hit
// the cache first and fall through to the oracle on a miss. Concurrent
// misses for the same word are collapsed into a single oracle call via
// singleflight, so the cache makes at most one oracle call per word per
// epoch.
type Source struct {
	cache  *Cache
	oracle Oracle
	flight singleflight.Group
}

// NewSource creates a Source over cache and oracle.
func NewSource(cache *Cache, oracle Oracle) *Source {
	return &Source{cache: cache, oracle: oracle}
}

// Fetch returns the association word list for word, consulting the cache
// first and the oracle on a miss. Oracle errors pass through unchanged so
// callers can apply the taxonomy with errors.Is.
func (s *Source) Fetch(ctx context.Context, word string) ([]string, error) {
	rec, err := s.Record(ctx, word)
	if err != nil {
		return nil, err
	}
	return rec.Words, nil
}

// Record is like Fetch but returns the full record including rationales,
// used by the gameplay read path.
func (s *Source) Record(ctx context.Context, word string) (Record, error) {
	key := Normalize(word)
	if rec, ok := s.cache.Lookup(key); ok {
		return rec, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the entry between our miss and this call.
		if rec, ok := s.cache.Lookup(key); ok {
			return rec, nil
		}
		entries, err := s.oracle.Associations(ctx, key)
		if err != nil {
			return Record{}, err
		}
		words := make([]string, len(entries))
		for i, e := range entries {
			words[i] = e.Word
		}
		s.cache.Store(key, words, entries)
		rec, _ := s.cache.Lookup(key)
		return rec, nil
	})
	if err != nil {
		return Record{}, err
	}
	return v.(Record), nil
}

// Cache exposes the underlying cache for snapshot wiring.
func (s *Source) Cache() *Cache {
	return s.cache
}
