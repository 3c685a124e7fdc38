// Package assoc holds the process-wide association cache and the
// cache-first fetch path in front of the oracle.
package assoc

import (
	"sort"
	"strings"
	"sync"

	"github.com/starford/raido/internal/models"
)

// Record is the cached association set for one word: the plain word list
// plus, when available, a parallel detailed list carrying rationales.
// When Detailed is present it mirrors Words exactly (same order, same
// words).
type Record struct {
	Words    []string             `json:"words"`
	Detailed []models.Association `json:"detailed,omitempty"`
}

// Normalize maps a word to its cache identity: whitespace runs collapsed
// to single spaces, surrounding whitespace trimmed, case folded. Two
// words are the same entity iff their normalized forms are equal.
func Normalize(word string) string {
	return strings.ToLower(strings.Join(strings.Fields(word), " "))
}

// Cache is the in-memory association cache. Entries are append-only for
// the lifetime of a process epoch; Clear wipes the whole epoch. Stores
// for the same word are last-write-wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Record
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Record)}
}

// Lookup returns the record stored under any case/whitespace variant of
// word.
func (c *Cache) Lookup(word string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.entries[Normalize(word)]
	return rec, ok
}

// Store writes the record for word, overwriting any existing entry for
// the normalized key. The plain list and the detailed list (when given)
// are written together; there is no partial write.
func (c *Cache) Store(word string, words []string, detailed []models.Association) {
	rec := Record{Words: words, Detailed: detailed}
	c.mu.Lock()
	c.entries[Normalize(word)] = rec
	c.mu.Unlock()
}

// Clear wipes every entry, starting a new cache epoch.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Record)
	c.mu.Unlock()
}

// Len returns the number of cached words.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached vocabulary in sorted order. Used for seed
// sampling and snapshot export.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Export returns a copy of all entries for snapshot persistence.
func (c *Cache) Export() map[string]Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Record, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Restore replaces the cache contents with a previously exported
// snapshot. Keys are re-normalized so snapshots from older builds stay
// valid.
func (c *Cache) Restore(entries map[string]Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Record, len(entries))
	for k, v := range entries {
		c.entries[Normalize(k)] = v
	}
}
