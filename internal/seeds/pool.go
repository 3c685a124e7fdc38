// Package seeds manages the vocabulary the puzzle assembler starts its
// searches from.
package seeds

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/starford/raido/internal/assoc"
)

// defaultWords is the built-in fallback used when no seed file is
// configured or the configured file holds no usable words.
var defaultWords = []string{
	"water", "fire", "music", "forest", "winter",
	"bread", "mirror", "clock", "journey", "shadow",
	"garden", "storm", "letter", "bridge", "candle",
}

// Pool is a reloadable set of candidate seed words.
type Pool struct {
	mu    sync.RWMutex
	words []string
	rng   *rand.Rand
}

// Default returns a pool holding the built-in word list.
func Default() *Pool {
	return newPool(append([]string(nil), defaultWords...))
}

// New returns a pool over the given words, falling back to the built-in
// list when words is empty.
func New(words []string) *Pool {
	if len(words) == 0 {
		return Default()
	}
	return newPool(append([]string(nil), words...))
}

// Load reads one word per line from path (blank lines and # comments
// skipped, words normalized). An unreadable file is an error; a readable
// file with no usable words falls back to the default list.
func Load(path string) (*Pool, error) {
	words, err := readWords(path)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		words = append([]string(nil), defaultWords...)
	}
	return newPool(words), nil
}

func newPool(words []string) *Pool {
	return &Pool{
		words: words,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
}

// Pick returns a uniformly random word from the pool.
func (p *Pool) Pick() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.words[p.rng.Intn(len(p.words))]
}

// Len returns the pool size.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.words)
}

// Reload replaces the pool contents from path. A file with no usable
// words leaves the current pool untouched.
func (p *Pool) Reload(path string) error {
	words, err := readWords(path)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("seeds: %s holds no usable words", path)
	}
	p.mu.Lock()
	p.words = words
	p.mu.Unlock()
	return nil
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seeds: open %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := assoc.Normalize(line)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("seeds: read %s: %w", path, err)
	}
	return words, nil
}
