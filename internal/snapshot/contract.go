package snapshot

import (
	"github.com/starford/raido/internal/assoc"
	"github.com/starford/raido/internal/models"
)

// Store defines the persistence collaborator consumed by the service
// layer. Depend on this interface rather than *DB so tests can use an
// in-memory stub.
type Store interface {
	SaveCache(entries map[string]assoc.Record) error
	LoadCache() (map[string]assoc.Record, error)
	SavePuzzle(p *models.Puzzle) error
	LatestPuzzle() (*models.Puzzle, error)
	ListPuzzles(limit int) ([]models.Puzzle, error)
	WordCount() (int, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
