package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/raido/internal/assoc"
	"github.com/starford/raido/internal/models"
)

// SaveCache upserts every cache entry within one transaction. Existing
// rows for the same word are replaced (the in-memory cache is the source
// of truth for the current epoch).
func (db *DB) SaveCache(entries map[string]assoc.Record) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO words (word, associations, detailed, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(word) DO UPDATE SET
			associations = excluded.associations,
			detailed     = excluded.detailed,
			updated_at   = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("snapshot: prepare word upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for word, rec := range entries {
		wordsJSON, _ := json.Marshal(rec.Words)
		detailedJSON, _ := json.Marshal(rec.Detailed)
		if _, err := stmt.Exec(word, string(wordsJSON), string(detailedJSON), now); err != nil {
			return fmt.Errorf("snapshot: upsert word %q: %w", word, err)
		}
	}
	return tx.Commit()
}

// LoadCache reads every persisted cache entry.
func (db *DB) LoadCache() (map[string]assoc.Record, error) {
	rows, err := db.conn.Query(`SELECT word, associations, detailed FROM words`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]assoc.Record)
	for rows.Next() {
		var word, wordsJSON, detailedJSON string
		if err := rows.Scan(&word, &wordsJSON, &detailedJSON); err != nil {
			return nil, err
		}
		var rec assoc.Record
		if err := json.Unmarshal([]byte(wordsJSON), &rec.Words); err != nil {
			continue // skip rows corrupted by hand edits
		}
		_ = json.Unmarshal([]byte(detailedJSON), &rec.Detailed)
		out[word] = rec
	}
	return out, rows.Err()
}

// SavePuzzle appends a generated puzzle to the history.
func (db *DB) SavePuzzle(p *models.Puzzle) error {
	pathJSON, _ := json.Marshal(p.Path)
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO puzzles
			(id, start_word, target_word, path, min_steps, theme_label, theme_desc, difficulty, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Start, p.Target, string(pathJSON), p.MinSteps,
		p.Theme.Label, p.Theme.Description, p.Theme.Difficulty, p.GeneratedAt)
	if err != nil {
		return fmt.Errorf("snapshot: save puzzle %s: %w", p.ID, err)
	}
	return nil
}

// LatestPuzzle returns the most recently generated puzzle, or nil when
// the history is empty.
func (db *DB) LatestPuzzle() (*models.Puzzle, error) {
	row := db.conn.QueryRow(`
		SELECT id, start_word, target_word, path, min_steps, theme_label, theme_desc, difficulty, generated_at
		FROM puzzles ORDER BY generated_at DESC LIMIT 1
	`)
	p, err := scanPuzzle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListPuzzles returns up to limit puzzles, newest first.
func (db *DB) ListPuzzles(limit int) ([]models.Puzzle, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, start_word, target_word, path, min_steps, theme_label, theme_desc, difficulty, generated_at
		FROM puzzles ORDER BY generated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list puzzles: %w", err)
	}
	defer rows.Close()

	var out []models.Puzzle
	for rows.Next() {
		p, err := scanPuzzle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// WordCount returns the number of persisted cache entries.
func (db *DB) WordCount() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("snapshot: word count: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPuzzle(row scanner) (*models.Puzzle, error) {
	var p models.Puzzle
	var pathJSON string
	err := row.Scan(&p.ID, &p.Start, &p.Target, &pathJSON, &p.MinSteps,
		&p.Theme.Label, &p.Theme.Description, &p.Theme.Difficulty, &p.GeneratedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(pathJSON), &p.Path); err != nil {
		return nil, fmt.Errorf("snapshot: decode puzzle path: %w", err)
	}
	return &p, nil
}
