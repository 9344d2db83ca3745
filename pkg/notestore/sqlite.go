package notestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore implements Querier over the app's local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	archived   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at DESC);`

// Open opens (creating if necessary) the notes database at path.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open notes db: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck // already failing
			return nil, fmt.Errorf("configure notes db: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("create notes schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// RecentNotes returns up to limit notes, most recently updated first.
func (s *SQLiteStore) RecentNotes(ctx context.Context, limit int) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, created_at, updated_at, archived
		 FROM notes WHERE archived = 0
		 ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent notes: %v", ErrUnavailable, err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var notes []Note
	for rows.Next() {
		var n Note
		var created, updated int64
		var archived int
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &created, &updated, &archived); err != nil {
			return nil, fmt.Errorf("%w: scan note: %v", ErrUnavailable, err)
		}
		n.CreatedAt = time.Unix(0, created)
		n.UpdatedAt = time.Unix(0, updated)
		n.Archived = archived != 0
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate notes: %v", ErrUnavailable, err)
	}
	return notes, nil
}

// CountNotes returns aggregate counts over notes matching the filter.
func (s *SQLiteStore) CountNotes(ctx context.Context, f AggregateFilter) (Aggregate, error) {
	query := "SELECT COUNT(*), COALESCE(SUM(archived), 0) FROM notes WHERE updated_at >= ?"
	if !f.IncludeArchived {
		query += " AND archived = 0"
	}

	var since int64
	if !f.UpdatedSince.IsZero() {
		since = f.UpdatedSince.UnixNano()
	}

	var agg Aggregate
	if err := s.db.QueryRowContext(ctx, query, since).Scan(&agg.Total, &agg.Archived); err != nil {
		return Aggregate{}, fmt.Errorf("%w: count notes: %v", ErrUnavailable, err)
	}
	return agg, nil
}

// Add inserts a note, generating an ID if none is set. Timestamps default
// to the current time. Used by seeding and by the main app's write path.
func (s *SQLiteStore) Add(ctx context.Context, n Note) (Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}

	archived := 0
	if n.Archived {
		archived = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, body, created_at, updated_at, archived)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Body, n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano(), archived)
	if err != nil {
		return Note{}, fmt.Errorf("%w: insert note: %v", ErrUnavailable, err)
	}
	return n, nil
}

// Seed inserts n sample notes for demos and manual testing.
func (s *SQLiteStore) Seed(ctx context.Context, n int) error {
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := range n {
		note := Note{
			Title:     fmt.Sprintf("Sample note %d", i+1),
			Body:      "Seeded for widget cache demos.",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := s.Add(ctx, note); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
