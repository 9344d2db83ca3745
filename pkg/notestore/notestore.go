// Package notestore is the boundary to the application's local relational
// store of notes. The cache layer treats it as an opaque, possibly-slow,
// possibly-failing collaborator; every query can return ErrUnavailable.
package notestore

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the backing store is unreachable or erroring.
var ErrUnavailable = errors.New("note store unavailable")

// Note is one record from the backing store.
type Note struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Archived  bool
}

// AggregateFilter selects which notes an aggregate covers.
type AggregateFilter struct {
	IncludeArchived bool
	UpdatedSince    time.Time // zero means no lower bound
}

// Aggregate summarizes the store for compact display.
type Aggregate struct {
	Total    int
	Archived int
}

// Querier is the read interface consumed by the snapshot fetch path.
type Querier interface {
	// RecentNotes returns up to limit notes, most recently updated first.
	RecentNotes(ctx context.Context, limit int) ([]Note, error)

	// CountNotes returns aggregate counts over notes matching the filter.
	CountNotes(ctx context.Context, f AggregateFilter) (Aggregate, error)
}
