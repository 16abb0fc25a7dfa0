// Package persistence stores player notes behind a small repository
// interface with a SQLite implementation for the real store and an
// in-memory one for tests and fallback operation.
package persistence

import (
	"context"
	"time"
)

// NoteRecord is one player's stored note. Label holds the label name,
// empty when the note is unlabeled.
type NoteRecord struct {
	Player    string
	Label     string
	Text      string
	UpdatedAt time.Time
}

// LabelRecord is one entry of the stored label taxonomy.
type LabelRecord struct {
	ID    int
	Name  string
	Color string
}

// NoteRepository persists player notes and their label taxonomy.
// Implementations must be safe for concurrent use.
type NoteRepository interface {
	// UpsertNote inserts or replaces the note keyed by player name.
	UpsertNote(ctx context.Context, n NoteRecord) error
	// GetNote returns the note for player, or nil, nil when absent.
	GetNote(ctx context.Context, player string) (*NoteRecord, error)
	// ListNotes returns all notes ordered by player name.
	ListNotes(ctx context.Context) ([]NoteRecord, error)
	// DeleteNote removes player's note. Deleting an absent note is a no-op.
	DeleteNote(ctx context.Context, player string) error

	// UpsertLabel inserts or replaces the label keyed by id.
	UpsertLabel(ctx context.Context, l LabelRecord) error
	// ListLabels returns all labels ordered by id.
	ListLabels(ctx context.Context) ([]LabelRecord, error)
	// DeleteLabel removes the named label and unlabels notes referencing it.
	DeleteLabel(ctx context.Context, name string) error
}
