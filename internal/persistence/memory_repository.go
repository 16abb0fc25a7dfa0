package persistence

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is the in-memory NoteRepository used by tests and as a
// fallback when the SQLite store cannot be opened.
type MemoryRepository struct {
	mu     sync.RWMutex
	notes  map[string]NoteRecord
	labels map[int]LabelRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		notes:  make(map[string]NoteRecord),
		labels: make(map[int]LabelRecord),
	}
}

func (r *MemoryRepository) UpsertNote(_ context.Context, n NoteRecord) error {
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[n.Player] = n
	return nil
}

func (r *MemoryRepository) GetNote(_ context.Context, player string) (*NoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[player]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *MemoryRepository) ListNotes(_ context.Context) ([]NoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]NoteRecord, 0, len(r.notes))
	for _, n := range r.notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Player < notes[j].Player })
	return notes, nil
}

func (r *MemoryRepository) DeleteNote(_ context.Context, player string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, player)
	return nil
}

func (r *MemoryRepository) UpsertLabel(_ context.Context, l LabelRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[l.ID] = l
	return nil
}

func (r *MemoryRepository) ListLabels(_ context.Context) ([]LabelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]LabelRecord, 0, len(r.labels))
	for _, l := range r.labels {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].ID < labels[j].ID })
	return labels, nil
}

func (r *MemoryRepository) DeleteLabel(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.labels {
		if l.Name == name {
			delete(r.labels, id)
			break
		}
	}
	for player, n := range r.notes {
		if n.Label == name {
			n.Label = ""
			r.notes[player] = n
		}
	}
	return nil
}
