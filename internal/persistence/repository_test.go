package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// repoFactories lets every test run against both implementations.
func repoFactories(t *testing.T) map[string]NoteRepository {
	t.Helper()

	sqlite, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository error: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]NoteRepository{
		"sqlite": sqlite,
		"memory": NewMemoryRepository(),
	}
}

func TestNoteRoundTrip(t *testing.T) {
	for name, repo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			stamp := time.Date(2021, 7, 1, 15, 0, 0, 0, time.UTC)

			note := NoteRecord{Player: "sloppy_joe", Label: "FISH", Text: "calls any two", UpdatedAt: stamp}
			if err := repo.UpsertNote(ctx, note); err != nil {
				t.Fatalf("UpsertNote error: %v", err)
			}

			got, err := repo.GetNote(ctx, "sloppy_joe")
			if err != nil {
				t.Fatalf("GetNote error: %v", err)
			}
			if got == nil {
				t.Fatal("GetNote returned nil for stored note")
			}
			if got.Text != note.Text || got.Label != note.Label {
				t.Errorf("GetNote = %+v, want %+v", got, note)
			}
			if !got.UpdatedAt.Equal(stamp) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, stamp)
			}
		})
	}
}

func TestGetNoteMissing(t *testing.T) {
	for name, repo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.GetNote(context.Background(), "nobody")
			if err != nil {
				t.Fatalf("GetNote error: %v", err)
			}
			if got != nil {
				t.Errorf("GetNote = %+v, want nil for missing note", got)
			}
		})
	}
}

func TestUpsertNoteReplaces(t *testing.T) {
	for name, repo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.UpsertNote(ctx, NoteRecord{Player: "reg", Text: "first read"}); err != nil {
				t.Fatalf("UpsertNote error: %v", err)
			}
			if err := repo.UpsertNote(ctx, NoteRecord{Player: "reg", Text: "updated read"}); err != nil {
				t.Fatalf("second UpsertNote error: %v", err)
			}

			notes, err := repo.ListNotes(ctx)
			if err != nil {
				t.Fatalf("ListNotes error: %v", err)
			}
			if len(notes) != 1 {
				t.Fatalf("ListNotes = %d entries, want 1", len(notes))
			}
			if notes[0].Text != "updated read" {
				t.Errorf("Text = %q, want updated read", notes[0].Text)
			}
		})
	}
}

func TestListNotesOrdered(t *testing.T) {
	for name, repo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, p := range []string{"zeta", "alpha", "mid"} {
				if err := repo.UpsertNote(ctx, NoteRecord{Player: p, Text: "x"}); err != nil {
					t.Fatalf("UpsertNote error: %v", err)
				}
			}

			notes, err := repo.ListNotes(ctx)
			if err != nil {
				t.Fatalf("ListNotes error: %v", err)
			}
			want := []string{"alpha", "mid", "zeta"}
			if len(notes) != len(want) {
				t.Fatalf("ListNotes = %d entries, want %d", len(notes), len(want))
			}
			for i, p := range want {
				if notes[i].Player != p {
					t.Errorf("notes[%d].Player = %q, want %q", i, notes[i].Player, p)
				}
			}
		})
	}
}

func TestDeleteNote(t *testing.T) {
	for name, repo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.UpsertNote(ctx, NoteRecord{Player: "gone", Text: "x"}); err != nil {
				t.Fatalf("UpsertNote error: %v", err)
			}
			if err := repo.DeleteNote(ctx, "gone"); err != nil {
				t.Fatalf("DeleteNote error: %v", err)
			}
			got, err := repo.GetNote(ctx, "gone")
			if err != nil || got != nil {
				t.Errorf("GetNote after delete = %+v, %v; want nil, nil", got, err)
			}
			// Deleting again stays a no-op.
			if err := repo.DeleteNote(ctx, "gone"); err != nil {
				t.Errorf("second DeleteNote error: %v", err)
			}
		})
	}
}

func TestLabelsAndDeleteLabelUnlabelsNotes(t *testing.T) {
	for name, repo := range repoFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := repo.UpsertLabel(ctx, LabelRecord{ID: 0, Name: "FISH", Color: "30DBFF"}); err != nil {
				t.Fatalf("UpsertLabel error: %v", err)
			}
			if err := repo.UpsertLabel(ctx, LabelRecord{ID: 1, Name: "SHARK", Color: "30FF97"}); err != nil {
				t.Fatalf("UpsertLabel error: %v", err)
			}
			if err := repo.UpsertNote(ctx, NoteRecord{Player: "joe", Label: "FISH", Text: "x"}); err != nil {
				t.Fatalf("UpsertNote error: %v", err)
			}

			labels, err := repo.ListLabels(ctx)
			if err != nil {
				t.Fatalf("ListLabels error: %v", err)
			}
			if len(labels) != 2 || labels[0].Name != "FISH" || labels[1].Name != "SHARK" {
				t.Fatalf("ListLabels = %+v, want FISH then SHARK", labels)
			}

			if err := repo.DeleteLabel(ctx, "FISH"); err != nil {
				t.Fatalf("DeleteLabel error: %v", err)
			}
			labels, err = repo.ListLabels(ctx)
			if err != nil {
				t.Fatalf("ListLabels error: %v", err)
			}
			if len(labels) != 1 || labels[0].Name != "SHARK" {
				t.Errorf("ListLabels after delete = %+v, want only SHARK", labels)
			}

			note, err := repo.GetNote(ctx, "joe")
			if err != nil {
				t.Fatalf("GetNote error: %v", err)
			}
			if note == nil || note.Label != "" {
				t.Errorf("note after label delete = %+v, want unlabeled", note)
			}
		})
	}
}
