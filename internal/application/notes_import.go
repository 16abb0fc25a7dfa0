package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AkatukiSora/stars-handhistory/internal/notes"
	"github.com/AkatukiSora/stars-handhistory/internal/persistence"
)

// ImportNotes loads a parsed notes document into the repository: the label
// taxonomy first, then every note with its label resolved to a name.
// It returns the number of notes written.
func ImportNotes(ctx context.Context, doc *notes.Document, repo persistence.NoteRepository) (int, error) {
	labelNames := make(map[string]string, len(doc.Labels))
	for _, l := range doc.Labels {
		id, err := strconv.Atoi(l.ID)
		if err != nil {
			return 0, fmt.Errorf("label %q has non-numeric id %q", l.Name, l.ID)
		}
		if err := repo.UpsertLabel(ctx, persistence.LabelRecord{ID: id, Name: l.Name, Color: l.Color}); err != nil {
			return 0, err
		}
		labelNames[l.ID] = l.Name
	}

	written := 0
	for _, n := range doc.Notes {
		rec := persistence.NoteRecord{
			Player: n.Player,
			Label:  labelNames[n.LabelID],
			Text:   n.Text,
		}
		if n.Update > 0 {
			rec.UpdatedAt = time.Unix(n.Update, 0).UTC()
		}
		if err := repo.UpsertNote(ctx, rec); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
