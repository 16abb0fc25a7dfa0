package application

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/AkatukiSora/stars-handhistory/internal/notes"
	"github.com/AkatukiSora/stars-handhistory/internal/persistence"
)

const goodHand1 = `PokerStars Hand #1: Hold'em No Limit (10/20) - 2015/05/01 12:00:00 CET [2015/05/01 6:00:00 ET]
Table 'Hyperion' 2-max Seat #1 is the button
Seat 1: alice (1500 in chips)
Seat 2: bob (1500 in chips)
alice: posts small blind 10
bob: posts big blind 20
*** HOLE CARDS ***
alice: folds
*** SUMMARY ***
Total pot 20 | Rake 0
Seat 2: bob (big blind) collected (20)
`

const goodHand2 = `PokerStars Hand #2: Hold'em No Limit (10/20) - 2015/05/01 12:01:00 CET [2015/05/01 6:01:00 ET]
Table 'Hyperion' 2-max Seat #1 is the button
Seat 1: alice (1490 in chips)
Seat 2: bob (1510 in chips)
alice: posts small blind 10
bob: posts big blind 20
*** HOLE CARDS ***
alice: calls 10
bob: checks
*** FLOP *** [2s 6d 6h]
bob: checks
alice: checks
*** SUMMARY ***
Total pot 40 | Rake 0
Board [2s 6d 6h]
Seat 2: bob (big blind) collected (40)
`

const badHand = `PokerStars Hand #3: some garbage that is not a real header
Table 'Hyperion' 2-max Seat #1 is the button
*** SUMMARY ***
Total pot 20 | Rake 0
`

func testImporter() *Importer {
	return NewImporter(slog.New(slog.DiscardHandler))
}

func TestImportReader(t *testing.T) {
	raw := goodHand1 + "\n\n" + goodHand2

	report, err := testImporter().ImportReader(context.Background(), strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ImportReader error: %v", err)
	}

	if report.Parsed != 2 || report.Skipped != 0 {
		t.Fatalf("report = %d parsed, %d skipped; want 2, 0", report.Parsed, report.Skipped)
	}
	if report.Hands[0].Header.ID != "1" || report.Hands[1].Header.ID != "2" {
		t.Errorf("hand order = %q, %q; want file order", report.Hands[0].Header.ID, report.Hands[1].Header.ID)
	}
	if !report.Hands[1].Parsed() {
		t.Error("imported hand is not fully parsed")
	}
}

func TestImportSkipsBadHands(t *testing.T) {
	raw := goodHand1 + "\n" + badHand + "\n" + goodHand2

	report, err := testImporter().ImportReader(context.Background(), strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ImportReader error: %v", err)
	}

	if report.Parsed != 2 || report.Skipped != 1 {
		t.Fatalf("report = %d parsed, %d skipped; want 2, 1", report.Parsed, report.Skipped)
	}
	if report.Hands[0].Header.ID != "1" || report.Hands[1].Header.ID != "2" {
		t.Errorf("surviving hands = %q, %q", report.Hands[0].Header.ID, report.Hands[1].Header.ID)
	}
}

func TestImportHeadersOnly(t *testing.T) {
	im := testImporter()
	im.HeadersOnly = true

	report, err := im.ImportReader(context.Background(), strings.NewReader(goodHand1))
	if err != nil {
		t.Fatalf("ImportReader error: %v", err)
	}
	if report.Parsed != 1 {
		t.Fatalf("report = %d parsed, want 1", report.Parsed)
	}

	h := report.Hands[0]
	if !h.HeaderParsed() || h.Parsed() {
		t.Error("headers-only import should stop after the header phase")
	}
	if h.Header.ID != "1" {
		t.Errorf("Header.ID = %q, want 1", h.Header.ID)
	}
}

func TestImportEmpty(t *testing.T) {
	report, err := testImporter().ImportReader(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportReader error: %v", err)
	}
	if report.Parsed != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testImporter().ImportReader(ctx, strings.NewReader(goodHand1)); err == nil {
		t.Fatal("expected context error")
	}
}

func TestImportNotes(t *testing.T) {
	doc := notes.NewDocument()
	if err := doc.AddLabel("FISH", "30DBFF"); err != nil {
		t.Fatalf("AddLabel error: %v", err)
	}
	stamp := time.Date(2021, 7, 1, 15, 0, 0, 0, time.UTC)
	if err := doc.AddNote("sloppy_joe", "calls any two", "FISH", stamp); err != nil {
		t.Fatalf("AddNote error: %v", err)
	}
	if err := doc.AddNote("anon42", "no reads yet", "", stamp); err != nil {
		t.Fatalf("AddNote error: %v", err)
	}

	repo := persistence.NewMemoryRepository()
	n, err := ImportNotes(context.Background(), doc, repo)
	if err != nil {
		t.Fatalf("ImportNotes error: %v", err)
	}
	if n != 2 {
		t.Fatalf("ImportNotes = %d, want 2", n)
	}

	rec, err := repo.GetNote(context.Background(), "sloppy_joe")
	if err != nil {
		t.Fatalf("GetNote error: %v", err)
	}
	if rec == nil || rec.Label != "FISH" || rec.Text != "calls any two" {
		t.Errorf("stored note = %+v, want labeled FISH", rec)
	}
	if !rec.UpdatedAt.Equal(stamp) {
		t.Errorf("UpdatedAt = %v, want %v", rec.UpdatedAt, stamp)
	}

	labels, err := repo.ListLabels(context.Background())
	if err != nil {
		t.Fatalf("ListLabels error: %v", err)
	}
	if len(labels) != 1 || labels[0].Name != "FISH" {
		t.Errorf("labels = %+v, want [FISH]", labels)
	}
}
