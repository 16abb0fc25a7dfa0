package handhistory

import "testing"

func TestSplitSections(t *testing.T) {
	raw := `PokerStars Hand #1: Hold'em No Limit (10/20) - 2015/05/01 12:00:00 CET [2015/05/01 6:00:00 ET]
Table 'Test' 2-max Seat #1 is the button
Seat 1: alice (1500 in chips)
Seat 2: bob (1500 in chips)
*** HOLE CARDS ***
Dealt to alice [Ac Jh]
bob: folds
*** FLOP *** [2s 6d 6h]
alice: checks
*** SUMMARY ***
Total pot 40 | Rake 0
Board [2s 6d 6h]
`

	s := splitSections(raw)

	if len(s.header) != 4 {
		t.Fatalf("header = %d lines, want 4: %q", len(s.header), s.header)
	}
	if len(s.preflop) != 2 {
		t.Fatalf("preflop = %d lines, want 2: %q", len(s.preflop), s.preflop)
	}
	if s.flop[0] != "[2s 6d 6h]" {
		t.Errorf("flop[0] = %q, want board recap line", s.flop[0])
	}
	if len(s.flop) != 2 {
		t.Errorf("flop = %d lines, want 2", len(s.flop))
	}
	if !s.has("SUMMARY") || !s.has("FLOP") {
		t.Error("expected FLOP and SUMMARY markers to be recorded")
	}
	if s.has("SHOW DOWN") {
		t.Error("SHOW DOWN marker should be absent")
	}
}

func TestSplitSectionsMarkerTolerance(t *testing.T) {
	raw := "header line\n***  show down  ***\nalice: shows [Ac Jh] (a pair)\n"

	s := splitSections(raw)
	if !s.has("SHOW DOWN") {
		t.Fatal("spacing/case variant of the marker was not recognized")
	}
	if len(s.showdown) != 1 {
		t.Errorf("showdown = %d lines, want 1", len(s.showdown))
	}
}

func TestSplitSectionsBlankLineClosesGroup(t *testing.T) {
	raw := "header line\n*** FLOP *** [2s 6d 6h]\nalice: checks\n\nstray trailing text\n"

	s := splitSections(raw)
	if len(s.flop) != 2 {
		t.Errorf("flop = %d lines, want 2 (board + one action): %q", len(s.flop), s.flop)
	}
}

func TestSplitSectionsUnknownMarkerDiscarded(t *testing.T) {
	raw := "header line\n*** FIRST FLOP *** [2s 6d 6h]\nalice: checks\n*** SUMMARY ***\nTotal pot 40 | Rake 0\n"

	s := splitSections(raw)
	if len(s.flop) != 0 {
		t.Errorf("flop = %q, want empty for unknown marker", s.flop)
	}
	if len(s.summary) != 1 {
		t.Errorf("summary = %d lines, want 1", len(s.summary))
	}
}
