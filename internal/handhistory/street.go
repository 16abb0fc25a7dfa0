package handhistory

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/AkatukiSora/stars-handhistory/internal/card"
)

// Street owns one betting phase's board cards and its ordered action list.
// Texture predicates are defined on the flop's three cards only; later
// streets do not recompute texture.
type Street struct {
	Cards   []card.Card
	Actions []PlayerAction
}

// newStreet builds a street from its section lines: the board recap line
// ("[2s 6d 6h]") followed by action lines. Unrecognized action lines are
// dropped and reported to log, never fatal.
func newStreet(lines []string, log *slog.Logger) (*Street, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	s := &Street{}

	actionLines := lines
	if strings.HasPrefix(lines[0], "[") {
		cards, err := card.ParseMany(strings.Trim(lines[0], "[]"))
		if err != nil {
			return nil, err
		}
		s.Cards = cards
		actionLines = lines[1:]
	}

	s.Actions = parseActionLines(actionLines, log)
	return s, nil
}

// parseActionLines classifies each line, skipping unrecognized ones.
// The log format gains new informational line types over time; a hard
// failure on every unknown sentence would be too brittle for real logs.
func parseActionLines(lines []string, log *slog.Logger) []PlayerAction {
	var actions []PlayerAction
	for _, line := range lines {
		action, err := ParseAction(line)
		if err != nil {
			log.Warn("skipping unrecognized action line", "line", line)
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// Players returns the distinct actor names of this street in order of
// first action.
func (s *Street) Players() []string {
	var names []string
	seen := make(map[string]bool)
	for _, a := range s.Actions {
		if !seen[a.Name] {
			seen[a.Name] = true
			names = append(names, a.Name)
		}
	}
	return names
}

// IsRainbow reports three distinct suits on the flop.
func (s *Street) IsRainbow() bool {
	suits := s.suitCounts()
	for _, n := range suits {
		if n > 1 {
			return false
		}
	}
	return true
}

// IsMonotone reports a single-suited flop.
func (s *Street) IsMonotone() bool {
	for _, n := range s.suitCounts() {
		if n == len(s.Cards) && n > 0 {
			return true
		}
	}
	return false
}

// IsTriplet reports three equal ranks.
func (s *Street) IsTriplet() bool {
	if len(s.Cards) < 3 {
		return false
	}
	return s.Cards[0].Rank == s.Cards[1].Rank && s.Cards[1].Rank == s.Cards[2].Rank
}

// HasPair reports at least two equal ranks.
func (s *Street) HasPair() bool {
	for _, d := range s.rankDifferences() {
		if d == 0 {
			return true
		}
	}
	return false
}

// HasFlushDraw reports that at least two cards share a suit.
func (s *Street) HasFlushDraw() bool {
	for _, n := range s.suitCounts() {
		if n >= 2 {
			return true
		}
	}
	return false
}

// HasStraightDraw reports two ranks close enough (gap 1-3) for an
// open-ended or double-gut straight draw.
func (s *Street) HasStraightDraw() bool {
	for _, d := range s.rankDifferences() {
		if d >= 1 && d <= 3 {
			return true
		}
	}
	return false
}

// HasGutshot reports two ranks within a four-gap window.
func (s *Street) HasGutshot() bool {
	for _, d := range s.rankDifferences() {
		if d >= 1 && d <= 4 {
			return true
		}
	}
	return false
}

func (s *Street) suitCounts() map[card.Suit]int {
	counts := make(map[card.Suit]int, 4)
	for _, c := range s.Cards {
		counts[c.Suit]++
	}
	return counts
}

// rankDifferences returns the pairwise rank gaps of the sorted board.
func (s *Street) rankDifferences() []int {
	ranks := make([]int, len(s.Cards))
	for i, c := range s.Cards {
		ranks[i] = int(c.Rank)
	}
	sort.Ints(ranks)

	var diffs []int
	for i := 0; i < len(ranks); i++ {
		for j := i + 1; j < len(ranks); j++ {
			diffs = append(diffs, ranks[j]-ranks[i])
		}
	}
	return diffs
}
