package handhistory

import (
	"bufio"
	"regexp"
	"strings"
)

// Section markers as they appear in the raw text, e.g. "*** FLOP *** [2s 6d 6h]".
// Matching is tolerant of extra spacing and letter case. Text after the
// closing stars (the board recap on street markers) is kept as the first
// line of the section.
var reSectionMarker = regexp.MustCompile(`(?i)^\s*\*{3}\s*([A-Z ]+?)\s*\*{3}\s*(.*)$`)

// sections holds the raw hand text partitioned into logical line groups.
// A nil slice means the corresponding marker was absent, which is not an
// error; an empty street simply stays empty.
type sections struct {
	header   []string // header line, table line, seat lines, blind posts
	preflop  []string // "Dealt to" line plus preflop action lines
	flop     []string // board line plus flop action lines
	turn     []string
	river    []string
	showdown []string
	summary  []string
	present  map[string]bool
}

func (s *sections) has(marker string) bool {
	return s.present[marker]
}

// splitSections scans the raw text once, routing each trimmed line into the
// group opened by the most recent marker. A street's action list ends at the
// first blank line after its board-card line; trailing blank lines between
// hands are dropped the same way.
func splitSections(raw string) sections {
	s := sections{present: make(map[string]bool)}

	current := &s.header
	open := true // collecting lines for the current group

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := reSectionMarker.FindStringSubmatch(line); m != nil {
			marker := strings.ToUpper(strings.Join(strings.Fields(m[1]), " "))
			s.present[marker] = true
			current, open = s.group(marker)
			if open && m[2] != "" {
				*current = append(*current, strings.TrimSpace(m[2]))
			}
			continue
		}

		if line == "" {
			open = false
			continue
		}
		if open {
			*current = append(*current, line)
		}
	}

	return s
}

// group resolves a marker name to its line group. Unknown markers (e.g.
// run-it-twice "FIRST FLOP") open no group; their lines are dropped.
func (s *sections) group(marker string) (*[]string, bool) {
	switch marker {
	case "HOLE CARDS":
		return &s.preflop, true
	case "FLOP":
		return &s.flop, true
	case "TURN":
		return &s.turn, true
	case "RIVER":
		return &s.river, true
	case "SHOW DOWN":
		return &s.showdown, true
	case "SUMMARY":
		return &s.summary, true
	default:
		var discard []string
		return &discard, false
	}
}
