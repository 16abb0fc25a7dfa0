// Package handhistory parses PokerStars hand-history text into a typed
// record of one poker hand: header metadata, seating, and the per-street
// action sequences.
//
// Parsing is two-phase: ParseHeader extracts only the header line so
// callers that need just the metadata avoid the cost of a full body parse;
// Parse completes the record. A parse is a pure function of the raw text
// with no shared state, so independent hands may be parsed concurrently.
package handhistory

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AkatukiSora/stars-handhistory/internal/card"
)

// ErrBodyFormat reports a hand body missing a structurally required line
// (table line, seat list, summary pot line). Fatal for the hand.
var ErrBodyFormat = errors.New("malformed hand body")

var (
	reTable     = regexp.MustCompile(`^Table '(.+)' (\d+)-max Seat #(\d+) is the button`)
	reSeat      = regexp.MustCompile(`^Seat (\d+): (.+?) \(\$?(\d+(?:\.\d+)?) in chips\)`)
	reHero      = regexp.MustCompile(`^Dealt to (.+?) \[(.+?)\]`)
	rePot       = regexp.MustCompile(`^Total pot [^\d]*?(\d+(?:\.\d+)?) .*\| Rake [^\d]*?(\d+(?:\.\d+)?)`)
	reCollector = regexp.MustCompile(`^Seat \d+: (.+?)\s?(?:\(.+?\))? collected \([^\d]*?\d+(?:\.\d+)?\)`)
	reShowedWon = regexp.MustCompile(`^Seat \d+: (.+?)\s?(?:\(.+?\))? showed \[.+?\] and won`)
)

type parsePhase int

const (
	phaseUnparsed parsePhase = iota
	phaseHeaderParsed
	phaseFullyParsed
)

// Hand is the aggregate parse result for one hand-history blob. It is
// populated by ParseHeader and Parse and must not be mutated afterwards.
type Hand struct {
	Header HandHeader

	TableName  string
	MaxPlayers int
	ButtonSeat int
	Button     *Player
	Hero       *Player
	// Players has exactly MaxPlayers entries, indexed by seat number - 1;
	// unoccupied seats hold explicit placeholders.
	Players []*Player

	PreflopActions  []PlayerAction
	Flop            *Street
	Turn            *card.Card
	TurnActions     []PlayerAction
	River           *card.Card
	RiverActions    []PlayerAction
	ShowDown        bool
	ShowDownActions []PlayerAction

	TotalPot decimal.Decimal
	Rake     decimal.Decimal
	Board    []card.Card
	Winners  []string

	raw   string
	log   *slog.Logger
	phase parsePhase
	secs  sections
}

// New prepares a hand for parsing. Skipped-line diagnostics go to
// slog.Default; use NewWithLogger to inject a sink when parsing in
// parallel.
func New(raw string) *Hand {
	return NewWithLogger(raw, slog.Default())
}

func NewWithLogger(raw string, log *slog.Logger) *Hand {
	if log == nil {
		log = slog.Default()
	}
	return &Hand{raw: raw, log: log}
}

// ParseHeader runs phase 1: section splitting plus the header grammar.
// It is a no-op if the header was already parsed.
func (h *Hand) ParseHeader() error {
	if h.phase >= phaseHeaderParsed {
		return nil
	}

	h.secs = splitSections(h.raw)
	if len(h.secs.header) == 0 {
		return fmt.Errorf("%w: empty input", ErrHeaderFormat)
	}
	header, err := parseHeaderLine(h.secs.header[0])
	if err != nil {
		return err
	}

	h.Header = header
	h.phase = phaseHeaderParsed
	return nil
}

// Parse runs the full body parse, running ParseHeader first if needed.
// Calling Parse on a fully parsed hand is a no-op.
func (h *Hand) Parse() error {
	if h.phase == phaseFullyParsed {
		return nil
	}
	if err := h.ParseHeader(); err != nil {
		return err
	}

	steps := []func() error{
		h.parseTable,
		h.parsePlayers,
		h.parseButton,
		h.parseHero,
		h.parsePreflop,
		h.parseFlop,
		h.parseTurnRiver,
		h.parseShowDown,
		h.parsePot,
		h.parseBoard,
		h.parseWinners,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("hand #%s: %w", h.Header.ID, err)
		}
	}

	h.phase = phaseFullyParsed
	return nil
}

// HeaderParsed reports whether phase 1 has completed.
func (h *Hand) HeaderParsed() bool { return h.phase >= phaseHeaderParsed }

// Parsed reports whether the full body parse has completed.
func (h *Hand) Parsed() bool { return h.phase == phaseFullyParsed }

func (h *Hand) parseTable() error {
	for _, line := range h.secs.header[1:] {
		if m := reTable.FindStringSubmatch(line); m != nil {
			h.TableName = m[1]
			h.MaxPlayers, _ = strconv.Atoi(m[2])
			h.ButtonSeat, _ = strconv.Atoi(m[3])
			return nil
		}
	}
	return fmt.Errorf("%w: missing table line", ErrBodyFormat)
}

// parsePlayers fills the fixed-size seat list. Seats not named by a seat
// line keep their placeholder entry.
func (h *Hand) parsePlayers() error {
	h.Players = make([]*Player, h.MaxPlayers)
	for i := range h.Players {
		h.Players[i] = &Player{Name: emptySeatName(i + 1), Seat: i + 1}
	}

	for _, line := range h.secs.header[1:] {
		m := reSeat.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		seat, _ := strconv.Atoi(m[1])
		if seat < 1 || seat > h.MaxPlayers {
			return fmt.Errorf("%w: seat %d out of range", ErrBodyFormat, seat)
		}
		stack, err := decimal.NewFromString(m[3])
		if err != nil {
			return fmt.Errorf("%w: bad stack %q", ErrBodyFormat, m[3])
		}
		h.Players[seat-1] = &Player{Name: m[2], Stack: stack, Seat: seat}
	}
	return nil
}

func (h *Hand) parseButton() error {
	if h.ButtonSeat < 1 || h.ButtonSeat > h.MaxPlayers {
		return fmt.Errorf("%w: button seat %d out of range", ErrBodyFormat, h.ButtonSeat)
	}
	h.Button = h.Players[h.ButtonSeat-1]
	return nil
}

// parseHero cross-references the "Dealt to" line against the seat list.
// Absence of the line, or a name not seated, means no hero; that is not an
// error. A malformed or duplicate hole-card combo is.
func (h *Hand) parseHero() error {
	if len(h.secs.preflop) == 0 {
		return nil
	}
	m := reHero.FindStringSubmatch(h.secs.preflop[0])
	if m == nil {
		return nil
	}

	var hero *Player
	for _, p := range h.Players {
		if p.Name == m[1] {
			hero = p
			break
		}
	}
	if hero == nil {
		return nil
	}

	combo, err := card.ParseCombo(m[2])
	if err != nil {
		return err
	}
	if combo.Len() != h.Header.Variant.HoleCardCount() {
		return fmt.Errorf("%w: %d hole cards for %s", card.ErrInvalidCombo, combo.Len(), h.Header.Variant)
	}
	hero.Combo = &combo
	h.Hero = hero
	return nil
}

func (h *Hand) parsePreflop() error {
	lines := h.secs.preflop
	if len(lines) > 0 && reHero.MatchString(lines[0]) {
		lines = lines[1:]
	}
	h.PreflopActions = parseActionLines(lines, h.log)
	return nil
}

func (h *Hand) parseFlop() error {
	street, err := newStreet(h.secs.flop, h.log)
	if err != nil {
		return err
	}
	h.Flop = street
	return nil
}

// parseTurnRiver collects the turn/river action lines. The streets' board
// cards come from the summary recap (parseBoard), matching the source
// format where the marker line repeats the full board.
func (h *Hand) parseTurnRiver() error {
	h.TurnActions = parseActionLines(streetActionLines(h.secs.turn), h.log)
	h.RiverActions = parseActionLines(streetActionLines(h.secs.river), h.log)
	return nil
}

// streetActionLines drops the leading board recap line of a turn/river
// section, e.g. "[6s 4d 3s] [8c]".
func streetActionLines(lines []string) []string {
	if len(lines) > 0 && strings.HasPrefix(lines[0], "[") {
		return lines[1:]
	}
	return lines
}

func (h *Hand) parseShowDown() error {
	if !h.secs.has("SHOW DOWN") {
		return nil
	}
	h.ShowDown = true
	h.ShowDownActions = parseActionLines(h.secs.showdown, h.log)
	return nil
}

func (h *Hand) parsePot() error {
	for _, line := range h.secs.summary {
		m := rePot.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var err error
		if h.TotalPot, err = decimal.NewFromString(m[1]); err != nil {
			return fmt.Errorf("%w: bad pot %q", ErrBodyFormat, m[1])
		}
		if h.Rake, err = decimal.NewFromString(m[2]); err != nil {
			return fmt.Errorf("%w: bad rake %q", ErrBodyFormat, m[2])
		}
		return nil
	}
	return fmt.Errorf("%w: missing summary pot line", ErrBodyFormat)
}

// parseBoard reconstructs the board from the summary recap line and derives
// the turn and river cards from it. No recap line means no board.
func (h *Hand) parseBoard() error {
	for _, line := range h.secs.summary {
		if !strings.HasPrefix(line, "Board ") {
			continue
		}
		lb, rb := strings.Index(line, "["), strings.Index(line, "]")
		if lb < 0 || rb < lb {
			return fmt.Errorf("%w: bad board line %q", ErrBodyFormat, line)
		}
		cards, err := card.ParseMany(line[lb+1 : rb])
		if err != nil {
			return err
		}
		h.Board = cards
		if len(cards) > 3 {
			h.Turn = &cards[3]
		}
		if len(cards) > 4 {
			h.River = &cards[4]
		}
		return nil
	}
	return nil
}

// parseWinners collects winner names from the summary seat recap. Without a
// showdown the winners are the names on "collected" lines, in either the
// seat recap form "Seat N: name collected (150)" or the bare form
// "name collected 150 from pot"; with a showdown, the names on
// "showed ... and won" lines.
func (h *Hand) parseWinners() error {
	seen := make(map[string]bool)
	for _, line := range h.secs.summary {
		var m []string
		if !h.ShowDown && strings.Contains(line, "collected") {
			m = reCollector.FindStringSubmatch(line)
			if m == nil {
				m = reCollected.FindStringSubmatch(line)
			}
		} else if h.ShowDown && strings.Contains(line, "won") {
			m = reShowedWon.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			h.Winners = append(h.Winners, m[1])
		}
	}
	return nil
}

// FlopActions returns the flop-phase action list, nil when there was no flop.
func (h *Hand) FlopActions() []PlayerAction {
	if h.Flop == nil {
		return nil
	}
	return h.Flop.Actions
}

func emptySeatName(seat int) string {
	return "Empty Seat " + strconv.Itoa(seat)
}

func isEmptySeatName(name string, seat int) bool {
	return name == emptySeatName(seat)
}
