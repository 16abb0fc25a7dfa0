// Package card provides the playing card and hole-card combo value types
// used by the hand history parser.
package card

import (
	"errors"
	"fmt"
	"strings"
)

// Rank is a card rank from Two (2) to Ace (14).
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Suit is one of the four card suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Card represents a single playing card. It is an immutable value type;
// two cards are equal iff rank and suit are equal.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

var ErrInvalidCard = errors.New("invalid card")

// Parse parses a card in hand history notation, e.g. "As", "Td", "2c".
// "10" is accepted as an alias for "T".
func Parse(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	suit, err := parseSuit(s[len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rank, err := parseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseMany parses a card list in either spaced ("2s 6d 6h") or packed
// ("AcJh") notation.
func ParseMany(s string) ([]Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if strings.ContainsAny(s, " ,") {
		fields := strings.FieldsFunc(s, func(r rune) bool {
			return r == ' ' || r == ','
		})
		cards := make([]Card, 0, len(fields))
		for _, f := range fields {
			c, err := Parse(f)
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
		return cards, nil
	}

	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length card string %q", ErrInvalidCard, s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := Parse(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParse is a test helper that panics on invalid input.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseRank(s string) (Rank, error) {
	switch s {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return Rank(s[0] - '0'), nil
	case "T", "t", "10":
		return Ten, nil
	case "J", "j":
		return Jack, nil
	case "Q", "q":
		return Queen, nil
	case "K", "k":
		return King, nil
	case "A", "a":
		return Ace, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", s)
	}
}

func parseSuit(b byte) (Suit, error) {
	switch b {
	case 'c', 'C':
		return Clubs, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'h', 'H':
		return Hearts, nil
	case 's', 'S':
		return Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", b)
	}
}
