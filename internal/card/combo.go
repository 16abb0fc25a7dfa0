package card

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCombo reports a combo that is not 2 or 4 cards, or contains a
// duplicate card. Duplicates are never silently deduplicated.
var ErrInvalidCombo = errors.New("invalid combo")

// Combo is the set of hole (or shown) cards held by one player: exactly
// 2 cards in Hold'em, 4 in Omaha. The source order is preserved for
// display, but equality is order-independent.
type Combo struct {
	cards []Card
}

// NewCombo builds a Combo from 2 or 4 unique cards.
func NewCombo(cards ...Card) (Combo, error) {
	if len(cards) != 2 && len(cards) != 4 {
		return Combo{}, fmt.Errorf("%w: got %d cards, want 2 or 4", ErrInvalidCombo, len(cards))
	}
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i] == cards[j] {
				return Combo{}, fmt.Errorf("%w: duplicate card %s", ErrInvalidCombo, cards[i])
			}
		}
	}
	held := make([]Card, len(cards))
	copy(held, cards)
	return Combo{cards: held}, nil
}

// ParseCombo parses a combo in packed ("AcJh", "AcKd8s8c") or spaced
// ("Ac Jh") notation.
func ParseCombo(s string) (Combo, error) {
	cards, err := ParseMany(s)
	if err != nil {
		return Combo{}, fmt.Errorf("%w: %v", ErrInvalidCombo, err)
	}
	return NewCombo(cards...)
}

// MustParseCombo is a test helper that panics on invalid input.
func MustParseCombo(s string) Combo {
	c, err := ParseCombo(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Cards returns a copy of the cards in source order.
func (c Combo) Cards() []Card {
	out := make([]Card, len(c.cards))
	copy(out, c.cards)
	return out
}

func (c Combo) Len() int {
	return len(c.cards)
}

// Equal reports whether both combos hold the same set of cards,
// regardless of order.
func (c Combo) Equal(other Combo) bool {
	if len(c.cards) != len(other.cards) {
		return false
	}
	for _, a := range c.cards {
		found := false
		for _, b := range other.cards {
			if a == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c Combo) String() string {
	var b strings.Builder
	for _, cd := range c.cards {
		b.WriteString(cd.String())
	}
	return b.String()
}
