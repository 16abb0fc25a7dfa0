package handhistory

import (
	"github.com/shopspring/decimal"

	"github.com/AkatukiSora/stars-handhistory/internal/card"
)

// GameType distinguishes tournament hands from cash game hands.
type GameType int

const (
	GameTypeUnknown GameType = iota
	GameTypeCash
	GameTypeTournament
)

func (g GameType) String() string {
	switch g {
	case GameTypeCash:
		return "cash"
	case GameTypeTournament:
		return "tournament"
	default:
		return "unknown"
	}
}

// Limit is the betting structure of the game.
type Limit int

const (
	LimitUnknown Limit = iota
	LimitNo
	LimitPot
	LimitFixed
)

func (l Limit) String() string {
	switch l {
	case LimitNo:
		return "No Limit"
	case LimitPot:
		return "Pot Limit"
	case LimitFixed:
		return "Limit"
	default:
		return "unknown"
	}
}

// GameVariant is the poker variant being dealt.
type GameVariant int

const (
	VariantUnknown GameVariant = iota
	VariantHoldem
	VariantOmaha
	VariantOmahaHiLo
)

func (v GameVariant) String() string {
	switch v {
	case VariantHoldem:
		return "Hold'em"
	case VariantOmaha:
		return "Omaha"
	case VariantOmahaHiLo:
		return "Omaha Hi/Lo"
	default:
		return "unknown"
	}
}

// HoleCardCount is the number of hole cards dealt per player in this variant.
func (v GameVariant) HoleCardCount() int {
	switch v {
	case VariantOmaha, VariantOmahaHiLo:
		return 4
	default:
		return 2
	}
}

// Currency is the ISO-style currency code found in the header line.
// Empty means play money.
type Currency string

const (
	CurrencyNone      Currency = ""
	CurrencyUSD       Currency = "USD"
	CurrencyEUR       Currency = "EUR"
	CurrencyGBP       Currency = "GBP"
	CurrencyStarsCoin Currency = "SC"
)

// MoneyType flags whether the hand was played for real currency or play
// money. It is derived strictly from whether a currency was resolved.
type MoneyType int

const (
	MoneyPlay MoneyType = iota
	MoneyReal
)

func (m MoneyType) String() string {
	if m == MoneyReal {
		return "real"
	}
	return "play"
}

// ActionKind is the enumerated category of a single logged event.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionFold
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
	ActionPost
	ActionShow
	ActionMuck
	ActionWin
	ActionReturn
	ActionJoin
	ActionLeave
	ActionTimedOut
	ActionConnected
	ActionDisconnected
	ActionRemoved
)

func (a ActionKind) String() string {
	switch a {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionBet:
		return "bet"
	case ActionRaise:
		return "raise"
	case ActionPost:
		return "post"
	case ActionShow:
		return "show"
	case ActionMuck:
		return "muck"
	case ActionWin:
		return "win"
	case ActionReturn:
		return "return"
	case ActionJoin:
		return "join"
	case ActionLeave:
		return "leave"
	case ActionTimedOut:
		return "timed out"
	case ActionConnected:
		return "connected"
	case ActionDisconnected:
		return "disconnected"
	case ActionRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// PlayerAction is a single classified line of in-hand text.
// Amount is set for amount-bearing kinds (call, bet, raise, win, return),
// Cards only for show, Seat only for join.
type PlayerAction struct {
	Name   string
	Kind   ActionKind
	Amount *decimal.Decimal
	Cards  *card.Combo
	Seat   int
}

// Equal compares two actions field for field, with decimal-aware amount
// comparison and order-independent combo comparison.
func (a PlayerAction) Equal(b PlayerAction) bool {
	if a.Name != b.Name || a.Kind != b.Kind || a.Seat != b.Seat {
		return false
	}
	if (a.Amount == nil) != (b.Amount == nil) {
		return false
	}
	if a.Amount != nil && !a.Amount.Equal(*b.Amount) {
		return false
	}
	if (a.Cards == nil) != (b.Cards == nil) {
		return false
	}
	if a.Cards != nil && !a.Cards.Equal(*b.Cards) {
		return false
	}
	return true
}

// Player is one seat at the table. An unoccupied seat is represented by an
// explicit placeholder (name "Empty Seat N", zero stack) so that the seat
// list index always equals seat number - 1.
type Player struct {
	Name  string
	Stack decimal.Decimal
	Seat  int
	Combo *card.Combo
}

// IsEmpty reports whether this entry is an unoccupied seat placeholder.
func (p *Player) IsEmpty() bool {
	return p != nil && p.Stack.IsZero() && p.Combo == nil && isEmptySeatName(p.Name, p.Seat)
}
