package handhistory

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AkatukiSora/stars-handhistory/internal/card"
)

// ErrUnrecognizedAction reports a body line matching no classifier rule.
// Callers must not abort the hand on it: the policy is skip-and-log,
// because the room adds new informational line types over time.
var ErrUnrecognizedAction = errors.New("unrecognized action line")

var (
	reUncalled     = regexp.MustCompile(`^Uncalled bet \([^\d]*?(\d+(?:\.\d+)?)\) returned to\s+(.+)$`)
	reCollected    = regexp.MustCompile(`^(.+?) collected [^\d]*?(\d+(?:\.\d+)?)`)
	reJoin         = regexp.MustCompile(`^(.+?) joins the table at seat #(\d+)$`)
	rePlayerVerb   = regexp.MustCompile(`^(.+?):\s+([a-z]+)`)
	reFirstDecimal = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// actionRule pairs a matching substring with its line parser. Rules are
// checked in priority order, most specific first, because several kinds
// share vocabulary: "collected" appears both in the dedicated win line and
// inside showdown recap lines.
type actionRule struct {
	substr string
	parse  func(line string) (PlayerAction, error)
}

var actionRules = []actionRule{
	{"Uncalled bet", parseUncalled},
	{" collected ", parseCollected},
	{" doesn't show hand", parseMuck},
	{"mucks hand", parseMuck},
	{"joins the table", parseJoin},
	{"leaves the table", parseAnchored("leaves the table", ActionLeave)},
	{"has timed out", parseAnchored("has timed out", ActionTimedOut)},
	{"is connected", parseAnchored("is connected", ActionConnected)},
	{"is disconnected", parseAnchored("is disconnected", ActionDisconnected)},
	{"was removed", parseAnchored("was removed", ActionRemoved)},
	{" shows ", parseShow},
	{": ", parsePlayerVerb},
}

// ParseAction classifies one trimmed line of hand-body text. The first rule
// whose substring occurs in the line wins.
func ParseAction(line string) (PlayerAction, error) {
	line = strings.TrimSpace(line)
	for _, rule := range actionRules {
		if strings.Contains(line, rule.substr) {
			return rule.parse(line)
		}
	}
	return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
}

func parseUncalled(line string) (PlayerAction, error) {
	m := reUncalled.FindStringSubmatch(line)
	if m == nil {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return PlayerAction{}, fmt.Errorf("%w: bad amount in %q", ErrUnrecognizedAction, line)
	}
	return PlayerAction{Name: m[2], Kind: ActionReturn, Amount: &amount}, nil
}

func parseCollected(line string) (PlayerAction, error) {
	m := reCollected.FindStringSubmatch(line)
	if m == nil {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}
	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return PlayerAction{}, fmt.Errorf("%w: bad amount in %q", ErrUnrecognizedAction, line)
	}
	return PlayerAction{Name: m[1], Kind: ActionWin, Amount: &amount}, nil
}

// parseMuck handles both "name: doesn't show hand" and "name: mucks hand".
func parseMuck(line string) (PlayerAction, error) {
	i := strings.Index(line, ":")
	if i < 0 {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}
	return PlayerAction{Name: line[:i], Kind: ActionMuck}, nil
}

func parseJoin(line string) (PlayerAction, error) {
	m := reJoin.FindStringSubmatch(line)
	if m == nil {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}
	seat, err := strconv.Atoi(m[2])
	if err != nil {
		return PlayerAction{}, fmt.Errorf("%w: bad seat in %q", ErrUnrecognizedAction, line)
	}
	return PlayerAction{Name: m[1], Kind: ActionJoin, Seat: seat}, nil
}

// parseAnchored builds a parser for kinds whose actor is everything before a
// fixed anchor phrase ("leaves the table", "has timed out", ...). Names may
// contain spaces and punctuation, so the anchor, not a token split, bounds
// the name.
func parseAnchored(anchor string, kind ActionKind) func(string) (PlayerAction, error) {
	return func(line string) (PlayerAction, error) {
		i := strings.Index(line, anchor)
		if i < 0 {
			return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
		}
		return PlayerAction{Name: strings.TrimSpace(line[:i]), Kind: kind}, nil
	}
}

// parseShow handles showdown lines like
// "IKermit: shows [Ac Kd 8s 8c] (two pair, Aces and Eights)".
func parseShow(line string) (PlayerAction, error) {
	colon := strings.Index(line, ":")
	lb := strings.Index(line, "[")
	rb := strings.Index(line, "]")
	if colon < 0 || lb < 0 || rb < lb {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}
	combo, err := card.ParseCombo(line[lb+1 : rb])
	if err != nil {
		// Duplicate or malformed shown cards are fatal for this field.
		return PlayerAction{}, err
	}
	return PlayerAction{Name: line[:colon], Kind: ActionShow, Cards: &combo}, nil
}

// parsePlayerVerb handles the generic "name: verb [amount]" form. The name is
// the text before the first colon, never a non-digit heuristic: names may
// themselves contain digits or currency-like substrings. The amount is the
// first decimal number after the verb, absent if none ("folds", "checks").
func parsePlayerVerb(line string) (PlayerAction, error) {
	m := rePlayerVerb.FindStringSubmatch(line)
	if m == nil {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}
	kind := verbKind(m[2])
	if kind == ActionUnknown {
		return PlayerAction{}, fmt.Errorf("%w: %q", ErrUnrecognizedAction, line)
	}

	action := PlayerAction{Name: m[1], Kind: kind}
	rest := line[len(m[0]):]
	if num := reFirstDecimal.FindString(rest); num != "" {
		amount, err := decimal.NewFromString(num)
		if err != nil {
			return PlayerAction{}, fmt.Errorf("%w: bad amount in %q", ErrUnrecognizedAction, line)
		}
		action.Amount = &amount
	}
	return action, nil
}

func verbKind(verb string) ActionKind {
	switch verb {
	case "folds", "fold":
		return ActionFold
	case "checks", "check":
		return ActionCheck
	case "calls", "call":
		return ActionCall
	case "bets", "bet":
		return ActionBet
	case "raises", "raise":
		return ActionRaise
	case "posts":
		return ActionPost
	default:
		return ActionUnknown
	}
}
