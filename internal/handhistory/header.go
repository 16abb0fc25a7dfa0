package handhistory

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	// Embedded zone database so the Eastern-time parse keeps daylight
	// saving on hosts without tzdata installed.
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

// ErrHeaderFormat reports a header line matching none of the known
// sub-grammars. It is fatal for the hand: no partial header is produced.
var ErrHeaderFormat = errors.New("unparseable hand header")

// The header line is one composite pattern with mutually exclusive
// sub-formats: tournament vs. cash, freeroll vs. priced buy-in, dollar
// blinds vs. bare chip blinds. A tournament blind value is textually
// identical to a play-money cash blind value, so the game type is decided
// only by the tournament-id group, never by the blind spelling.
var reHeader = regexp.MustCompile(
	`^PokerStars\s+(?:Hand|Game)\s+#(?P<ident>\d+):\s+` +
		`(?:Tournament\s+#(?P<tournament>\d+),\s+` +
		`(?:(?P<freeroll>Freeroll)|` +
		`\$?(?P<buyin>\d+(?:\.\d+)?)` +
		`(?:\+\$?(?P<fee>\d+(?:\.\d+)?))?` +
		`(?:\s+(?P<currency>[A-Z]+))?` +
		`)\s+)?` +
		`(?P<game>.+?)\s+` +
		`(?P<limit>(?:Pot\s+|No\s+)?Limit)\s+` +
		`(?:-\s+Level\s+(?P<level>\S+)\s+)?` +
		`\((?:(?P<sb>\d+)/(?P<bb>\d+)|` +
		`\$(?P<cashsb>\d+(?:\.\d+)?)/\$(?P<cashbb>\d+(?:\.\d+)?)` +
		`(?:\s+(?P<cashcurrency>\S+))?` +
		`)\)\s+` +
		`-\s+.+?\s+` +
		`\[(?P<date>.+?)\]`)

// HandHeader carries the typed fields of the single header line.
// BuyIn and Rake are meaningful only for tournaments and are zero for a
// freeroll. Currency is empty for play money; MoneyType is derived from
// currency resolution and exposed alongside it, not instead of it.
type HandHeader struct {
	ID              string
	GameType        GameType
	TournamentID    string
	TournamentLevel string
	BuyIn           decimal.Decimal
	Rake            decimal.Decimal
	Currency        Currency
	MoneyType       MoneyType
	SB              decimal.Decimal
	BB              decimal.Decimal
	Limit           Limit
	Variant         GameVariant
	Date            time.Time
}

// headerMatch is the tagged intermediate form of a grammar match: exactly
// one of the mutually exclusive branches must have matched, checked by
// validate rather than left to pattern-engine precedence.
type headerMatch struct {
	ident string
	game  string
	limit string
	level string
	date  string

	tournament *tournamentMatch
	tourBlinds *blindMatch
	cashBlinds *blindMatch
}

type tournamentMatch struct {
	ident    string
	freeroll bool
	buyin    string
	fee      string
	currency string
}

type blindMatch struct {
	sb       string
	bb       string
	currency string
}

func (m *headerMatch) validate() error {
	if m.tourBlinds != nil && m.cashBlinds != nil {
		return fmt.Errorf("%w: both blind branches matched", ErrHeaderFormat)
	}
	if m.tourBlinds == nil && m.cashBlinds == nil {
		return fmt.Errorf("%w: no blind branch matched", ErrHeaderFormat)
	}
	if m.tournament != nil && m.tournament.ident == "" {
		return fmt.Errorf("%w: tournament branch without id", ErrHeaderFormat)
	}
	return nil
}

// parseHeaderLine extracts all header fields in one structural match. Any
// required sub-group failing to match fails the whole parse.
func parseHeaderLine(line string) (HandHeader, error) {
	m := reHeader.FindStringSubmatch(line)
	if m == nil {
		return HandHeader{}, fmt.Errorf("%w: %q", ErrHeaderFormat, line)
	}

	group := func(name string) string {
		for i, n := range reHeader.SubexpNames() {
			if n == name {
				return m[i]
			}
		}
		return ""
	}

	match := headerMatch{
		ident: group("ident"),
		game:  group("game"),
		limit: group("limit"),
		level: group("level"),
		date:  group("date"),
	}
	if id := group("tournament"); id != "" {
		match.tournament = &tournamentMatch{
			ident:    id,
			freeroll: group("freeroll") != "",
			buyin:    group("buyin"),
			fee:      group("fee"),
			currency: group("currency"),
		}
	}
	if sb := group("sb"); sb != "" {
		match.tourBlinds = &blindMatch{sb: sb, bb: group("bb")}
	}
	if sb := group("cashsb"); sb != "" {
		match.cashBlinds = &blindMatch{sb: sb, bb: group("cashbb"), currency: group("cashcurrency")}
	}
	if err := match.validate(); err != nil {
		return HandHeader{}, err
	}

	return match.toHeader()
}

func (m *headerMatch) toHeader() (HandHeader, error) {
	h := HandHeader{ID: m.ident, TournamentLevel: m.level}

	blinds := m.tourBlinds
	if blinds == nil {
		blinds = m.cashBlinds
	}
	var err error
	if h.SB, err = decimal.NewFromString(blinds.sb); err != nil {
		return HandHeader{}, fmt.Errorf("%w: small blind %q", ErrHeaderFormat, blinds.sb)
	}
	if h.BB, err = decimal.NewFromString(blinds.bb); err != nil {
		return HandHeader{}, fmt.Errorf("%w: big blind %q", ErrHeaderFormat, blinds.bb)
	}

	var rawCurrency string
	if t := m.tournament; t != nil {
		h.GameType = GameTypeTournament
		h.TournamentID = t.ident
		rawCurrency = t.currency
		if !t.freeroll {
			if h.BuyIn, err = decimal.NewFromString(t.buyin); err != nil {
				return HandHeader{}, fmt.Errorf("%w: buy-in %q", ErrHeaderFormat, t.buyin)
			}
			if t.fee != "" {
				if h.Rake, err = decimal.NewFromString(t.fee); err != nil {
					return HandHeader{}, fmt.Errorf("%w: rake %q", ErrHeaderFormat, t.fee)
				}
			}
		}
		// Freerolls have no explicit currency marker but pay out in the
		// base real-money currency.
		if t.freeroll && rawCurrency == "" {
			rawCurrency = string(CurrencyUSD)
		}
	} else {
		h.GameType = GameTypeCash
		if m.cashBlinds != nil {
			rawCurrency = m.cashBlinds.currency
		}
	}

	if h.Currency, err = parseCurrency(rawCurrency); err != nil {
		return HandHeader{}, err
	}
	if h.Currency == CurrencyNone {
		h.MoneyType = MoneyPlay
	} else {
		h.MoneyType = MoneyReal
	}

	if h.Variant = parseVariant(m.game); h.Variant == VariantUnknown {
		return HandHeader{}, fmt.Errorf("%w: unknown game %q", ErrHeaderFormat, m.game)
	}
	if h.Limit = parseLimit(m.limit); h.Limit == LimitUnknown {
		return HandHeader{}, fmt.Errorf("%w: unknown limit %q", ErrHeaderFormat, m.limit)
	}

	if h.Date, err = parseETDate(m.date); err != nil {
		return HandHeader{}, fmt.Errorf("%w: bad date %q", ErrHeaderFormat, m.date)
	}

	return h, nil
}

func parseCurrency(s string) (Currency, error) {
	switch s {
	case "":
		return CurrencyNone, nil
	case "USD":
		return CurrencyUSD, nil
	case "EUR":
		return CurrencyEUR, nil
	case "GBP":
		return CurrencyGBP, nil
	case "SC":
		return CurrencyStarsCoin, nil
	default:
		return CurrencyNone, fmt.Errorf("%w: unknown currency %q", ErrHeaderFormat, s)
	}
}

func parseVariant(s string) GameVariant {
	switch s {
	case "Hold'em", "Holdem":
		return VariantHoldem
	case "Omaha":
		return VariantOmaha
	case "Omaha Hi/Lo":
		return VariantOmahaHiLo
	default:
		return VariantUnknown
	}
}

func parseLimit(s string) Limit {
	switch strings.Join(strings.Fields(s), " ") {
	case "No Limit":
		return LimitNo
	case "Pot Limit":
		return LimitPot
	case "Limit":
		return LimitFixed
	default:
		return LimitUnknown
	}
}

const etDateLayout = "2006/01/02 15:04:05"

// The room prints two timestamps: a venue-localized one and a bracketed
// canonical one always in US Eastern time. Only the bracketed one is kept.
var etLocation = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("ET", -5*60*60)
	}
	return loc
})

func parseETDate(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), " ET")
	// Hours may be printed without a leading zero ("2016/04/27 1:17:16").
	if i := strings.IndexByte(s, ' '); i > 0 && len(s) > i+1 {
		clock := s[i+1:]
		if j := strings.IndexByte(clock, ':'); j == 1 {
			s = s[:i+1] + "0" + clock
		}
	}
	return time.ParseInLocation(etDateLayout, s, etLocation())
}
