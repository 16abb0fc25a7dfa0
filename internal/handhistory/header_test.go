package handhistory

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseHeaderTournament(t *testing.T) {
	line := "PokerStars Hand #105024000105: Tournament #797469411, $3.19+$0.31 USD Hold'em No Limit - Level I (10/20) - 2013/10/04 19:53:27 CET [2013/10/04 13:53:27 ET]"

	h, err := parseHeaderLine(line)
	if err != nil {
		t.Fatalf("parseHeaderLine error: %v", err)
	}

	if h.ID != "105024000105" {
		t.Errorf("ID = %q, want 105024000105", h.ID)
	}
	if h.GameType != GameTypeTournament {
		t.Errorf("GameType = %v, want tournament", h.GameType)
	}
	if h.TournamentID != "797469411" {
		t.Errorf("TournamentID = %q, want 797469411", h.TournamentID)
	}
	if h.TournamentLevel != "I" {
		t.Errorf("TournamentLevel = %q, want I", h.TournamentLevel)
	}
	if !h.BuyIn.Equal(decimal.RequireFromString("3.19")) {
		t.Errorf("BuyIn = %v, want 3.19", h.BuyIn)
	}
	if !h.Rake.Equal(decimal.RequireFromString("0.31")) {
		t.Errorf("Rake = %v, want 0.31", h.Rake)
	}
	if h.Currency != CurrencyUSD {
		t.Errorf("Currency = %q, want USD", h.Currency)
	}
	if h.MoneyType != MoneyReal {
		t.Errorf("MoneyType = %v, want real", h.MoneyType)
	}
	if !h.SB.Equal(decimal.NewFromInt(10)) || !h.BB.Equal(decimal.NewFromInt(20)) {
		t.Errorf("blinds = %v/%v, want 10/20", h.SB, h.BB)
	}
	if h.Limit != LimitNo {
		t.Errorf("Limit = %v, want No Limit", h.Limit)
	}
	if h.Variant != VariantHoldem {
		t.Errorf("Variant = %v, want Hold'em", h.Variant)
	}

	want := time.Date(2013, 10, 4, 13, 53, 27, 0, etLocation())
	if !h.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", h.Date, want)
	}
}

func TestParseHeaderFreeroll(t *testing.T) {
	line := "PokerStars Hand #107578730286: Tournament #980121525, Freeroll  Hold'em No Limit - Level I (10/20) - 2013/12/31 23:59:59 CET [2013/12/31 17:59:59 ET]"

	h, err := parseHeaderLine(line)
	if err != nil {
		t.Fatalf("parseHeaderLine error: %v", err)
	}

	if h.GameType != GameTypeTournament {
		t.Errorf("GameType = %v, want tournament", h.GameType)
	}
	if !h.BuyIn.IsZero() || !h.Rake.IsZero() {
		t.Errorf("freeroll buy-in/rake = %v/%v, want 0/0", h.BuyIn, h.Rake)
	}
	if h.Currency != CurrencyUSD {
		t.Errorf("Currency = %q, want USD for freeroll", h.Currency)
	}
	if h.MoneyType != MoneyReal {
		t.Errorf("MoneyType = %v, want real", h.MoneyType)
	}
}

func TestParseHeaderCash(t *testing.T) {
	line := "PokerStars Hand #164114234671: Hold'em No Limit ($0.50/$1.00 USD) - 2016/12/01 00:59:00 CET [2016/11/30 18:59:00 ET]"

	h, err := parseHeaderLine(line)
	if err != nil {
		t.Fatalf("parseHeaderLine error: %v", err)
	}

	if h.GameType != GameTypeCash {
		t.Errorf("GameType = %v, want cash", h.GameType)
	}
	if h.TournamentID != "" {
		t.Errorf("TournamentID = %q, want empty", h.TournamentID)
	}
	if !h.SB.Equal(decimal.RequireFromString("0.50")) || !h.BB.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("blinds = %v/%v, want 0.50/1.00", h.SB, h.BB)
	}
	if h.Currency != CurrencyUSD {
		t.Errorf("Currency = %q, want USD", h.Currency)
	}
	if h.MoneyType != MoneyReal {
		t.Errorf("MoneyType = %v, want real", h.MoneyType)
	}
}

// A play-money cash header spells its blinds exactly like tournament blinds;
// game type must come from the tournament group alone.
func TestParseHeaderPlayMoneyCash(t *testing.T) {
	line := "PokerStars Hand #135456120216: Hold'em No Limit (10/20) - 2015/05/01 12:00:00 CET [2015/05/01 6:00:00 ET]"

	h, err := parseHeaderLine(line)
	if err != nil {
		t.Fatalf("parseHeaderLine error: %v", err)
	}

	if h.GameType != GameTypeCash {
		t.Errorf("GameType = %v, want cash", h.GameType)
	}
	if h.Currency != CurrencyNone {
		t.Errorf("Currency = %q, want empty", h.Currency)
	}
	if h.MoneyType != MoneyPlay {
		t.Errorf("MoneyType = %v, want play", h.MoneyType)
	}
	if !h.SB.Equal(decimal.NewFromInt(10)) || !h.BB.Equal(decimal.NewFromInt(20)) {
		t.Errorf("blinds = %v/%v, want 10/20", h.SB, h.BB)
	}

	// The single-digit hour must round-trip.
	want := time.Date(2015, 5, 1, 6, 0, 0, 0, etLocation())
	if !h.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", h.Date, want)
	}
}

func TestParseHeaderStarsCoin(t *testing.T) {
	line := "PokerStars Hand #229136666727: Tournament #3243323232, 700+70 SC Omaha Pot Limit - Level V (30/60) - 2021/07/01 21:00:00 CET [2021/07/01 15:00:00 ET]"

	h, err := parseHeaderLine(line)
	if err != nil {
		t.Fatalf("parseHeaderLine error: %v", err)
	}

	if h.Currency != CurrencyStarsCoin {
		t.Errorf("Currency = %q, want SC", h.Currency)
	}
	if !h.BuyIn.Equal(decimal.NewFromInt(700)) || !h.Rake.Equal(decimal.NewFromInt(70)) {
		t.Errorf("buy-in/rake = %v/%v, want 700/70", h.BuyIn, h.Rake)
	}
	if h.Variant != VariantOmaha {
		t.Errorf("Variant = %v, want Omaha", h.Variant)
	}
	if h.Limit != LimitPot {
		t.Errorf("Limit = %v, want Pot Limit", h.Limit)
	}
	if h.TournamentLevel != "V" {
		t.Errorf("TournamentLevel = %q, want V", h.TournamentLevel)
	}
}

func TestParseHeaderGameKeyword(t *testing.T) {
	// Older histories say "Game" instead of "Hand".
	line := "PokerStars Game #105024000105: Tournament #797469411, $3.19+$0.31 USD Hold'em No Limit - Level I (10/20) - 2013/10/04 19:53:27 CET [2013/10/04 13:53:27 ET]"
	if _, err := parseHeaderLine(line); err != nil {
		t.Errorf("parseHeaderLine error: %v", err)
	}
}

// The bracketed timestamp follows US Eastern daylight saving, so a summer
// stamp carries a -4h offset and a winter stamp -5h regardless of the
// host's zone database.
func TestParseETDateDaylightSaving(t *testing.T) {
	tests := []struct {
		in         string
		wantOffset int
	}{
		{"2021/07/01 15:00:00 ET", -4 * 60 * 60},
		{"2021/01/15 15:00:00 ET", -5 * 60 * 60},
	}
	for _, tt := range tests {
		got, err := parseETDate(tt.in)
		if err != nil {
			t.Fatalf("parseETDate(%q) error: %v", tt.in, err)
		}
		if _, off := got.Zone(); off != tt.wantOffset {
			t.Errorf("parseETDate(%q) offset = %d, want %d", tt.in, off, tt.wantOffset)
		}
	}
}

func TestParseHeaderInvalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"not a header", "Table '797469411 15' 9-max Seat #1 is the button"},
		{"missing blinds", "PokerStars Hand #105024000105: Hold'em No Limit - 2013/10/04 19:53:27 CET [2013/10/04 13:53:27 ET]"},
		{"missing date", "PokerStars Hand #105024000105: Hold'em No Limit ($0.50/$1.00 USD)"},
		{"unknown game", "PokerStars Hand #105024000105: Badugi No Limit ($0.50/$1.00 USD) - 2013/10/04 19:53:27 CET [2013/10/04 13:53:27 ET]"},
		{"unknown currency", "PokerStars Hand #105024000105: Hold'em No Limit ($0.50/$1.00 XYZ) - 2013/10/04 19:53:27 CET [2013/10/04 13:53:27 ET]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseHeaderLine(tt.line); !errors.Is(err, ErrHeaderFormat) {
				t.Errorf("parseHeaderLine(%q) error = %v, want ErrHeaderFormat", tt.line, err)
			}
		})
	}
}
