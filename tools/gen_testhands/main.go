// gen_testhands generates synthetic PokerStars hand-history files for
// testing the parser and the import pipeline against large inputs.
//
// Each generated hand is structurally valid: header, table and seat lines,
// blind posts, a preflop round that either folds out or reaches a flop with
// one bet, and a summary with pot, rake and winner recap.
//
// Usage:
//
//	go run ./tools/gen_testhands [flags]
//
// Flags:
//
//	--output  file to write (default: "./testdata/generated_hands.txt")
//	--hands   number of hands to generate (default: 1000)
//	--seed    random seed; 0 = use current time (default: 0)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var namePool = []string{
	"W2lkm2n", "flettl2", "santy312", "flavio766", "strongi82",
	"MISTRPerfect", "blak_douglas", "sinus91", "STBIJUJA", "IKermit",
	"marchis23", "Gerbi11", "Mt.Fishtoes", "Dendii83", "sloppy_joe",
}

var ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "A"}
var suits = []string{"c", "d", "h", "s"}

func main() {
	var (
		output = flag.String("output", "./testdata/generated_hands.txt", "file to write")
		hands  = flag.Int("hands", 1000, "number of hands to generate")
		seed   = flag.Int64("seed", 0, "random seed; 0 = use current time")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < *hands; i++ {
		writeHand(w, rng, int64(100000000000+i), base.Add(time.Duration(i)*90*time.Second))
		fmt.Fprint(w, "\n\n")
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d hands to %s (seed %d)\n", *hands, *output, *seed)
}

// deck deals distinct cards for one hand.
type deck struct {
	rng   *rand.Rand
	dealt map[string]bool
}

func newDeck(rng *rand.Rand) *deck {
	return &deck{rng: rng, dealt: make(map[string]bool)}
}

func (d *deck) draw() string {
	for {
		c := ranks[d.rng.Intn(len(ranks))] + suits[d.rng.Intn(len(suits))]
		if !d.dealt[c] {
			d.dealt[c] = true
			return c
		}
	}
}

func (d *deck) drawN(n int) []string {
	cards := make([]string, n)
	for i := range cards {
		cards[i] = d.draw()
	}
	return cards
}

func writeHand(w *bufio.Writer, rng *rand.Rand, id int64, at time.Time) {
	maxPlayers := 9
	nPlayers := 3 + rng.Intn(6)
	players := pickPlayers(rng, nPlayers)
	seats := pickSeats(rng, maxPlayers, nPlayers)
	button := seats[rng.Intn(len(seats))]
	sbIdx, bbIdx := 0, 1
	dk := newDeck(rng)

	stamp := at.Format("2006/01/02 15:04:05")
	fmt.Fprintf(w, "PokerStars Hand #%d: Tournament #%d, $0.91+$0.09 USD Hold'em No Limit - Level I (10/20) - %s CET [%s ET]\n",
		id, id/1000, stamp, stamp)
	fmt.Fprintf(w, "Table '%d 1' %d-max Seat #%d is the button\n", id/1000, maxPlayers, button)
	for i, name := range players {
		fmt.Fprintf(w, "Seat %d: %s (%d in chips)\n", seats[i], name, 1500+rng.Intn(3000))
	}
	fmt.Fprintf(w, "%s: posts small blind 10\n", players[sbIdx])
	fmt.Fprintf(w, "%s: posts big blind 20\n", players[bbIdx])

	fmt.Fprintln(w, "*** HOLE CARDS ***")
	hero := players[rng.Intn(len(players))]
	heroCards := dk.drawN(2)
	fmt.Fprintf(w, "Dealt to %s [%s %s]\n", hero, heroCards[0], heroCards[1])

	aggressor := players[rng.Intn(len(players))]
	for _, name := range players {
		if name == aggressor {
			fmt.Fprintf(w, "%s: raises 40 to 60\n", name)
		} else {
			fmt.Fprintf(w, "%s: folds\n", name)
		}
	}

	pot := 30 + 60
	sawFlop := rng.Intn(3) == 0
	var board []string
	if sawFlop {
		board = dk.drawN(3)
		fmt.Fprintf(w, "*** FLOP *** [%s]\n", strings.Join(board, " "))
		fmt.Fprintf(w, "%s: bets 80\n", aggressor)
		fmt.Fprintf(w, "Uncalled bet (80) returned to %s\n", aggressor)
	}
	fmt.Fprintf(w, "%s collected %d from pot\n", aggressor, pot)
	fmt.Fprintf(w, "%s: doesn't show hand\n", aggressor)

	fmt.Fprintln(w, "*** SUMMARY ***")
	fmt.Fprintf(w, "Total pot %d | Rake 0\n", pot)
	if sawFlop {
		fmt.Fprintf(w, "Board [%s]\n", strings.Join(board, " "))
	}
	for i, name := range players {
		if name == aggressor {
			fmt.Fprintf(w, "Seat %d: %s collected (%d)\n", seats[i], name, pot)
		} else {
			fmt.Fprintf(w, "Seat %d: %s folded before Flop\n", seats[i], name)
		}
	}
}

func pickPlayers(rng *rand.Rand, n int) []string {
	idx := rng.Perm(len(namePool))[:n]
	players := make([]string, n)
	for i, j := range idx {
		players[i] = namePool[j]
	}
	return players
}

func pickSeats(rng *rand.Rand, maxPlayers, n int) []int {
	seats := rng.Perm(maxPlayers)[:n]
	for i := range seats {
		seats[i]++
	}
	// Seat lines appear in ascending order in real histories.
	for i := 1; i < len(seats); i++ {
		for j := i; j > 0 && seats[j] < seats[j-1]; j-- {
			seats[j], seats[j-1] = seats[j-1], seats[j]
		}
	}
	return seats
}
