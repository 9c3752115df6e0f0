package handhistory

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"spot-trainer/internal/game"
)

func cards(t *testing.T, s string) []game.Card {
	t.Helper()
	cs, err := game.ParseCards(s)
	if err != nil {
		t.Fatalf("ParseCards(%q): %v", s, err)
	}
	return cs
}

func deal(t *testing.T, hole1, hole2, board string) game.Deal {
	t.Helper()
	var d game.Deal
	h1, h2, b := cards(t, hole1), cards(t, hole2), cards(t, board)
	copy(d.Hole[0][:], h1)
	copy(d.Hole[1][:], h2)
	copy(d.Board[:], b)
	return d
}

func newTable(t *testing.T, stacks [2]int64, pot int64, d game.Deal) *game.Table {
	t.Helper()
	tbl, err := game.NewTable(
		game.TableConfig{ID: 3, ButtonSeat: 2, Stakes: game.Stakes{SmallBlind: 50, BigBlind: 100}, Rake: game.RakeSpec{Percentage: 5, Cap: 300}},
		[2]game.SeatSetup{{Name: "Hero", Stack: stacks[0]}, {Name: "Villain", Stack: stacks[1]}},
		game.HandStart{Number: 1001, StartingPot: pot, Deal: d, At: time.Date(2026, 3, 1, 17, 4, 5, 0, time.UTC)},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func play(t *testing.T, tbl *game.Table, steps ...any) {
	t.Helper()
	for i := 0; i < len(steps); i += 3 {
		seat, kind, amount := steps[i].(int), steps[i+1].(game.ActionKind), steps[i+2].(int)
		if _, err := tbl.Apply(seat, kind, int64(amount)); err != nil {
			t.Fatalf("seat %d %s %d: %v", seat, kind, amount, err)
		}
	}
}

func record(t *testing.T, tbl *game.Table) game.HandRecord {
	t.Helper()
	rec, ok := tbl.Record()
	if !ok {
		t.Fatalf("hand not complete")
	}
	return rec
}

func TestWriteFoldedHand(t *testing.T) {
	tbl := newTable(t, [2]int64{10000, 10000}, 200, deal(t, "Ah Kd", "Qs Qd", "Kc 9s 5h 2d 2c"))
	play(t, tbl,
		1, game.ActionBet, 150,
		2, game.ActionCall, 0,
		1, game.ActionCheck, 0,
		2, game.ActionBet, 400,
		1, game.ActionFold, 0,
	)
	got, err := NewWriter(Options{}).Write(record(t, tbl), 1)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `PokerStars Hand #1001:  Hold'em No Limit (€0.50/€1 EUR) - 2026/03/01 17:04:05 UTC [2026/03/01 12:04:05 ET]
Table 'Spot 3' 2-max Seat #2 is the button
Seat 1: Hero (€101 in chips)
Seat 2: Villain (€101 in chips)
Villain: posts small blind €0.50
Hero: posts big blind €1
*** HOLE CARDS ***
Dealt to Hero [Ah Kd]
Villain: calls €0.50
Hero: checks
*** FLOP *** [Kc 9s 5h]
Hero: bets €1.50
Villain: calls €1.50
*** TURN *** [Kc 9s 5h] [2d]
Hero: checks
Villain: bets €4
Hero: folds
Uncalled bet (€4) returned to Villain
Villain collected €4.75 from pot
Villain: doesn't show hand
*** SUMMARY ***
Total pot €5 | Rake €0.25
Board [Kc 9s 5h 2d]
Seat 1: Hero (big blind) folded on the Turn
Seat 2: Villain (button) (small blind) collected (€4.75)
`
	if got != want {
		t.Fatalf("hand history mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestWriteShowdownAfterAllIn(t *testing.T) {
	tbl := newTable(t, [2]int64{30000, 95000}, 1000, deal(t, "Ah Kd", "Qs Qd", "Kc 9s 5h 2d 2c"))
	play(t, tbl,
		1, game.ActionBet, 30000,
		2, game.ActionCall, 0,
	)
	got, err := NewWriter(Options{CurrencySymbol: "$", CurrencyCode: "USD"}).Write(record(t, tbl), 2)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, line := range []string{
		"Villain: raises $4 to $5",
		"Hero: calls $4",
		"Dealt to Villain [Qs Qd]",
		"Hero: bets $300 and is all-in",
		"Villain: calls $300",
		"*** RIVER *** [Kc 9s 5h 2d] [2c]",
		"*** SHOW DOWN ***",
		"Hero: shows [Ah Kd] (two pair, Kings and Deuces)",
		"Villain: shows [Qs Qd] (two pair, Queens and Deuces)",
		"Hero collected $607 from pot",
		"Total pot $610 | Rake $3",
		"Seat 1: Hero (big blind) showed [Ah Kd] and won ($607) with two pair, Kings and Deuces",
		"Seat 2: Villain (button) (small blind) showed [Qs Qd] and lost with two pair, Queens and Deuces",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Fatalf("missing line %q in\n%s", line, got)
		}
	}
	if strings.Contains(got, "Dealt to Hero") {
		t.Fatalf("hero perspective leaked the other seat's hole cards")
	}
}

func TestWriteEasternHourIsUnpadded(t *testing.T) {
	tbl := newTable(t, [2]int64{10000, 10000}, 200, deal(t, "Ah Kd", "Qs Qd", "Kc 9s 5h 2d 2c"))
	play(t, tbl, 1, game.ActionBet, 150, 2, game.ActionFold, 0)
	rec := record(t, tbl)
	cases := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, 3, 1, 12, 4, 5, 0, time.UTC), "- 2026/03/01 12:04:05 UTC [2026/03/01 7:04:05 ET]\n"},
		{time.Date(2026, 3, 1, 4, 30, 0, 0, time.UTC), "- 2026/03/01 04:30:00 UTC [2026/02/28 23:30:00 ET]\n"},
		{time.Date(2026, 7, 1, 4, 0, 9, 0, time.UTC), "- 2026/07/01 04:00:09 UTC [2026/07/01 0:00:09 ET]\n"},
	}
	for _, tc := range cases {
		rec.StartedAt = tc.at
		got, err := NewWriter(Options{}).Write(rec, 1)
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		header, _, _ := strings.Cut(got, "\n")
		if !strings.HasSuffix(header+"\n", tc.want) {
			t.Fatalf("header = %q, want suffix %q", header, tc.want)
		}
	}
}

func TestWriteRejectsOddStartingPot(t *testing.T) {
	tbl := newTable(t, [2]int64{1000, 1000}, 201, deal(t, "Ah Kd", "Qs Qd", "Kc 9s 5h 2d 2c"))
	play(t, tbl, 1, game.ActionBet, 100, 2, game.ActionFold, 0)
	if _, err := NewWriter(Options{}).Write(record(t, tbl), 0); !errors.Is(err, game.ErrInvalidStartingPot) {
		t.Fatalf("expected invalid_starting_pot, got %v", err)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{0: "€0", 5: "€0.05", 50: "€0.50", 100: "€1", 12345: "€123.45", 300: "€3"}
	for cents, want := range cases {
		if got := FormatMoney("€", cents); got != want {
			t.Fatalf("FormatMoney(%d) = %q, want %q", cents, got, want)
		}
		back, err := ParseMoney(want)
		if err != nil || back != cents {
			t.Fatalf("ParseMoney(%q) = %d, %v", want, back, err)
		}
	}
	if _, err := ParseMoney("€"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected malformed, got %v", err)
	}
}

// TestRoundTrip plays random hands and checks that the parsed history
// reproduces pot, rake, board and every street action.
func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	w := NewWriter(Options{})
	var texts []string
	var recs []game.HandRecord
	for hand := 0; hand < 300; hand++ {
		deck := game.FullDeck()
		rnd.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		var d game.Deal
		d.Hole = [2][2]game.Card{{deck[0], deck[1]}, {deck[2], deck[3]}}
		copy(d.Board[:], deck[4:9])
		stacks := [2]int64{rnd.Int63n(20000), rnd.Int63n(20000)}
		pot := 200 + 2*rnd.Int63n(1000)
		tbl := newTable(t, stacks, pot, d)
		for steps := 0; !tbl.Complete && steps < 100; steps++ {
			seat := tbl.ToAct
			legal := tbl.Ledger().Legal(seat)
			switch r := rnd.Intn(10); {
			case r == 0:
				play(t, tbl, seat, game.ActionFold, 0)
			case r < 5 && legal.CanCheck:
				play(t, tbl, seat, game.ActionCheck, 0)
			case r < 5:
				play(t, tbl, seat, game.ActionCall, 0)
			case legal.CanBet:
				play(t, tbl, seat, game.ActionBet, int(legal.MinWager+rnd.Int63n(legal.MaxWager-legal.MinWager+1)))
			case legal.CanRaise:
				play(t, tbl, seat, game.ActionRaise, int(legal.MinWager+rnd.Int63n(legal.MaxWager-legal.MinWager+1)))
			case legal.CanCheck:
				play(t, tbl, seat, game.ActionCheck, 0)
			default:
				play(t, tbl, seat, game.ActionCall, 0)
			}
		}
		rec := record(t, tbl)
		text, err := w.Write(rec, 1+hand%2)
		if err != nil {
			t.Fatalf("hand %d: Write: %v", hand, err)
		}
		texts = append(texts, text)
		recs = append(recs, rec)
	}

	parsed, err := ParseAll(Join(texts))
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(parsed) != len(recs) {
		t.Fatalf("parsed %d records, wrote %d", len(parsed), len(recs))
	}
	for i, p := range parsed {
		rec := recs[i]
		if p.HandNumber != rec.Number || p.Button != rec.Button {
			t.Fatalf("hand %d: header mismatch %+v", i, p)
		}
		if p.StartingPot != rec.StartingPot {
			t.Fatalf("hand %d: starting pot %d, want %d", i, p.StartingPot, rec.StartingPot)
		}
		if p.Pot() != rec.Pot || p.TotalPot != rec.Pot-rec.Uncalled || p.Uncalled != rec.Uncalled {
			t.Fatalf("hand %d: pot %d/%d/%d, want %d/%d", i, p.Pot(), p.TotalPot, p.Uncalled, rec.Pot, rec.Uncalled)
		}
		if p.Rake != rec.Rake {
			t.Fatalf("hand %d: rake %d, want %d", i, p.Rake, rec.Rake)
		}
		if strings.Join(game.CardStrings(p.Board), " ") != strings.Join(game.CardStrings(rec.Board), " ") {
			t.Fatalf("hand %d: board %v, want %v", i, p.Board, rec.Board)
		}
		var post []ParsedAction
		for _, a := range p.Actions {
			if a.Street != game.StreetPreFlop {
				post = append(post, a)
			}
		}
		if len(post) != len(rec.Actions) {
			t.Fatalf("hand %d: %d actions, want %d", i, len(post), len(rec.Actions))
		}
		for j, a := range rec.Actions {
			got := post[j]
			if got.Seat != a.Seat || got.Street != a.Street || got.Kind != a.Kind || got.Amount != a.Amount || got.AllIn != a.AllIn {
				t.Fatalf("hand %d action %d: got %+v, want %+v", i, j, got, a)
			}
		}
		for j, s := range p.Seats {
			if s.Stack != rec.Seats[j].StartingStack+rec.StartingPot/2 {
				t.Fatalf("hand %d seat %d: stack %d", i, s.ID, s.Stack)
			}
		}
	}
}
