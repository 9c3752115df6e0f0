package handhistory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"spot-trainer/internal/game"
)

var ErrMalformed = errors.New("malformed_hand_history")

const timeLayout = "2006/01/02 15:04:05"

// easternStamp renders the bracketed ET time with an unpadded 24-hour hour,
// e.g. "2026/03/01 7:04:05".
func easternStamp(t time.Time) string {
	return t.Format("2006/01/02 ") + strconv.Itoa(t.Hour()) + t.Format(":04:05")
}

// Options fixes the site-dependent parts of the text.
type Options struct {
	Site           string
	CurrencySymbol string
	CurrencyCode   string
	TablePrefix    string
}

func (o Options) withDefaults() Options {
	if o.Site == "" {
		o.Site = "PokerStars"
	}
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = "€"
	}
	if o.CurrencyCode == "" {
		o.CurrencyCode = "EUR"
	}
	if o.TablePrefix == "" {
		o.TablePrefix = "Spot"
	}
	return o
}

// Writer renders completed hands as PokerStars cash-game histories.
type Writer struct {
	opts    Options
	eastern *time.Location
}

func NewWriter(opts Options) *Writer {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("ET", -5*3600)
	}
	return &Writer{opts: opts.withDefaults(), eastern: loc}
}

// CheckStartingPot reports whether the pot can be written as a heads-up
// pre-flop: both seats put in the same amount, at least the big blind.
func CheckStartingPot(pot int64, stakes game.Stakes) error {
	if pot%2 != 0 || pot < 2*stakes.BigBlind {
		return fmt.Errorf("%w: %d must be even and at least two big blinds", game.ErrInvalidStartingPot, pot)
	}
	return nil
}

var streetTitles = map[game.Street]string{
	game.StreetFlop:  "Flop",
	game.StreetTurn:  "Turn",
	game.StreetRiver: "River",
}

// Write renders rec. hero is the seat whose hole cards are dealt face up,
// 0 for an observer.
func (w *Writer) Write(rec game.HandRecord, hero int) (string, error) {
	if err := CheckStartingPot(rec.StartingPot, rec.Stakes); err != nil {
		return "", err
	}
	if rec.Button != 1 && rec.Button != 2 {
		return "", fmt.Errorf("%w: button seat %d", ErrMalformed, rec.Button)
	}
	names := [2]string{seatName(rec, 1), seatName(rec, 2)}
	if names[0] == names[1] {
		return "", fmt.Errorf("%w: both seats are named %q", ErrMalformed, names[0])
	}
	name := func(seat int) string { return names[seat-1] }
	money := func(v int64) string { return FormatMoney(w.opts.CurrencySymbol, v) }

	var b strings.Builder
	half := rec.StartingPot / 2
	sb, bb := rec.Button, game.Opponent(rec.Button)

	at := rec.StartedAt
	if at.IsZero() {
		at = time.Now()
	}
	fmt.Fprintf(&b, "%s Hand #%d:  Hold'em No Limit (%s/%s %s) - %s UTC [%s ET]\n",
		w.opts.Site, rec.Number, money(rec.Stakes.SmallBlind), money(rec.Stakes.BigBlind), w.opts.CurrencyCode,
		at.UTC().Format(timeLayout), easternStamp(at.In(w.eastern)))
	fmt.Fprintf(&b, "Table '%s %d' 2-max Seat #%d is the button\n", w.opts.TablePrefix, rec.TableID, rec.Button)
	for _, s := range rec.Seats {
		fmt.Fprintf(&b, "Seat %d: %s (%s in chips)\n", s.ID, name(s.ID), money(s.StartingStack+half))
	}

	// pre-flop was settled outside the table; replay it so that each seat
	// has put in half the starting pot
	allIn := func(seat int) string {
		if rec.Seats[seat-1].StartingStack == 0 {
			return " and is all-in"
		}
		return ""
	}
	bbAllInOnPost := half == rec.Stakes.BigBlind && allIn(bb) != ""
	fmt.Fprintf(&b, "%s: posts small blind %s\n", name(sb), money(rec.Stakes.SmallBlind))
	if bbAllInOnPost {
		fmt.Fprintf(&b, "%s: posts big blind %s and is all-in\n", name(bb), money(rec.Stakes.BigBlind))
	} else {
		fmt.Fprintf(&b, "%s: posts big blind %s\n", name(bb), money(rec.Stakes.BigBlind))
	}
	b.WriteString("*** HOLE CARDS ***\n")
	if hero == 1 || hero == 2 {
		h := rec.Seats[hero-1].Hole
		fmt.Fprintf(&b, "Dealt to %s [%s %s]\n", name(hero), h[0], h[1])
	}
	if half == rec.Stakes.BigBlind {
		if call := rec.Stakes.BigBlind - rec.Stakes.SmallBlind; call > 0 {
			fmt.Fprintf(&b, "%s: calls %s%s\n", name(sb), money(call), allIn(sb))
		} else {
			fmt.Fprintf(&b, "%s: checks\n", name(sb))
		}
		if !bbAllInOnPost {
			fmt.Fprintf(&b, "%s: checks\n", name(bb))
		}
	} else {
		fmt.Fprintf(&b, "%s: raises %s to %s%s\n", name(sb), money(half-rec.Stakes.BigBlind), money(half), allIn(sb))
		fmt.Fprintf(&b, "%s: calls %s%s\n", name(bb), money(half-rec.Stakes.BigBlind), allIn(bb))
	}

	folded := 0
	foldStreet := game.Street("")
	for _, street := range []game.Street{game.StreetFlop, game.StreetTurn, game.StreetRiver} {
		if !w.writeStreetHeader(&b, street, rec.Board) {
			break
		}
		var totals [2]int64
		for _, a := range rec.Actions {
			if a.Street != street {
				continue
			}
			if a.Kind == game.ActionFold {
				folded, foldStreet = a.Seat, street
			}
			b.WriteString(actionLine(name(a.Seat), a, &totals, money))
			b.WriteByte('\n')
		}
	}

	if rec.Uncalled > 0 {
		fmt.Fprintf(&b, "Uncalled bet (%s) returned to %s\n", money(rec.Uncalled), name(rec.UncalledSeat()))
	}
	order := [2]int{bb, sb}
	if rec.Showdown {
		b.WriteString("*** SHOW DOWN ***\n")
		for _, seat := range order {
			s := rec.Seats[seat-1]
			fmt.Fprintf(&b, "%s: shows [%s %s] (%s)\n", name(seat), s.Hole[0], s.Hole[1], s.Value.Description)
		}
	}
	won := func(seat int) int64 {
		if rec.Split {
			return rec.Seats[seat-1].Collected
		}
		if seat != rec.WinnerSeat {
			return 0
		}
		return rec.Seats[seat-1].Collected - rec.Uncalled
	}
	for _, seat := range order {
		if v := won(seat); v > 0 || seat == rec.WinnerSeat {
			fmt.Fprintf(&b, "%s collected %s from pot\n", name(seat), money(v))
		}
	}
	if !rec.Showdown && rec.WinnerSeat != 0 {
		fmt.Fprintf(&b, "%s: doesn't show hand\n", name(rec.WinnerSeat))
	}

	b.WriteString("*** SUMMARY ***\n")
	fmt.Fprintf(&b, "Total pot %s | Rake %s\n", money(rec.Pot-rec.Uncalled), money(rec.Rake))
	if len(rec.Board) > 0 {
		fmt.Fprintf(&b, "Board [%s]\n", strings.Join(game.CardStrings(rec.Board), " "))
	}
	for _, s := range rec.Seats {
		role := " (big blind)"
		if s.ID == rec.Button {
			role = " (button) (small blind)"
		}
		fmt.Fprintf(&b, "Seat %d: %s%s ", s.ID, name(s.ID), role)
		switch {
		case s.ID == folded:
			fmt.Fprintf(&b, "folded on the %s\n", streetTitles[foldStreet])
		case !rec.Showdown:
			fmt.Fprintf(&b, "collected (%s)\n", money(won(s.ID)))
		case rec.Split || s.ID == rec.WinnerSeat:
			fmt.Fprintf(&b, "showed [%s %s] and won (%s) with %s\n", s.Hole[0], s.Hole[1], money(won(s.ID)), s.Value.Description)
		default:
			fmt.Fprintf(&b, "showed [%s %s] and lost with %s\n", s.Hole[0], s.Hole[1], s.Value.Description)
		}
	}
	return b.String(), nil
}

// Join concatenates rendered hands, one blank line between records.
func Join(records []string) string {
	return strings.Join(records, "\n")
}

func seatName(rec game.HandRecord, seat int) string {
	if n := strings.TrimSpace(rec.Seats[seat-1].Name); n != "" {
		return n
	}
	return fmt.Sprintf("Seat%d", seat)
}

func (w *Writer) writeStreetHeader(b *strings.Builder, street game.Street, board []game.Card) bool {
	cards := func(cs []game.Card) string { return strings.Join(game.CardStrings(cs), " ") }
	switch street {
	case game.StreetFlop:
		if len(board) < 3 {
			return false
		}
		fmt.Fprintf(b, "*** FLOP *** [%s]\n", cards(board[:3]))
	case game.StreetTurn:
		if len(board) < 4 {
			return false
		}
		fmt.Fprintf(b, "*** TURN *** [%s] [%s]\n", cards(board[:3]), board[3])
	case game.StreetRiver:
		if len(board) < 5 {
			return false
		}
		fmt.Fprintf(b, "*** RIVER *** [%s] [%s]\n", cards(board[:4]), board[4])
	}
	return true
}

func actionLine(name string, a game.Action, totals *[2]int64, money func(int64) string) string {
	i := a.Seat - 1
	suffix := ""
	if a.AllIn {
		suffix = " and is all-in"
	}
	var line string
	switch a.Kind {
	case game.ActionFold:
		line = name + ": folds"
	case game.ActionCheck:
		line = name + ": checks"
	case game.ActionCall:
		line = fmt.Sprintf("%s: calls %s%s", name, money(a.Amount), suffix)
	case game.ActionBet:
		line = fmt.Sprintf("%s: bets %s%s", name, money(a.Amount), suffix)
	case game.ActionRaise:
		to := totals[i] + a.Amount
		line = fmt.Sprintf("%s: raises %s to %s%s", name, money(to-totals[1-i]), money(to), suffix)
	case game.ActionPostBlind:
		line = fmt.Sprintf("%s: posts %s%s", name, money(a.Amount), suffix)
	default:
		line = fmt.Sprintf("%s: %s", name, a.Kind)
	}
	totals[i] += a.Amount
	return line
}
