package game

import (
	"fmt"
	"time"
)

// Table is the heads-up state machine for one table. It is not safe for
// concurrent use; callers serialize access per table.
type Table struct {
	ID          int
	HandNumber  int64
	StartedAt   time.Time
	Button      int
	Stakes      Stakes
	RakeSpec    RakeSpec
	Seats       [2]*Seat
	StartingPot int64
	Pot         int64
	Street      Street
	ToAct       int
	Complete    bool

	board     [5]Card
	revealed  int
	log       []Action
	winner    int
	split     bool
	showdown  bool
	uncalled  int64
	rake      int64
	collected [2]int64
	values    [2]HandValue
}

// NewTable seats both players and deals the first hand.
func NewTable(cfg TableConfig, seats [2]SeatSetup, start HandStart) (*Table, error) {
	if err := cfg.Stakes.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Rake.Validate(); err != nil {
		return nil, err
	}
	button := cfg.ButtonSeat
	if button != 1 && button != 2 {
		button = 2
	}
	t := &Table{
		ID:       cfg.ID,
		Button:   button,
		Stakes:   cfg.Stakes,
		RakeSpec: cfg.Rake,
	}
	for i, s := range seats {
		if s.Stack < 0 {
			return nil, fmt.Errorf("%w: seat %d", ErrInvalidStack, i+1)
		}
		t.Seats[i] = &Seat{ID: i + 1, Name: s.Name, Stack: s.Stack}
	}
	if err := t.startHand(start); err != nil {
		return nil, err
	}
	return t, nil
}

// NewHand re-deals a completed table in place. Stacks carry over.
func (t *Table) NewHand(start HandStart) error {
	if !t.Complete {
		return ErrHandInProgress
	}
	return t.startHand(start)
}

func (t *Table) startHand(start HandStart) error {
	if err := start.Deal.Validate(); err != nil {
		return err
	}
	if start.StartingPot < 0 {
		return ErrInvalidStartingPot
	}
	t.HandNumber = start.Number
	t.StartedAt = start.At
	t.StartingPot = start.StartingPot
	t.Pot = start.StartingPot
	t.board = start.Deal.Board
	t.log = nil
	t.winner, t.split, t.showdown = 0, false, false
	t.uncalled, t.rake = 0, 0
	t.collected = [2]int64{}
	t.values = [2]HandValue{}
	for i, s := range t.Seats {
		s.StartingStack = s.Stack
		s.Hole = start.Deal.Hole[i]
		s.Actions = nil
	}
	t.Complete = false
	t.enterStreet(StreetFlop)
	if t.Seats[0].Stack == 0 || t.Seats[1].Stack == 0 {
		t.runOut()
	}
	return nil
}

// Board returns the cards revealed so far.
func (t *Table) Board() []Card {
	return append([]Card{}, t.board[:t.revealed]...)
}

// Log returns the chronological action log of the current hand.
func (t *Table) Log() []Action {
	return append([]Action{}, t.log...)
}

// Seat returns the seat with the given id (1 or 2).
func (t *Table) Seat(id int) (*Seat, error) {
	if id < 1 || id > 2 {
		return nil, ErrUnknownSeat
	}
	return t.Seats[id-1], nil
}

func (t *Table) NonButton() int {
	return Opponent(t.Button)
}

// Ledger is the betting ledger of the current street.
func (t *Table) Ledger() Ledger {
	street := make([]Action, 0, 8)
	for _, a := range t.log {
		if a.Street == t.Street {
			street = append(street, a)
		}
	}
	return NewLedger(street, [2]int64{t.Seats[0].Stack, t.Seats[1].Stack})
}

// Apply validates and applies one action for seat. A rejected action
// leaves the table untouched.
func (t *Table) Apply(seat int, kind ActionKind, amount int64) (Outcome, error) {
	if t.Complete {
		return Outcome{}, ErrHandComplete
	}
	s, err := t.Seat(seat)
	if err != nil {
		return Outcome{}, err
	}
	if seat != t.ToAct {
		return Outcome{}, ErrNotYourTurn
	}
	ledger := t.Ledger()
	paid, err := ledger.Effective(seat, kind, amount)
	if err != nil {
		return Outcome{}, err
	}

	s.Stack -= paid
	t.Pot += paid
	a := Action{
		Seq:    len(t.log) + 1,
		Seat:   seat,
		Street: t.Street,
		Kind:   kind,
		Amount: paid,
		AllIn:  paid > 0 && s.Stack == 0,
	}
	t.log = append(t.log, a)
	s.Actions = append(s.Actions, a)
	out := Outcome{Action: a, Street: t.Street}

	if kind == ActionFold {
		opp := Opponent(seat)
		if diff := ledger.StreetTotal(opp) - ledger.StreetTotal(seat); diff > 0 {
			t.uncalled = diff
		}
		t.finish(opp, false)
		out.HandComplete = true
		return out, nil
	}

	if !t.Ledger().StreetComplete() {
		t.ToAct = Opponent(seat)
		return out, nil
	}
	switch {
	case t.Street == StreetRiver:
		t.showdownNow()
	case t.Seats[0].Stack == 0 || t.Seats[1].Stack == 0:
		t.runOut()
	default:
		t.enterStreet(t.Street.next())
		out.StreetAdvanced = true
	}
	out.Street = t.Street
	out.HandComplete = t.Complete
	return out, nil
}

func (t *Table) enterStreet(s Street) {
	t.Street = s
	t.revealed = s.boardCount()
	t.ToAct = t.NonButton()
}

// runOut deals the remaining streets without betting and goes to showdown.
func (t *Table) runOut() {
	for t.Street != StreetRiver {
		t.enterStreet(t.Street.next())
	}
	t.showdownNow()
}

func (t *Table) showdownNow() {
	t.revealed = 5
	board := t.board[:]
	t.values[0] = Evaluate(t.Seats[0].Hole, board)
	t.values[1] = Evaluate(t.Seats[1].Hole, board)
	switch Compare(t.values[0], t.values[1]) {
	case 1:
		t.finish(1, true)
	case -1:
		t.finish(2, true)
	default:
		t.finish(0, true)
	}
}

// finish settles the pot. winner 0 means a split.
func (t *Table) finish(winner int, showdown bool) {
	t.Complete = true
	t.ToAct = 0
	t.showdown = showdown
	t.winner = winner
	t.split = winner == 0
	t.rake = t.RakeSpec.Rake(t.Pot - t.uncalled)
	net := t.Pot - t.rake
	if t.split {
		half := net / 2
		first := t.NonButton() - 1
		t.collected[first] = net - half
		t.collected[1-first] = half
	} else {
		t.collected[winner-1] = net
	}
	for i, s := range t.Seats {
		s.Stack += t.collected[i]
	}
}

// Winner returns the winning seat, or 0 with split=true for a chopped pot.
// Both are zero while the hand is running.
func (t *Table) Winner() (seat int, split bool) {
	return t.winner, t.split
}

func (t *Table) Rake() int64 { return t.rake }

func (t *Table) Uncalled() int64 { return t.uncalled }
