package game

import "time"

type ActionKind string

const (
	ActionPostBlind ActionKind = "post_blind"
	ActionFold      ActionKind = "fold"
	ActionCheck     ActionKind = "check"
	ActionCall      ActionKind = "call"
	ActionBet       ActionKind = "bet"
	ActionRaise     ActionKind = "raise"
)

type Street string

const (
	StreetPreFlop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
)

// boardCount is how many board cards are visible once the street is reached.
func (s Street) boardCount() int {
	switch s {
	case StreetFlop:
		return 3
	case StreetTurn:
		return 4
	case StreetRiver:
		return 5
	}
	return 0
}

func (s Street) next() Street {
	switch s {
	case StreetFlop:
		return StreetTurn
	case StreetTurn:
		return StreetRiver
	}
	return s
}

// Action is one entry of the hand log. Amount is the chips added by this
// action alone.
type Action struct {
	Seq    int        `json:"seq"`
	Seat   int        `json:"seat"`
	Street Street     `json:"street"`
	Kind   ActionKind `json:"kind"`
	Amount int64      `json:"amount"`
	AllIn  bool       `json:"all_in,omitempty"`
}

type Stakes struct {
	SmallBlind int64 `json:"small_blind"`
	BigBlind   int64 `json:"big_blind"`
}

func (s Stakes) Validate() error {
	if s.SmallBlind <= 0 || s.BigBlind < s.SmallBlind {
		return ErrInvalidStakes
	}
	return nil
}

// Deal is the full set of cards for one hand.
type Deal struct {
	Hole  [2][2]Card
	Board [5]Card
}

func (d Deal) Cards() []Card {
	out := make([]Card, 0, 9)
	out = append(out, d.Hole[0][0], d.Hole[0][1], d.Hole[1][0], d.Hole[1][1])
	out = append(out, d.Board[:]...)
	return out
}

func (d Deal) Validate() error {
	cards := d.Cards()
	for _, c := range cards {
		if !c.Valid() {
			return ErrInvalidCard
		}
	}
	if !Distinct(cards...) {
		return ErrDuplicateCard
	}
	return nil
}

type Seat struct {
	ID            int
	Name          string
	StartingStack int64
	Stack         int64
	Hole          [2]Card
	Actions       []Action
}

type SeatSetup struct {
	Name  string
	Stack int64
}

type TableConfig struct {
	ID         int
	ButtonSeat int
	Stakes     Stakes
	Rake       RakeSpec
}

// HandStart carries everything a fresh hand needs from outside the engine.
type HandStart struct {
	Number      int64
	StartingPot int64
	Deal        Deal
	At          time.Time
}

// Outcome reports what an accepted action did to the table.
type Outcome struct {
	Action         Action `json:"action"`
	StreetAdvanced bool   `json:"street_advanced"`
	Street         Street `json:"street"`
	HandComplete   bool   `json:"hand_complete"`
}

type SeatView struct {
	SeatID        int      `json:"seat_id"`
	Name          string   `json:"name"`
	StartingStack int64    `json:"starting_stack"`
	Stack         int64    `json:"stack"`
	StreetTotal   int64    `json:"street_total"`
	HoleCards     []string `json:"hole_cards,omitempty"`
	Connected     bool     `json:"connected"`
	AllIn         bool     `json:"all_in"`
	LastAction    string   `json:"last_action,omitempty"`
	Actions       []Action `json:"actions"`
}

type ResultView struct {
	WinnerSeat   int       `json:"winner_seat,omitempty"`
	Split        bool      `json:"split"`
	Showdown     bool      `json:"showdown"`
	Pot          int64     `json:"pot"`
	Uncalled     int64     `json:"uncalled"`
	Rake         int64     `json:"rake"`
	Collected    [2]int64  `json:"collected"`
	Descriptions [2]string `json:"descriptions,omitempty"`
}

type Snapshot struct {
	TableID     int           `json:"table_id"`
	HandNumber  int64         `json:"hand_number"`
	Street      Street        `json:"street"`
	Board       []string      `json:"board"`
	StartingPot int64         `json:"starting_pot"`
	Pot         int64         `json:"pot"`
	ButtonSeat  int           `json:"button_seat"`
	ToAct       int           `json:"to_act"`
	Complete    bool          `json:"complete"`
	Seats       []SeatView    `json:"seats"`
	Legal       *LegalActions `json:"legal,omitempty"`
	Result      *ResultView   `json:"result,omitempty"`
}

// SnapshotFor renders the table as seen by viewer (1 or 2, 0 for an
// observer). Opponent hole cards appear only after a showdown.
func (t *Table) SnapshotFor(viewer int) Snapshot {
	ledger := t.Ledger()
	seats := make([]SeatView, 0, 2)
	for _, s := range t.Seats {
		view := SeatView{
			SeatID:        s.ID,
			Name:          s.Name,
			StartingStack: s.StartingStack,
			Stack:         s.Stack,
			StreetTotal:   ledger.StreetTotal(s.ID),
			AllIn:         s.Stack == 0,
			Actions:       append([]Action{}, s.Actions...),
		}
		if s.ID == viewer || (t.Complete && t.showdown) {
			view.HoleCards = CardStrings(s.Hole[:])
		}
		if n := len(s.Actions); n > 0 {
			view.LastAction = string(s.Actions[n-1].Kind)
		}
		seats = append(seats, view)
	}
	snap := Snapshot{
		TableID:     t.ID,
		HandNumber:  t.HandNumber,
		Street:      t.Street,
		Board:       CardStrings(t.Board()),
		StartingPot: t.StartingPot,
		Pot:         t.Pot,
		ButtonSeat:  t.Button,
		ToAct:       t.ToAct,
		Complete:    t.Complete,
		Seats:       seats,
	}
	if !t.Complete && viewer == t.ToAct {
		legal := ledger.Legal(viewer)
		snap.Legal = &legal
	}
	if t.Complete {
		res := t.resultView()
		snap.Result = &res
	}
	return snap
}

func (t *Table) resultView() ResultView {
	out := ResultView{
		WinnerSeat: t.winner,
		Split:      t.split,
		Showdown:   t.showdown,
		Pot:        t.Pot,
		Uncalled:   t.uncalled,
		Rake:       t.rake,
		Collected:  t.collected,
	}
	if t.showdown {
		out.Descriptions = [2]string{t.values[0].Description, t.values[1].Description}
	}
	return out
}

// Result is the settled outcome; ok is false while the hand runs.
func (t *Table) Result() (ResultView, bool) {
	if !t.Complete {
		return ResultView{}, false
	}
	return t.resultView(), true
}
