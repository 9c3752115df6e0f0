package game

// Ledger is the per-street chip bookkeeping for both seats. It is the only
// place call amounts and wager limits are computed; snapshots ship its
// results so clients never redo the math.
type Ledger struct {
	totals [2]int64
	acted  [2]bool
	stacks [2]int64
}

// LegalActions describes what the seat to act may do right now.
type LegalActions struct {
	CanFold    bool  `json:"can_fold"`
	CanCheck   bool  `json:"can_check"`
	CanCall    bool  `json:"can_call"`
	CallAmount int64 `json:"call_amount"`
	CanBet     bool  `json:"can_bet"`
	CanRaise   bool  `json:"can_raise"`
	MinWager   int64 `json:"min_wager,omitempty"`
	MaxWager   int64 `json:"max_wager,omitempty"`
}

// NewLedger builds the ledger from the actions of a single street and the
// seats' current stacks (index 0 is seat 1).
func NewLedger(street []Action, stacks [2]int64) Ledger {
	l := Ledger{stacks: stacks}
	for _, a := range street {
		i := a.Seat - 1
		if i < 0 || i > 1 {
			continue
		}
		switch a.Kind {
		case ActionBet, ActionRaise, ActionCall, ActionPostBlind:
			l.totals[i] += a.Amount
		}
		if a.Kind != ActionPostBlind {
			l.acted[i] = true
		}
	}
	return l
}

func (l Ledger) StreetTotal(seat int) int64 {
	if seat < 1 || seat > 2 {
		return 0
	}
	return l.totals[seat-1]
}

func (l Ledger) stack(seat int) int64 {
	if seat < 1 || seat > 2 {
		return 0
	}
	return l.stacks[seat-1]
}

// CallAmount is max(0, opponent total - own total), clamped to the stack.
func (l Ledger) CallAmount(seat int) int64 {
	need := l.StreetTotal(Opponent(seat)) - l.StreetTotal(seat)
	if need < 0 {
		return 0
	}
	if st := l.stack(seat); need > st {
		return st
	}
	return need
}

func (l Ledger) CanCheck(seat int) bool { return l.CallAmount(seat) == 0 }

func (l Ledger) CanCall(seat int) bool { return l.CallAmount(seat) > 0 }

// MaxWager is the most chips a bet or raise can add: the seat's stack, capped
// at what the opponent can still match.
func (l Ledger) MaxWager(seat int) int64 {
	limit := l.CallAmount(seat) + l.stack(Opponent(seat))
	if st := l.stack(seat); limit > st {
		return st
	}
	return limit
}

// Effective validates a proposed action and returns the amount that will be
// logged for it. Over-sized wagers are clamped to MaxWager.
func (l Ledger) Effective(seat int, kind ActionKind, amount int64) (int64, error) {
	if seat < 1 || seat > 2 {
		return 0, ErrUnknownSeat
	}
	call := l.CallAmount(seat)
	switch kind {
	case ActionFold:
		return 0, nil
	case ActionCheck:
		if call != 0 {
			return 0, ErrInvalidAction
		}
		return 0, nil
	case ActionCall:
		if call == 0 {
			return 0, ErrInvalidAction
		}
		return call, nil
	case ActionBet:
		if call != 0 || l.stack(Opponent(seat)) == 0 {
			return 0, ErrInvalidAction
		}
		if amount <= 0 || amount > l.stack(seat) {
			return 0, ErrInvalidAmount
		}
		return min(amount, l.MaxWager(seat)), nil
	case ActionRaise:
		if call == 0 || l.stack(Opponent(seat)) == 0 {
			return 0, ErrInvalidAction
		}
		if amount <= call || amount > l.stack(seat) {
			return 0, ErrInvalidAmount
		}
		return min(amount, l.MaxWager(seat)), nil
	}
	return 0, ErrInvalidAction
}

// StreetComplete reports whether both seats have acted voluntarily and put
// in the same amount.
func (l Ledger) StreetComplete() bool {
	return l.acted[0] && l.acted[1] && l.totals[0] == l.totals[1]
}

func (l Ledger) Legal(seat int) LegalActions {
	call := l.CallAmount(seat)
	oppLive := l.stack(Opponent(seat)) > 0
	out := LegalActions{
		CanFold:    true,
		CanCheck:   call == 0,
		CanCall:    call > 0,
		CallAmount: call,
	}
	max := l.MaxWager(seat)
	switch {
	case call == 0 && oppLive && l.stack(seat) > 0:
		out.CanBet = true
		out.MinWager = 1
		out.MaxWager = max
	case call > 0 && oppLive && l.stack(seat) > call:
		out.CanRaise = true
		out.MinWager = call + 1
		out.MaxWager = max
	}
	return out
}

// Opponent maps seat 1 to 2 and back.
func Opponent(seat int) int {
	return 3 - seat
}
