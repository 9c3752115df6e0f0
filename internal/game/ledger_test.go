package game

import (
	"errors"
	"testing"
)

func TestLedgerCallAmountClampedToStack(t *testing.T) {
	street := []Action{
		{Seat: 1, Street: StreetFlop, Kind: ActionBet, Amount: 500},
	}
	l := NewLedger(street, [2]int64{500, 300})
	if got := l.CallAmount(2); got != 300 {
		t.Fatalf("CallAmount(2) = %d, want 300", got)
	}
	if got := l.CallAmount(1); got != 0 {
		t.Fatalf("CallAmount(1) = %d, want 0", got)
	}
	if !l.CanCheck(1) || l.CanCall(1) {
		t.Fatal("bettor should be able to check, not call")
	}
	if l.CanCheck(2) || !l.CanCall(2) {
		t.Fatal("caller should be able to call, not check")
	}
	amt, err := l.Effective(2, ActionCall, 0)
	if err != nil || amt != 300 {
		t.Fatalf("all-in call = %d, %v", amt, err)
	}
}

func TestLedgerPostBlindCountsButIsNotVoluntary(t *testing.T) {
	street := []Action{
		{Seat: 1, Kind: ActionPostBlind, Amount: 50},
		{Seat: 2, Kind: ActionPostBlind, Amount: 50},
	}
	l := NewLedger(street, [2]int64{1000, 1000})
	if l.StreetTotal(1) != 50 || l.StreetTotal(2) != 50 {
		t.Fatalf("totals = %d/%d", l.StreetTotal(1), l.StreetTotal(2))
	}
	if l.StreetComplete() {
		t.Fatal("forced posts alone must not close the street")
	}
	l = NewLedger(append(street,
		Action{Seat: 1, Kind: ActionCheck},
		Action{Seat: 2, Kind: ActionCheck},
	), [2]int64{1000, 1000})
	if !l.StreetComplete() {
		t.Fatal("check-check after posts should close the street")
	}
}

func TestLedgerStreetComplete(t *testing.T) {
	cases := []struct {
		name    string
		actions []Action
		want    bool
	}{
		{"empty", nil, false},
		{"one check", []Action{{Seat: 1, Kind: ActionCheck}}, false},
		{"bet pending", []Action{{Seat: 1, Kind: ActionBet, Amount: 100}}, false},
		{"bet call", []Action{{Seat: 1, Kind: ActionBet, Amount: 100}, {Seat: 2, Kind: ActionCall, Amount: 100}}, true},
		{"check bet", []Action{{Seat: 1, Kind: ActionCheck}, {Seat: 2, Kind: ActionBet, Amount: 100}}, false},
		{"raise pending", []Action{{Seat: 1, Kind: ActionBet, Amount: 100}, {Seat: 2, Kind: ActionRaise, Amount: 300}}, false},
	}
	for _, tc := range cases {
		l := NewLedger(tc.actions, [2]int64{1000, 1000})
		if got := l.StreetComplete(); got != tc.want {
			t.Fatalf("%s: StreetComplete() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLedgerLegalFacts(t *testing.T) {
	l := NewLedger([]Action{{Seat: 1, Kind: ActionBet, Amount: 200}}, [2]int64{800, 1000})
	legal := l.Legal(2)
	if !legal.CanCall || legal.CallAmount != 200 || legal.CanCheck || legal.CanBet {
		t.Fatalf("unexpected legal facts: %+v", legal)
	}
	if !legal.CanRaise || legal.MinWager != 201 || legal.MaxWager != 1000 {
		t.Fatalf("raise bounds: %+v", legal)
	}
	// opponent only has 800 behind: raising more than call+800 is pointless
	l = NewLedger([]Action{{Seat: 1, Kind: ActionBet, Amount: 200}}, [2]int64{800, 5000})
	if got := l.MaxWager(2); got != 1000 {
		t.Fatalf("MaxWager(2) = %d, want 1000", got)
	}
	amt, err := l.Effective(2, ActionRaise, 4000)
	if err != nil || amt != 1000 {
		t.Fatalf("clamped raise = %d, %v", amt, err)
	}
}

func TestLedgerRejectsWagersAgainstAllInOpponent(t *testing.T) {
	l := NewLedger([]Action{{Seat: 1, Kind: ActionBet, Amount: 500}}, [2]int64{0, 2000})
	if _, err := l.Effective(2, ActionRaise, 1000); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("raise vs all-in: got %v", err)
	}
	if legal := l.Legal(2); legal.CanRaise {
		t.Fatal("raise should not be offered against an all-in opponent")
	}
}

func TestOpponent(t *testing.T) {
	if Opponent(1) != 2 || Opponent(2) != 1 {
		t.Fatal("opponent mapping broken")
	}
}
