package main

import (
	"encoding/json"
	"math/rand"
	"testing"

	"spot-trainer/internal/config"
	"spot-trainer/internal/game"
	"spot-trainer/internal/ws"
)

func TestDecideStaysLegal(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	cases := []game.LegalActions{
		{CanFold: true, CanCheck: true, CanBet: true, MinWager: 1, MaxWager: 5000},
		{CanFold: true, CanCall: true, CallAmount: 300, CanRaise: true, MinWager: 301, MaxWager: 800},
		{CanFold: true, CanCall: true, CallAmount: 200},
		{CanFold: true, CanCheck: true},
	}
	for i, legal := range cases {
		for n := 0; n < 200; n++ {
			kind, amount := decide(rnd, legal, 600)
			switch kind {
			case game.ActionCheck:
				if !legal.CanCheck {
					t.Fatalf("case %d: check not allowed", i)
				}
			case game.ActionCall:
				if !legal.CanCall || amount != legal.CallAmount {
					t.Fatalf("case %d: bad call %d", i, amount)
				}
			case game.ActionFold:
				if legal.CanCheck {
					t.Fatalf("case %d: folded with a free check", i)
				}
			case game.ActionBet, game.ActionRaise:
				if (kind == game.ActionBet && !legal.CanBet) || (kind == game.ActionRaise && !legal.CanRaise) {
					t.Fatalf("case %d: %s not allowed", i, kind)
				}
				if amount < legal.MinWager || amount > legal.MaxWager {
					t.Fatalf("case %d: %s %d outside [%d,%d]", i, kind, amount, legal.MinWager, legal.MaxWager)
				}
			default:
				t.Fatalf("case %d: unexpected action %s", i, kind)
			}
		}
	}
}

func newTestBot(seat, hands int) *bot {
	return &bot{
		cfg: config.BotConfig{Hands: hands},
		id:  ws.Identity{SessionID: "s", TableID: 1, SeatID: seat},
		rnd: rand.New(rand.NewSource(2)),
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestHandleActsOnlyOnItsTurn(t *testing.T) {
	b := newTestBot(1, 0)
	legal := game.LegalActions{CanFold: true, CanCheck: true}
	mine := ws.GameStateMessage{Type: ws.TypeGameState, Identity: b.id, Table: game.Snapshot{ToAct: 1, ButtonSeat: 2, Legal: &legal}}
	replies, err := b.handle(mustMarshal(t, mine))
	if err != nil || len(replies) != 1 {
		t.Fatalf("expected one reply, got %v %v", replies, err)
	}
	act, ok := replies[0].(ws.PlayerActionMessage)
	if !ok || act.Action != "check" || act.Identity != b.id {
		t.Fatalf("unexpected reply %+v", replies[0])
	}

	theirs := ws.GameStateMessage{Type: ws.TypeGameState, Identity: b.id, Table: game.Snapshot{ToAct: 2, ButtonSeat: 2}}
	if replies, _ := b.handle(mustMarshal(t, theirs)); len(replies) != 0 {
		t.Fatalf("acted out of turn: %+v", replies)
	}
}

func TestHandleRequestsNewHandFromButton(t *testing.T) {
	button := newTestBot(2, 0)
	other := newTestBot(1, 0)
	done := ws.TableUpdateMessage{
		Type:    ws.TypeTableUpdate,
		Table:   game.Snapshot{Complete: true, ButtonSeat: 2},
		Outcome: game.Outcome{HandComplete: true},
	}
	replies, err := button.handle(mustMarshal(t, done))
	if err != nil || len(replies) != 1 {
		t.Fatalf("button should request a hand: %v %v", replies, err)
	}
	if _, ok := replies[0].(ws.RequestNewHandMessage); !ok {
		t.Fatalf("unexpected reply %+v", replies[0])
	}
	if replies, _ := other.handle(mustMarshal(t, done)); len(replies) != 0 {
		t.Fatalf("non-button requested a hand: %+v", replies)
	}
}

func TestHandleStopsAfterHands(t *testing.T) {
	b := newTestBot(2, 1)
	done := ws.TableUpdateMessage{Type: ws.TypeTableUpdate, Table: game.Snapshot{Complete: true, ButtonSeat: 2}, Outcome: game.Outcome{HandComplete: true}}
	if _, err := b.handle(mustMarshal(t, done)); err != errDone {
		t.Fatalf("expected errDone, got %v", err)
	}
}

func TestHandleFatalServerErrors(t *testing.T) {
	b := newTestBot(1, 0)
	msg := ws.ErrorMessage{Type: ws.TypeError, Code: "session_not_found", Kind: "not_found"}
	if _, err := b.handle(mustMarshal(t, msg)); err == nil || err.Error() != "session_not_found" {
		t.Fatalf("expected session_not_found, got %v", err)
	}
	msg = ws.ErrorMessage{Type: ws.TypeError, Code: "not_your_turn", Kind: "legality"}
	if _, err := b.handle(mustMarshal(t, msg)); err != nil {
		t.Fatalf("legality errors should not stop the bot: %v", err)
	}
}
