package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"spot-trainer/internal/config"
	"spot-trainer/internal/game"
	"spot-trainer/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var errDone = errors.New("hands_done")

// betSizes are the pot fractions the bot picks from, in quarters.
var betSizes = []int64{1, 2, 3, 4}

type bot struct {
	cfg   config.BotConfig
	id    ws.Identity
	rnd   *rand.Rand
	out   chan any
	hands int
}

func (b *bot) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		replies, err := b.handle(data)
		if err != nil {
			return err
		}
		for _, msg := range replies {
			if b.cfg.ThinkMS > 0 {
				select {
				case <-time.After(time.Duration(b.cfg.ThinkMS) * time.Millisecond):
				case <-ctx.Done():
					return nil
				}
			}
			select {
			case b.out <- msg:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// handle turns one server message into the bot's replies.
func (b *bot) handle(data []byte) ([]any, error) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, nil
	}
	switch base.Type {
	case ws.TypeGameState, ws.TypeNewHand:
		var msg ws.GameStateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, nil
		}
		return b.react(msg.Table), nil
	case ws.TypeTableUpdate:
		var msg ws.TableUpdateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, nil
		}
		if msg.Outcome.HandComplete {
			b.hands++
			log.Info().Int64("hand_number", msg.Table.HandNumber).Int("hands", b.hands).Msg("bot_hand_complete")
			if b.cfg.Hands > 0 && b.hands >= b.cfg.Hands {
				return nil, errDone
			}
		}
		return b.react(msg.Table), nil
	case ws.TypeError:
		var msg ws.ErrorMessage
		_ = json.Unmarshal(data, &msg)
		log.Warn().Str("code", msg.Code).Str("kind", msg.Kind).Msg("bot_server_error")
		if msg.Kind == "not_found" || msg.Kind == "configuration" {
			return nil, errors.New(msg.Code)
		}
	}
	return nil, nil
}

func (b *bot) react(snap game.Snapshot) []any {
	if snap.Complete {
		// the button asks for the next hand so both bots do not race
		if snap.ButtonSeat == b.id.SeatID {
			return []any{ws.RequestNewHandMessage{Type: ws.TypeRequestNewHand, Identity: b.id}}
		}
		return nil
	}
	if snap.ToAct != b.id.SeatID || snap.Legal == nil {
		return nil
	}
	action, amount := decide(b.rnd, *snap.Legal, snap.Pot)
	return []any{ws.PlayerActionMessage{Type: ws.TypePlayerAction, Identity: b.id, Action: string(action), Amount: amount}}
}

// decide picks a random legal action. Wager sizes are pot fractions clamped
// to the advertised bounds.
func decide(rnd *rand.Rand, legal game.LegalActions, pot int64) (game.ActionKind, int64) {
	options := make([]game.ActionKind, 0, 4)
	if legal.CanCheck {
		options = append(options, game.ActionCheck)
	}
	if legal.CanCall {
		options = append(options, game.ActionCall, game.ActionFold)
	}
	if legal.CanBet {
		options = append(options, game.ActionBet)
	}
	if legal.CanRaise {
		options = append(options, game.ActionRaise)
	}
	if len(options) == 0 {
		return game.ActionFold, 0
	}
	kind := options[rnd.Intn(len(options))]
	switch kind {
	case game.ActionBet, game.ActionRaise:
		size := pot * betSizes[rnd.Intn(len(betSizes))] / 4
		if kind == game.ActionRaise {
			size += legal.CallAmount
		}
		return kind, min(max(size, legal.MinWager), legal.MaxWager)
	case game.ActionCall:
		return kind, legal.CallAmount
	}
	return kind, 0
}
