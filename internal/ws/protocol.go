package ws

import "spot-trainer/internal/game"

const (
	TypeJoinSession        = "join_session"
	TypePlayerAction       = "player_action"
	TypeRequestNewHand     = "request_new_hand"
	TypeGameState          = "game_state"
	TypeTableUpdate        = "table_update"
	TypeNewHand            = "new_hand"
	TypePlayerConnected    = "player_connected"
	TypePlayerDisconnected = "player_disconnected"
	TypeError              = "error"
)

// Identity addresses one seat of one table. SeatID 0 joins as an observer.
type Identity struct {
	SessionID string `json:"session_id"`
	TableID   int    `json:"table_id"`
	SeatID    int    `json:"seat_id"`
}

type JoinSessionMessage struct {
	Type string `json:"type"`
	Identity
	DisplayName string `json:"display_name,omitempty"`
}

type PlayerActionMessage struct {
	Type string `json:"type"`
	Identity
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

type RequestNewHandMessage struct {
	Type string `json:"type"`
	Identity
}

type GameStateMessage struct {
	Type string `json:"type"`
	Identity
	Table game.Snapshot `json:"table"`
}

type TableUpdateMessage struct {
	Type string `json:"type"`
	Identity
	Table       game.Snapshot `json:"table"`
	Outcome     game.Outcome  `json:"outcome"`
	HandHistory string        `json:"hand_history,omitempty"`
}

type NewHandMessage struct {
	Type string `json:"type"`
	Identity
	Table game.Snapshot `json:"table"`
}

type PresenceMessage struct {
	Type string `json:"type"`
	Identity
	DisplayName string `json:"display_name,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
