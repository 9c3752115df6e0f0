package session

import (
	"time"

	"spot-trainer/internal/dealer"
	"spot-trainer/internal/game"
)

type SeatConfig struct {
	Name  string             `json:"name"`
	Stack int64              `json:"stack"`
	Range map[string]float64 `json:"range"`
}

// StartingPotSource is either a fixed amount or an even amount drawn per
// hand from [Min, Max].
type StartingPotSource struct {
	Fixed int64 `json:"fixed,omitempty"`
	Min   int64 `json:"min,omitempty"`
	Max   int64 `json:"max,omitempty"`
}

type CreateSessionRequest struct {
	Seats       [2]SeatConfig     `json:"seats"`
	Board       dealer.BoardSpec  `json:"board"`
	Tables      int               `json:"tables"`
	Stakes      game.Stakes       `json:"stakes"`
	Rake        game.RakeSpec     `json:"rake"`
	StartingPot StartingPotSource `json:"starting_pot"`
	ButtonSeat  int               `json:"button_seat,omitempty"`
	Seed        int64             `json:"seed,omitempty"`
}

type SeatPresence struct {
	SeatID    int    `json:"seat_id"`
	Name      string `json:"name"`
	Stack     int64  `json:"stack"`
	Connected bool   `json:"connected"`
}

type TableInfo struct {
	TableID     int            `json:"table_id"`
	HandNumber  int64          `json:"hand_number"`
	Street      game.Street    `json:"street"`
	Board       []string       `json:"board"`
	StartingPot int64          `json:"starting_pot"`
	Pot         int64          `json:"pot"`
	Complete    bool           `json:"complete"`
	HandsPlayed int            `json:"hands_played"`
	Seats       []SeatPresence `json:"seats"`
}

type CreateSessionResponse struct {
	SessionID string      `json:"session_id"`
	CreatedAt time.Time   `json:"created_at"`
	SeatNames [2]string   `json:"seat_names"`
	Tables    []TableInfo `json:"tables"`
}

type SessionSummary struct {
	SessionID  string    `json:"session_id"`
	TableCount int       `json:"table_count"`
	Connected  [2]int    `json:"connected"`
	SeatNames  [2]string `json:"seat_names"`
	CreatedAt  time.Time `json:"created_at"`
	AgeSeconds int64     `json:"age_seconds"`
}

// SessionView is the read model for late joiners and guests.
type SessionView struct {
	SessionID string               `json:"session_id"`
	CreatedAt time.Time            `json:"created_at"`
	Config    CreateSessionRequest `json:"config"`
	Viewer    int                  `json:"viewer_seat"`
	Tables    []game.Snapshot      `json:"tables"`
}
