package session

import (
	"errors"

	"spot-trainer/internal/dealer"
	"spot-trainer/internal/game"
	"spot-trainer/internal/handhistory"
)

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrSessionNotFound   = errors.New("session_not_found")
	ErrTableNotFound     = errors.New("table_not_found")
	ErrSeatNotFound      = errors.New("seat_not_found")
	ErrInvalidTableCount = errors.New("invalid_table_count")
	ErrInvalidSeatName   = errors.New("invalid_seat_name")
	ErrNoHistory         = errors.New("no_completed_hands")
)

// Kind groups errors by how the caller should surface them.
type Kind int

const (
	KindInternal Kind = iota
	KindProtocol
	KindLegality
	KindConfiguration
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindLegality:
		return "legality"
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case isAny(err, ErrSessionNotFound, ErrTableNotFound, ErrSeatNotFound, ErrNoHistory, game.ErrUnknownSeat):
		return KindNotFound
	case isAny(err, game.ErrInvalidAction, game.ErrInvalidAmount, game.ErrNotYourTurn,
		game.ErrHandComplete, game.ErrHandInProgress):
		return KindLegality
	case isAny(err, ErrInvalidRequest):
		return KindProtocol
	case isAny(err, ErrInvalidTableCount, ErrInvalidSeatName,
		dealer.ErrInvalidRange, dealer.ErrEmptyRange, dealer.ErrRangeExhausted,
		dealer.ErrInvalidBoardSpec, dealer.ErrBoardUnsatisfiable,
		game.ErrInvalidStakes, game.ErrInvalidRake, game.ErrInvalidStack,
		game.ErrInvalidStartingPot, game.ErrDuplicateCard, game.ErrInvalidCard,
		handhistory.ErrMalformed):
		return KindConfiguration
	}
	return KindInternal
}

// Code is the stable machine-readable code of err: the message of the
// innermost wrapped error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
