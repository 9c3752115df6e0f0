package game

import "errors"

// Legality errors. The message is the code sent to clients.
var (
	ErrInvalidAction  = errors.New("invalid_action")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrNotYourTurn    = errors.New("not_your_turn")
	ErrHandComplete   = errors.New("hand_complete")
	ErrHandInProgress = errors.New("hand_in_progress")
	ErrUnknownSeat    = errors.New("unknown_seat")
)

// Configuration errors.
var (
	ErrDuplicateCard      = errors.New("duplicate_card")
	ErrInvalidStartingPot = errors.New("invalid_starting_pot")
	ErrInvalidStakes      = errors.New("invalid_stakes")
	ErrInvalidRake        = errors.New("invalid_rake")
	ErrInvalidStack       = errors.New("invalid_stack")
)
