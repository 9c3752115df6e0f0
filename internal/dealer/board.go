package dealer

import (
	"errors"
	"fmt"
	"strings"

	"spot-trainer/internal/game"
)

var (
	ErrInvalidBoardSpec   = errors.New("invalid_board_spec")
	ErrBoardUnsatisfiable = errors.New("board_unsatisfiable")
)

// Suit textures are judged on the flop.
const (
	SuitsAny      = "any"
	SuitsMonotone = "monotone"
	SuitsTwoTone  = "two_tone"
	SuitsRainbow  = "rainbow"
)

// Pairing is judged on the flop.
const (
	PairingAny      = "any"
	PairingPaired   = "paired"
	PairingUnpaired = "unpaired"
)

// RankRange limits the rank of the card at one board position (0-4,
// flop cards first) to [Min, Max].
type RankRange struct {
	Position int    `json:"position"`
	Min      string `json:"min"`
	Max      string `json:"max"`
}

// BoardSpec is the wire form of the board texture constraints. Empty
// fields are unconstrained.
type BoardSpec struct {
	Suits   string         `json:"suits,omitempty"`
	Pairing string         `json:"pairing,omitempty"`
	Ranks   []RankRange    `json:"ranks,omitempty"`
	Pinned  map[int]string `json:"pinned,omitempty"`
}

// BoardFilter is a compiled BoardSpec.
type BoardFilter struct {
	suits   string
	pairing string
	minRank [5]game.Rank
	maxRank [5]game.Rank
	pinned  [5]*game.Card
}

func (s BoardSpec) Compile() (*BoardFilter, error) {
	f := &BoardFilter{}
	for i := range f.minRank {
		f.minRank[i], f.maxRank[i] = game.Two, game.Ace
	}

	switch v := strings.ToLower(strings.TrimSpace(s.Suits)); v {
	case "", SuitsAny:
		f.suits = SuitsAny
	case SuitsMonotone, SuitsTwoTone, SuitsRainbow:
		f.suits = v
	case "two-tone", "twotone":
		f.suits = SuitsTwoTone
	default:
		return nil, fmt.Errorf("%w: suits %q", ErrInvalidBoardSpec, s.Suits)
	}

	switch v := strings.ToLower(strings.TrimSpace(s.Pairing)); v {
	case "", PairingAny:
		f.pairing = PairingAny
	case PairingPaired, PairingUnpaired:
		f.pairing = v
	default:
		return nil, fmt.Errorf("%w: pairing %q", ErrInvalidBoardSpec, s.Pairing)
	}

	for _, rr := range s.Ranks {
		if rr.Position < 0 || rr.Position > 4 {
			return nil, fmt.Errorf("%w: rank position %d", ErrInvalidBoardSpec, rr.Position)
		}
		lo, hi := game.Two, game.Ace
		var err error
		if rr.Min != "" {
			if lo, err = game.ParseRank(rr.Min); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBoardSpec, err)
			}
		}
		if rr.Max != "" {
			if hi, err = game.ParseRank(rr.Max); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBoardSpec, err)
			}
		}
		if lo > hi {
			return nil, fmt.Errorf("%w: rank range %s-%s at %d", ErrInvalidBoardSpec, lo, hi, rr.Position)
		}
		f.minRank[rr.Position] = max(f.minRank[rr.Position], lo)
		f.maxRank[rr.Position] = min(f.maxRank[rr.Position], hi)
	}

	var seen game.CardSet
	for pos, raw := range s.Pinned {
		if pos < 0 || pos > 4 {
			return nil, fmt.Errorf("%w: pinned position %d", ErrInvalidBoardSpec, pos)
		}
		c, err := game.ParseCard(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBoardSpec, err)
		}
		if seen.Has(c) {
			return nil, fmt.Errorf("%w: %s pinned twice", ErrInvalidBoardSpec, c)
		}
		seen = seen.With(c)
		f.pinned[pos] = &c
	}
	return f, nil
}

// Pinned returns the cards fixed by the spec.
func (f *BoardFilter) Pinned() game.CardSet {
	var set game.CardSet
	for _, c := range f.pinned {
		if c != nil {
			set = set.With(*c)
		}
	}
	return set
}

func (f *BoardFilter) freePositions() []int {
	out := make([]int, 0, 5)
	for i, c := range f.pinned {
		if c == nil {
			out = append(out, i)
		}
	}
	return out
}

// Matches tests every enabled predicate.
func (f *BoardFilter) Matches(board [5]game.Card) bool {
	for i, c := range board {
		if p := f.pinned[i]; p != nil && *p != c {
			return false
		}
		if c.Rank < f.minRank[i] || c.Rank > f.maxRank[i] {
			return false
		}
	}
	flop := board[:3]

	suits := map[game.Suit]bool{}
	for _, c := range flop {
		suits[c.Suit] = true
	}
	switch f.suits {
	case SuitsMonotone:
		if len(suits) != 1 {
			return false
		}
	case SuitsTwoTone:
		if len(suits) != 2 {
			return false
		}
	case SuitsRainbow:
		if len(suits) != 3 {
			return false
		}
	}

	paired := flop[0].Rank == flop[1].Rank || flop[0].Rank == flop[2].Rank || flop[1].Rank == flop[2].Rank
	switch f.pairing {
	case PairingPaired:
		if !paired {
			return false
		}
	case PairingUnpaired:
		if paired {
			return false
		}
	}
	return true
}
