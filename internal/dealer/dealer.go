package dealer

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"spot-trainer/internal/game"
)

const (
	defaultMaxAttempts = 20000
	holeRedeals        = 8
)

// Dealer samples hole cards from weighted ranges and boards from texture
// constraints. It is safe for concurrent use.
type Dealer struct {
	mu          sync.Mutex
	rnd         *rand.Rand
	maxAttempts int
}

// New returns a dealer. seed 0 seeds from the clock; maxAttempts bounds the
// board rejection sampling.
func New(seed int64, maxAttempts int) *Dealer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Dealer{rnd: rand.New(rand.NewSource(seed)), maxAttempts: maxAttempts}
}

// DealHoleCards draws a label by weight among labels that still have an
// unblocked combo, then one of its unblocked combos uniformly.
func (d *Dealer) DealHoleCards(r Range, excluded game.CardSet) ([2]game.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dealHole(r, excluded)
}

func (d *Dealer) dealHole(r Range, excluded game.CardSet) ([2]game.Card, error) {
	type candidate struct {
		weight float64
		combos []Combo
	}
	cands := make([]candidate, 0, len(r.entries))
	total := 0.0
	for _, e := range r.entries {
		free := make([]Combo, 0, len(e.combos))
		for _, c := range e.combos {
			if !excluded.Has(c[0]) && !excluded.Has(c[1]) {
				free = append(free, c)
			}
		}
		if len(free) == 0 {
			continue
		}
		cands = append(cands, candidate{weight: e.weight, combos: free})
		total += e.weight
	}
	if len(cands) == 0 {
		return [2]game.Card{}, ErrRangeExhausted
	}
	x := d.rnd.Float64() * total
	pick := cands[len(cands)-1]
	for _, c := range cands {
		if x < c.weight {
			pick = c
			break
		}
		x -= c.weight
	}
	combo := pick.combos[d.rnd.Intn(len(pick.combos))]
	return [2]game.Card{combo[0], combo[1]}, nil
}

// dealBoard draws five cards outside excluded that satisfy the filter,
// giving up after the attempt budget. Callers hold mu.
func (d *Dealer) dealBoard(f *BoardFilter, excluded game.CardSet) ([5]game.Card, error) {
	var board [5]game.Card
	pinned := f.Pinned()
	if pinned&excluded != 0 {
		return board, fmt.Errorf("%w: pinned card already dealt", ErrBoardUnsatisfiable)
	}
	for i, c := range f.pinned {
		if c != nil {
			board[i] = *c
		}
	}
	free := f.freePositions()
	deck := excluded.Union(pinned).Remaining()
	if len(deck) < len(free) {
		return board, ErrBoardUnsatisfiable
	}
	attempts := d.maxAttempts
	if len(free) == 0 {
		attempts = 1
	}
	for n := 0; n < attempts; n++ {
		// partial Fisher-Yates over the first len(free) slots
		for i, pos := range free {
			j := i + d.rnd.Intn(len(deck)-i)
			deck[i], deck[j] = deck[j], deck[i]
			board[pos] = deck[i]
		}
		if f.Matches(board) {
			return board, nil
		}
	}
	return board, fmt.Errorf("%w: no board after %d attempts", ErrBoardUnsatisfiable, attempts)
}

// DealHand deals both seats from their ranges and a board around them.
// Pinned board cards are reserved before hole cards are drawn.
func (d *Dealer) DealHand(ranges [2]Range, f *BoardFilter) (game.Deal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var lastErr error
	for try := 0; try < holeRedeals; try++ {
		var deal game.Deal
		var holes game.CardSet
		for i := range ranges {
			hole, err := d.dealHole(ranges[i], holes.Union(f.Pinned()))
			if err != nil {
				return game.Deal{}, fmt.Errorf("seat %d: %w", i+1, err)
			}
			deal.Hole[i] = hole
			holes = holes.With(hole[0]).With(hole[1])
		}
		board, err := d.dealBoard(f, holes)
		if err == nil {
			deal.Board = board
			return deal, nil
		}
		if !errors.Is(err, ErrBoardUnsatisfiable) {
			return game.Deal{}, err
		}
		lastErr = err
	}
	return game.Deal{}, lastErr
}

// Int63n draws from the dealer's source, for callers that need randomness
// outside card dealing.
func (d *Dealer) Int63n(n int64) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rnd.Int63n(n)
}
