package game

import (
	"fmt"
	"math"
)

// RakeSpec is a percentage-with-cap rule. Amounts are minor currency units;
// a zero cap means uncapped.
type RakeSpec struct {
	Percentage float64 `json:"percentage"`
	Cap        int64   `json:"cap"`
}

func (r RakeSpec) Validate() error {
	if math.IsNaN(r.Percentage) || r.Percentage < 0 || r.Percentage > 100 {
		return fmt.Errorf("%w: percentage %v", ErrInvalidRake, r.Percentage)
	}
	if r.Cap < 0 {
		return fmt.Errorf("%w: cap %d", ErrInvalidRake, r.Cap)
	}
	return nil
}

// Rake is min(pot*percentage, cap), rounded down to the cent.
func (r RakeSpec) Rake(pot int64) int64 {
	if pot <= 0 || r.Percentage <= 0 {
		return 0
	}
	// percentage is fixed to four decimal places
	raw := int64(math.Floor(float64(pot)*math.Round(r.Percentage*1e4)/1e6 + 1e-9))
	if r.Cap > 0 && raw > r.Cap {
		return r.Cap
	}
	if raw > pot {
		return pot
	}
	return raw
}
