package dealer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"spot-trainer/internal/game"
)

var (
	ErrInvalidRange   = errors.New("invalid_range")
	ErrEmptyRange     = errors.New("empty_range")
	ErrRangeExhausted = errors.New("range_exhausted")
)

// Combo is one concrete two-card holding.
type Combo [2]game.Card

type rangeEntry struct {
	label  string
	weight float64
	combos []Combo
}

// Range is a validated, normalised weighted hand range. Labels are
// canonical: "AKs", "AKo" or "77".
type Range struct {
	entries []rangeEntry
}

// ParseRange validates and normalises a label→weight map. Unsuffixed
// non-pair labels expand to both the suited and offsuit label, "+" expands
// upwards ("TT+", "ATs+"), a dash spans two labels of the same shape
// ("99-66", "A5s-A2s", "T9s-65s"), and zero weights are dropped.
func ParseRange(spec map[string]float64) (Range, error) {
	weights := map[string]float64{}
	for raw, w := range spec {
		if math.IsNaN(w) || w < 0 || w > 100 {
			return Range{}, fmt.Errorf("%w: weight %v for %q", ErrInvalidRange, w, raw)
		}
		labels, err := expandLabel(raw)
		if err != nil {
			return Range{}, err
		}
		if w == 0 {
			continue
		}
		for _, l := range labels {
			if w > weights[l] {
				weights[l] = w
			}
		}
	}
	if len(weights) == 0 {
		return Range{}, ErrEmptyRange
	}
	labels := make([]string, 0, len(weights))
	for l := range weights {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	r := Range{entries: make([]rangeEntry, 0, len(labels))}
	for _, l := range labels {
		r.entries = append(r.entries, rangeEntry{label: l, weight: weights[l], combos: combosFor(l)})
	}
	return r, nil
}

// Weights returns the canonical label→weight map.
func (r Range) Weights() map[string]float64 {
	out := make(map[string]float64, len(r.entries))
	for _, e := range r.entries {
		out[e.label] = e.weight
	}
	return out
}

func (r Range) Labels() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.label)
	}
	return out
}

// Combos lists every concrete holding of a canonical label.
func (r Range) Combos(label string) []Combo {
	for _, e := range r.entries {
		if e.label == label {
			return append([]Combo{}, e.combos...)
		}
	}
	return nil
}

// Contains reports whether the holding belongs to any label in the range.
func (r Range) Contains(a, b game.Card) bool {
	l := labelOf(a, b)
	for _, e := range r.entries {
		if e.label == l {
			return true
		}
	}
	return false
}

func labelOf(a, b game.Card) string {
	hi, lo := a, b
	if lo.Rank > hi.Rank {
		hi, lo = lo, hi
	}
	switch {
	case hi.Rank == lo.Rank:
		return hi.Rank.String() + lo.Rank.String()
	case hi.Suit == lo.Suit:
		return hi.Rank.String() + lo.Rank.String() + "s"
	default:
		return hi.Rank.String() + lo.Rank.String() + "o"
	}
}

func expandLabel(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "10", "T")
	bad := fmt.Errorf("%w: label %q", ErrInvalidRange, raw)
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		out := expandSpan(lo, hi)
		if out == nil {
			return nil, bad
		}
		return out, nil
	}
	plus := strings.HasSuffix(s, "+")
	r1, r2, suffix, ok := parseLabel(strings.TrimSuffix(s, "+"))
	if !ok {
		return nil, bad
	}

	if r1 == r2 {
		top := r1
		if plus {
			top = game.Ace
		}
		out := []string{}
		for r := r1; r <= top; r++ {
			out = append(out, r.String()+r.String())
		}
		return out, nil
	}

	kickers := []game.Rank{r2}
	if plus {
		kickers = kickers[:0]
		for k := r2; k < r1; k++ {
			kickers = append(kickers, k)
		}
	}
	return withSuffixes(r1, kickers, suffix), nil
}

// expandSpan handles "99-66", "A5s-A2s" and "T9s-65s". Both ends must have
// the same shape; the order of the ends does not matter.
func expandSpan(a, b string) []string {
	a1, a2, asuf, ok := parseLabel(a)
	if !ok {
		return nil
	}
	b1, b2, bsuf, ok := parseLabel(b)
	if !ok || asuf != bsuf {
		return nil
	}
	if a1 < b1 || (a1 == b1 && a2 < b2) {
		a1, a2, b1, b2 = b1, b2, a1, a2
	}
	out := []string{}
	switch {
	case a1 == a2 || b1 == b2:
		if a1 != a2 || b1 != b2 {
			return nil
		}
		for r := b1; r <= a1; r++ {
			out = append(out, r.String()+r.String())
		}
	case a1 == b1:
		kickers := []game.Rank{}
		for k := b2; k <= a2; k++ {
			kickers = append(kickers, k)
		}
		out = withSuffixes(a1, kickers, asuf)
	default:
		if a1-a2 != b1-b2 {
			return nil
		}
		for hi, lo := b1, b2; hi <= a1; hi, lo = hi+1, lo+1 {
			out = append(out, withSuffixes(hi, []game.Rank{lo}, asuf)...)
		}
	}
	return out
}

// parseLabel reads "AK", "AKs", "AKo" or "77", returning the higher rank
// first.
func parseLabel(s string) (hi, lo game.Rank, suffix string, ok bool) {
	if len(s) < 2 || len(s) > 3 {
		return 0, 0, "", false
	}
	r1, err := game.ParseRank(s[0:1])
	if err != nil {
		return 0, 0, "", false
	}
	r2, err := game.ParseRank(s[1:2])
	if err != nil {
		return 0, 0, "", false
	}
	if len(s) == 3 {
		suffix = strings.ToLower(s[2:3])
		if suffix != "s" && suffix != "o" {
			return 0, 0, "", false
		}
	}
	if r2 > r1 {
		r1, r2 = r2, r1
	}
	if r1 == r2 && suffix != "" {
		return 0, 0, "", false
	}
	return r1, r2, suffix, true
}

func withSuffixes(hi game.Rank, kickers []game.Rank, suffix string) []string {
	suffixes := []string{"s", "o"}
	if suffix != "" {
		suffixes = []string{suffix}
	}
	out := []string{}
	for _, k := range kickers {
		for _, suf := range suffixes {
			out = append(out, hi.String()+k.String()+suf)
		}
	}
	return out
}

// combosFor expects a canonical label.
func combosFor(label string) []Combo {
	r1, _ := game.ParseRank(label[0:1])
	r2, _ := game.ParseRank(label[1:2])
	suits := []game.Suit{game.Spades, game.Hearts, game.Diamonds, game.Clubs}
	out := []Combo{}
	switch {
	case r1 == r2:
		for i := 0; i < len(suits); i++ {
			for j := i + 1; j < len(suits); j++ {
				out = append(out, Combo{{Rank: r1, Suit: suits[i]}, {Rank: r2, Suit: suits[j]}})
			}
		}
	case strings.HasSuffix(label, "s"):
		for _, s := range suits {
			out = append(out, Combo{{Rank: r1, Suit: s}, {Rank: r2, Suit: s}})
		}
	default:
		for _, a := range suits {
			for _, b := range suits {
				if a != b {
					out = append(out, Combo{{Rank: r1, Suit: a}, {Rank: r2, Suit: b}})
				}
			}
		}
	}
	return out
}
