package game

import (
	"sort"
)

type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high_card"
	case OnePair:
		return "pair"
	case TwoPair:
		return "two_pair"
	case ThreeOfAKind:
		return "three_of_a_kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case FourOfAKind:
		return "four_of_a_kind"
	case StraightFlush:
		return "straight_flush"
	}
	return "unknown"
}

// handShape is the category plus tie-break ranks, highest first.
type handShape struct {
	Category Category
	Ranks    []Rank
}

func (h handShape) betterThan(o handShape) bool {
	if h.Category != o.Category {
		return h.Category > o.Category
	}
	for i := 0; i < len(h.Ranks) && i < len(o.Ranks); i++ {
		if h.Ranks[i] != o.Ranks[i] {
			return h.Ranks[i] > o.Ranks[i]
		}
	}
	return false
}

// Describe names the best five-card hand in hand-history wording, e.g.
// "a pair of Aces" or "a straight, Ten to Ace".
func Describe(cards []Card) (Category, string) {
	best, ok := bestShape(cards)
	if !ok {
		return HighCard, ""
	}
	return best.Category, phrase(best)
}

func bestShape(cards []Card) (handShape, bool) {
	n := len(cards)
	if n < 5 {
		return handShape{}, false
	}
	best := handShape{Category: -1}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						h := shape5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if h.betterThan(best) {
							best = h
						}
					}
				}
			}
		}
	}
	return best, true
}

func shape5(c1, c2, c3, c4, c5 Card) handShape {
	cards := [5]Card{c1, c2, c3, c4, c5}
	counts := map[Rank]int{}
	suits := map[Suit]int{}
	ranks := make([]Rank, 0, 5)
	for _, c := range cards {
		counts[c.Rank]++
		suits[c.Suit]++
		ranks = append(ranks, c.Rank)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
	isFlush := len(suits) == 1
	isStraight, high := straightHigh(counts)
	if isFlush && isStraight {
		return handShape{Category: StraightFlush, Ranks: []Rank{high}}
	}

	type rc struct {
		rank  Rank
		count int
	}
	groups := make([]rc, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, rc{rank: r, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case groups[0].count == 4:
		return handShape{Category: FourOfAKind, Ranks: []Rank{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return handShape{Category: FullHouse, Ranks: []Rank{groups[0].rank, groups[1].rank}}
	case isFlush:
		return handShape{Category: Flush, Ranks: ranks}
	case isStraight:
		return handShape{Category: Straight, Ranks: []Rank{high}}
	case groups[0].count == 3:
		return handShape{Category: ThreeOfAKind, Ranks: []Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		return handShape{Category: TwoPair, Ranks: []Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return handShape{Category: OnePair, Ranks: []Rank{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}}
	}
	return handShape{Category: HighCard, Ranks: ranks}
}

// straightHigh expects the rank counts of exactly five cards.
func straightHigh(counts map[Rank]int) (bool, Rank) {
	if len(counts) != 5 {
		return false, 0
	}
	lo, hi := Ace, Two
	for r := range counts {
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if hi-lo == 4 {
		return true, hi
	}
	// wheel
	if counts[Ace] == 1 && counts[Two] == 1 && counts[Three] == 1 && counts[Four] == 1 && counts[Five] == 1 {
		return true, Five
	}
	return false, 0
}

var rankNames = map[Rank][2]string{
	Two: {"Deuce", "Deuces"}, Three: {"Three", "Threes"}, Four: {"Four", "Fours"},
	Five: {"Five", "Fives"}, Six: {"Six", "Sixes"}, Seven: {"Seven", "Sevens"},
	Eight: {"Eight", "Eights"}, Nine: {"Nine", "Nines"}, Ten: {"Ten", "Tens"},
	Jack: {"Jack", "Jacks"}, Queen: {"Queen", "Queens"}, King: {"King", "Kings"},
	Ace: {"Ace", "Aces"},
}

func rankName(r Rank) string   { return rankNames[r][0] }
func rankPlural(r Rank) string { return rankNames[r][1] }

func straightLow(high Rank) Rank {
	if high == Five {
		return Ace
	}
	return high - 4
}

func phrase(h handShape) string {
	r := h.Ranks
	switch h.Category {
	case StraightFlush:
		if r[0] == Ace {
			return "a Royal Flush"
		}
		return "a straight flush, " + rankName(straightLow(r[0])) + " to " + rankName(r[0])
	case FourOfAKind:
		return "four of a kind, " + rankPlural(r[0])
	case FullHouse:
		return "a full house, " + rankPlural(r[0]) + " full of " + rankPlural(r[1])
	case Flush:
		return "a flush, " + rankName(r[0]) + " high"
	case Straight:
		return "a straight, " + rankName(straightLow(r[0])) + " to " + rankName(r[0])
	case ThreeOfAKind:
		return "three of a kind, " + rankPlural(r[0])
	case TwoPair:
		return "two pair, " + rankPlural(r[0]) + " and " + rankPlural(r[1])
	case OnePair:
		return "a pair of " + rankPlural(r[0])
	}
	return "high card " + rankName(r[0])
}
