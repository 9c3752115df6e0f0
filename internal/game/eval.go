package game

import (
	"github.com/paulhankin/poker"
)

// HandValue is a comparable showdown strength. Higher Score wins; equal
// scores split the pot.
type HandValue struct {
	Score       int16    `json:"score"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Cards       []Card   `json:"-"`
}

func (h HandValue) BetterThan(o HandValue) bool {
	return h.Score > o.Score
}

// Evaluate ranks the best five cards out of the hole cards plus board.
// Boards with fewer than three cards are not evaluable.
func Evaluate(hole [2]Card, board []Card) HandValue {
	cards := make([]Card, 0, 2+len(board))
	cards = append(cards, hole[0], hole[1])
	cards = append(cards, board...)

	pcs := make([]poker.Card, len(cards))
	for i, c := range cards {
		pcs[i] = toLibCard(c)
	}

	var score int16
	switch len(pcs) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], pcs)
		score = poker.Eval7(&a7)
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], pcs)
		score = poker.Eval5(&a5)
	default:
		score = bestFiveScore(pcs)
	}
	cat, desc := Describe(cards)
	return HandValue{Score: score, Category: cat, Description: desc, Cards: cards}
}

// Compare returns 1 when a wins, -1 when b wins and 0 on a tie.
func Compare(a, b HandValue) int {
	switch {
	case a.Score > b.Score:
		return 1
	case a.Score < b.Score:
		return -1
	default:
		return 0
	}
}

func bestFiveScore(pcs []poker.Card) int16 {
	n := len(pcs)
	best := int16(-1 << 15)
	if n < 5 {
		return best
	}
	var five [5]poker.Card
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						five[0], five[1], five[2], five[3], five[4] = pcs[a], pcs[b], pcs[c], pcs[d], pcs[e]
						if s := poker.Eval5(&five); s > best {
							best = s
						}
					}
				}
			}
		}
	}
	return best
}

// The library numbers ranks 1..13 with the ace as 1.
func toLibCard(c Card) poker.Card {
	var s poker.Suit
	switch c.Suit {
	case Clubs:
		s = poker.Club
	case Diamonds:
		s = poker.Diamond
	case Hearts:
		s = poker.Heart
	default:
		s = poker.Spade
	}
	r := poker.Rank(c.Rank)
	if c.Rank == Ace {
		r = poker.Rank(1)
	}
	card, _ := poker.MakeCard(s, r)
	return card
}
