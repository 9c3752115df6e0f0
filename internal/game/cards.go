package game

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

var ErrInvalidCard = errors.New("invalid_card")

const rankChars = "23456789TJQKA"
const suitChars = "shdc"

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(rankChars[c.Rank-Two]) + string(suitChars[c.Suit])
}

func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Clubs
}

// index is the card's bit position inside a CardSet.
func (c Card) index() uint {
	return uint(c.Suit)*13 + uint(c.Rank-Two)
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidCard
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseRank accepts 2-9, T/t, 10, J, Q, K, A.
func ParseRank(s string) (Rank, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "10" {
		return Ten, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, s)
	}
	i := strings.IndexByte(rankChars, s[0])
	if i < 0 {
		return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, s)
	}
	return Two + Rank(i), nil
}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

func ParseSuit(s string) (Suit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: suit %q", ErrInvalidCard, s)
	}
	i := strings.IndexByte(suitChars, s[0])
	if i < 0 {
		return 0, fmt.Errorf("%w: suit %q", ErrInvalidCard, s)
	}
	return Suit(i), nil
}

// ParseCard reads tracker notation such as "Ah", "Td" or "10c".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	r, err := ParseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, err
	}
	su, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: r, Suit: su}, nil
}

func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func CardStrings(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

func FullDeck() []Card {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// CardSet is a bitmask over the 52-card deck.
type CardSet uint64

func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.With(c)
	}
	return s
}

func (s CardSet) Has(c Card) bool {
	return s&(1<<c.index()) != 0
}

func (s CardSet) With(c Card) CardSet {
	return s | 1<<c.index()
}

func (s CardSet) Union(o CardSet) CardSet {
	return s | o
}

func (s CardSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Remaining returns the deck minus the set, in deck order.
func (s CardSet) Remaining() []Card {
	out := make([]Card, 0, 52-s.Len())
	for _, c := range FullDeck() {
		if !s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Distinct reports whether no card appears twice.
func Distinct(cards ...Card) bool {
	var seen CardSet
	for _, c := range cards {
		if seen.Has(c) {
			return false
		}
		seen = seen.With(c)
	}
	return true
}
