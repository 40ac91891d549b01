package deck

import (
	rand "math/rand/v2"
)

// Shoe is the card-dealing source for a table: a shuffled 52-card set that
// transparently refills itself when exhausted. The refill is a full reset,
// not a continuation of the previous penetration.
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe creates a full, shuffled shoe drawing randomness from rng
func NewShoe(rng *rand.Rand) *Shoe {
	s := &Shoe{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	s.refill()
	s.Shuffle()
	return s
}

// NewShoeFromCards creates a shoe that deals the given cards in order.
// Used by tests to rig deals; once the cards run out the shoe refills
// and shuffles like any other.
func NewShoeFromCards(rng *rand.Rand, cards ...Card) *Shoe {
	return &Shoe{
		cards: append([]Card{}, cards...),
		rng:   rng,
	}
}

func (s *Shoe) refill() {
	s.cards = s.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Ace; rank <= King; rank++ {
			s.cards = append(s.cards, NewCard(rank, suit))
		}
	}
}

// Shuffle reorders the remaining cards uniformly at random
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the next card. An empty shoe is refilled with a
// fresh 52-card set and shuffled before dealing, so Draw always succeeds.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.refill()
		s.Shuffle()
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// Remaining returns the number of cards left before the next refill
func (s *Shoe) Remaining() int {
	return len(s.cards)
}
