package game

import (
	"github.com/lox/twentyone/internal/deck"
)

// Hand is one player-or-dealer holding of cards plus its own wager and
// stood status. Cards keep insertion order; the "first two cards" rules
// for doubling and splitting depend on it.
type Hand struct {
	cards     []deck.Card
	bet       int64
	stood     bool
	fromSplit bool
}

// NewHand creates an empty hand with no wager
func NewHand() *Hand {
	return &Hand{cards: make([]deck.Card, 0, 6)}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the hand's cards in deal order
func (h *Hand) Cards() []deck.Card {
	return append([]deck.Card{}, h.cards...)
}

// Size returns the number of cards in the hand
func (h *Hand) Size() int {
	return len(h.cards)
}

// Value computes the blackjack total. Every ace starts at 11; while the
// total exceeds 21 and a soft ace remains, it drops to 1. The result is
// the same no matter what order the aces arrived in.
func (h *Hand) Value() int {
	return valueOf(h.cards)
}

func valueOf(cards []deck.Card) int {
	value := 0
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
			value += 11
		} else {
			value += c.BaseValue()
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// IsBust reports whether the hand's total exceeds 21
func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totalling 21. A three-card 21 is never a natural.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

// CanDouble reports double-down eligibility: exactly two cards and the
// hand not yet stood
func (h *Hand) CanDouble() bool {
	return len(h.cards) == 2 && !h.stood
}

// CanSplit reports split eligibility: exactly two cards of equal base
// value, on a hand that did not itself come from a split
func (h *Hand) CanSplit() bool {
	if len(h.cards) != 2 || h.fromSplit {
		return false
	}
	return h.cards[0].BaseValue() == h.cards[1].BaseValue()
}

// Bet returns the hand's wager
func (h *Hand) Bet() int64 {
	return h.bet
}

// Stood reports whether the hand has been stood. A stood hand receives no
// further cards except the single forced card from doubling, which is
// dealt before the stand.
func (h *Hand) Stood() bool {
	return h.stood
}

// Stand marks the hand stood
func (h *Hand) Stand() {
	h.stood = true
}

// reveal flips any face-down card in the hand face up
func (h *Hand) reveal() {
	for i := range h.cards {
		h.cards[i].FaceDown = false
	}
}

// splitOff removes the hand's second card and returns a new hand holding
// it, carrying the same wager. Both halves are marked split-derived so a
// second split is refused.
func (h *Hand) splitOff() *Hand {
	second := h.cards[1]
	h.cards = h.cards[:1]
	h.fromSplit = true

	next := NewHand()
	next.AddCard(second)
	next.bet = h.bet
	next.fromSplit = true
	return next
}
