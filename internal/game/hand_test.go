package game

import (
	"testing"

	"github.com/lox/twentyone/internal/deck"
)

func handOf(ranks ...deck.Rank) *Hand {
	h := NewHand()
	for _, r := range ranks {
		h.AddCard(deck.NewCard(r, deck.Spades))
	}
	return h
}

func TestHandValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		ranks []deck.Rank
		want  int
	}{
		{"single ace", []deck.Rank{deck.Ace}, 11},
		{"two aces", []deck.Rank{deck.Ace, deck.Ace}, 12},
		{"soft twenty", []deck.Rank{deck.Ace, deck.Nine}, 20},
		{"ace nine ace", []deck.Rank{deck.Ace, deck.Nine, deck.Ace}, 21},
		{"bust", []deck.Rank{deck.Ten, deck.Seven, deck.Five}, 22},
		{"face cards", []deck.Rank{deck.King, deck.Queen}, 20},
		{"ace reduces late", []deck.Rank{deck.Seven, deck.Eight, deck.Ace}, 16},
		{"ace order irrelevant", []deck.Rank{deck.Ace, deck.Seven, deck.Eight}, 16},
		{"three card twenty one", []deck.Rank{deck.Seven, deck.Seven, deck.Seven}, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := handOf(tt.ranks...).Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandBust(t *testing.T) {
	t.Parallel()
	if handOf(deck.Ten, deck.Nine).IsBust() {
		t.Error("19 should not be bust")
	}
	if !handOf(deck.Ten, deck.Seven, deck.Five).IsBust() {
		t.Error("22 should be bust")
	}
	if handOf(deck.Ace, deck.Ace, deck.Nine).IsBust() {
		t.Error("soft hand reducing to 21 should not be bust")
	}
}

func TestHandBlackjack(t *testing.T) {
	t.Parallel()
	if !handOf(deck.Ace, deck.King).IsBlackjack() {
		t.Error("A+K should be a natural")
	}
	if !handOf(deck.Ten, deck.Ace).IsBlackjack() {
		t.Error("T+A should be a natural")
	}
	if handOf(deck.Seven, deck.Seven, deck.Seven).IsBlackjack() {
		t.Error("a three-card 21 is never a natural")
	}
	if handOf(deck.Ten, deck.Nine).IsBlackjack() {
		t.Error("19 is not a natural")
	}
}

func TestHandCanSplit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		ranks []deck.Rank
		want  bool
	}{
		{"pair of eights", []deck.Rank{deck.Eight, deck.Eight}, true},
		{"king and queen", []deck.Rank{deck.King, deck.Queen}, true},
		{"ten and jack", []deck.Rank{deck.Ten, deck.Jack}, true},
		{"pair of aces", []deck.Rank{deck.Ace, deck.Ace}, true},
		{"mixed", []deck.Rank{deck.Eight, deck.Nine}, false},
		{"ace and nine", []deck.Rank{deck.Ace, deck.Nine}, false},
		{"three cards", []deck.Rank{deck.Eight, deck.Eight, deck.Eight}, false},
		{"one card", []deck.Rank{deck.Eight}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := handOf(tt.ranks...).CanSplit(); got != tt.want {
				t.Errorf("CanSplit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandCanSplitRefusedAfterSplit(t *testing.T) {
	t.Parallel()
	h := handOf(deck.Eight, deck.Eight)
	h.bet = 50_00

	next := h.splitOff()

	h.AddCard(deck.NewCard(deck.Eight, deck.Hearts))
	next.AddCard(deck.NewCard(deck.Eight, deck.Diamonds))

	if h.CanSplit() {
		t.Error("original hand should not re-split")
	}
	if next.CanSplit() {
		t.Error("split-off hand should not re-split")
	}
	if next.Bet() != 50_00 {
		t.Errorf("split-off hand bet = %d, want %d", next.Bet(), 50_00)
	}
}

func TestHandCanDouble(t *testing.T) {
	t.Parallel()
	h := handOf(deck.Nine, deck.Three)
	if !h.CanDouble() {
		t.Error("two-card hand should be doubleable")
	}

	h.Stand()
	if h.CanDouble() {
		t.Error("stood hand should not be doubleable")
	}

	three := handOf(deck.Nine, deck.Three, deck.Two)
	if three.CanDouble() {
		t.Error("three-card hand should not be doubleable")
	}
}
