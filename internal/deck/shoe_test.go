package deck

import (
	"testing"

	"github.com/lox/twentyone/internal/randutil"
)

func TestShoeDealsFullDeck(t *testing.T) {
	t.Parallel()
	shoe := NewShoe(randutil.New(42))

	if shoe.Remaining() != 52 {
		t.Fatalf("new shoe has %d cards, want 52", shoe.Remaining())
	}

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card := shoe.Draw()
		card.FaceDown = false
		if seen[card] {
			t.Errorf("card %s dealt twice", card)
		}
		seen[card] = true
	}
	if len(seen) != 52 {
		t.Errorf("dealt %d distinct cards, want 52", len(seen))
	}
}

func TestShoeRefillsWhenExhausted(t *testing.T) {
	t.Parallel()
	shoe := NewShoe(randutil.New(7))

	for i := 0; i < 52; i++ {
		shoe.Draw()
	}
	if shoe.Remaining() != 0 {
		t.Fatalf("expected empty shoe, got %d cards", shoe.Remaining())
	}

	// The next draw triggers a fresh 52-card refill with no repeats until
	// the following exhaustion.
	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card := shoe.Draw()
		if seen[card] {
			t.Errorf("card %s dealt twice after refill", card)
		}
		seen[card] = true
	}
	if len(seen) != 52 {
		t.Errorf("refilled shoe dealt %d distinct cards, want 52", len(seen))
	}
}

func TestShoeFromCardsDealsInOrder(t *testing.T) {
	t.Parallel()
	rigged := []Card{
		NewCard(Ace, Spades),
		NewCard(King, Hearts),
		NewCard(Seven, Clubs),
	}
	shoe := NewShoeFromCards(randutil.New(1), rigged...)

	for i, want := range rigged {
		if got := shoe.Draw(); got != want {
			t.Errorf("draw %d = %s, want %s", i, got, want)
		}
	}

	// Rigged cards exhausted; the shoe falls back to a full refill.
	if got := shoe.Draw(); got == (Card{}) {
		t.Error("expected a card from the refilled shoe")
	}
	if shoe.Remaining() != 51 {
		t.Errorf("remaining = %d, want 51", shoe.Remaining())
	}
}

func TestShoeShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()
	a := NewShoe(randutil.New(99))
	b := NewShoe(randutil.New(99))

	for i := 0; i < 52; i++ {
		if ca, cb := a.Draw(), b.Draw(); ca != cb {
			t.Fatalf("draw %d differs for identical seeds: %s vs %s", i, ca, cb)
		}
	}
}
