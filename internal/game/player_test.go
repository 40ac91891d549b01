package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/deck"
)

func TestPlayerPlaceBet(t *testing.T) {
	t.Parallel()
	p := NewPlayer("alice", 100_00)

	require.NoError(t, p.PlaceBet(25_00))
	require.Equal(t, int64(75_00), p.Balance())
	require.Equal(t, int64(25_00), p.ActiveHand().Bet())
}

func TestPlayerPlaceBetInvalid(t *testing.T) {
	t.Parallel()
	p := NewPlayer("alice", 100_00)

	err := p.PlaceBet(0)
	require.ErrorIs(t, err, ErrInvalidBet)

	err = p.PlaceBet(-10_00)
	require.ErrorIs(t, err, ErrInvalidBet)

	err = p.PlaceBet(200_00)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// No partial mutation on failure
	require.Equal(t, int64(100_00), p.Balance())
	require.Equal(t, int64(0), p.ActiveHand().Bet())
}

func TestPlayerDoubleDown(t *testing.T) {
	t.Parallel()
	p := NewPlayer("bob", 100_00)
	require.NoError(t, p.PlaceBet(40_00))

	require.NoError(t, p.DoubleDown())
	require.Equal(t, int64(20_00), p.Balance())
	require.Equal(t, int64(80_00), p.ActiveHand().Bet())
}

func TestPlayerDoubleDownInsufficientFunds(t *testing.T) {
	t.Parallel()
	p := NewPlayer("bob", 100_00)
	require.NoError(t, p.PlaceBet(60_00))

	err := p.DoubleDown()
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, int64(40_00), p.Balance())
	require.Equal(t, int64(60_00), p.ActiveHand().Bet())
}

func TestPlayerSplit(t *testing.T) {
	t.Parallel()
	p := NewPlayer("carol", 200_00)
	require.NoError(t, p.PlaceBet(50_00))

	p.ActiveHand().AddCard(deck.NewCard(deck.Eight, deck.Spades))
	p.ActiveHand().AddCard(deck.NewCard(deck.Eight, deck.Hearts))

	require.NoError(t, p.Split())
	require.Len(t, p.Hands(), 2)
	require.Equal(t, int64(100_00), p.Balance())

	first, second := p.Hands()[0], p.Hands()[1]
	require.Equal(t, 1, first.Size())
	require.Equal(t, 1, second.Size())
	require.Equal(t, int64(50_00), first.Bet())
	require.Equal(t, int64(50_00), second.Bet())
	require.Equal(t, 0, p.ActiveIndex())
}

func TestPlayerSplitIneligible(t *testing.T) {
	t.Parallel()
	p := NewPlayer("carol", 200_00)
	require.NoError(t, p.PlaceBet(50_00))

	p.ActiveHand().AddCard(deck.NewCard(deck.Eight, deck.Spades))
	p.ActiveHand().AddCard(deck.NewCard(deck.Nine, deck.Hearts))

	err := p.Split()
	require.ErrorIs(t, err, ErrInvalidAction)
	require.Len(t, p.Hands(), 1)
	require.Equal(t, int64(150_00), p.Balance())
}

func TestPlayerSplitInsufficientFunds(t *testing.T) {
	t.Parallel()
	p := NewPlayer("carol", 80_00)
	require.NoError(t, p.PlaceBet(50_00))

	p.ActiveHand().AddCard(deck.NewCard(deck.Eight, deck.Spades))
	p.ActiveHand().AddCard(deck.NewCard(deck.Eight, deck.Hearts))

	err := p.Split()
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Len(t, p.Hands(), 1)
	require.Equal(t, 2, p.ActiveHand().Size())
	require.Equal(t, int64(30_00), p.Balance())
}

func TestPlayerAdvanceHand(t *testing.T) {
	t.Parallel()
	p := NewPlayer("dave", 200_00)
	require.NoError(t, p.PlaceBet(50_00))

	p.ActiveHand().AddCard(deck.NewCard(deck.Seven, deck.Spades))
	p.ActiveHand().AddCard(deck.NewCard(deck.Seven, deck.Hearts))
	require.NoError(t, p.Split())

	require.True(t, p.HasNextHand())
	p.AdvanceHand()
	require.Equal(t, 1, p.ActiveIndex())
	require.False(t, p.HasNextHand())

	// Advancing past the last hand is a no-op, never a wrap-around
	p.AdvanceHand()
	require.Equal(t, 1, p.ActiveIndex())
}

func TestPlayerTotalStakedAndReset(t *testing.T) {
	t.Parallel()
	p := NewPlayer("erin", 200_00)
	require.NoError(t, p.PlaceBet(50_00))

	p.ActiveHand().AddCard(deck.NewCard(deck.Six, deck.Spades))
	p.ActiveHand().AddCard(deck.NewCard(deck.Six, deck.Hearts))
	require.NoError(t, p.Split())
	require.Equal(t, int64(100_00), p.TotalStaked())

	p.ResetHands()
	require.Len(t, p.Hands(), 1)
	require.Equal(t, 0, p.ActiveIndex())
	require.Equal(t, int64(0), p.TotalStaked())
}

func TestPlayerAllBusted(t *testing.T) {
	t.Parallel()
	p := NewPlayer("frank", 100_00)

	h := p.ActiveHand()
	h.AddCard(deck.NewCard(deck.Ten, deck.Spades))
	h.AddCard(deck.NewCard(deck.Seven, deck.Hearts))
	if p.AllBusted() {
		t.Error("17 is not a bust")
	}

	h.AddCard(deck.NewCard(deck.Five, deck.Clubs))
	if !p.AllBusted() {
		t.Error("22 should bust the only hand")
	}
}
