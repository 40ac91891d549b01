package game

import "fmt"

// Player holds a seated player's identity, balance and hands. The balance
// is debited the moment a bet, double or split stake is placed and credited
// only at settlement. Hands are an ordered slice: index 0 is the original
// hand and splitting inserts the new hand immediately after the active
// index. The active index only ever moves forward.
type Player struct {
	ID   int64
	Name string

	balance int64
	hands   []*Hand
	active  int
}

// NewPlayer creates a player with a single empty hand
func NewPlayer(name string, balance int64) *Player {
	return &Player{
		Name:    name,
		balance: balance,
		hands:   []*Hand{NewHand()},
	}
}

// Balance returns the player's current balance in cents
func (p *Player) Balance() int64 {
	return p.balance
}

// Hands returns the player's hands in play order
func (p *Player) Hands() []*Hand {
	return p.hands
}

// ActiveHand returns the hand currently being played
func (p *Player) ActiveHand() *Hand {
	return p.hands[p.active]
}

// ActiveIndex returns the index of the hand currently being played
func (p *Player) ActiveIndex() int {
	return p.active
}

// PlaceBet debits the balance and sets the active hand's wager. The
// balance is untouched on failure.
func (p *Player) PlaceBet(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be positive, got %d", ErrInvalidBet, amount)
	}
	if amount > p.balance {
		return fmt.Errorf("%w: bet %d exceeds balance %d", ErrInsufficientFunds, amount, p.balance)
	}
	p.balance -= amount
	p.ActiveHand().bet = amount
	return nil
}

// DoubleDown re-debits the active hand's current bet, doubling it
func (p *Player) DoubleDown() error {
	bet := p.ActiveHand().bet
	if bet > p.balance {
		return fmt.Errorf("%w: doubling requires %d, balance is %d", ErrInsufficientFunds, bet, p.balance)
	}
	p.balance -= bet
	p.ActiveHand().bet = bet * 2
	return nil
}

// Split moves the active hand's second card into a new hand inserted
// immediately after the active index, staking it with the same wager.
// Both resulting hands hold a single card until the engine deals each
// its supplemental card.
func (p *Player) Split() error {
	hand := p.ActiveHand()
	if !hand.CanSplit() {
		return fmt.Errorf("%w: hand cannot be split", ErrInvalidAction)
	}
	if hand.bet > p.balance {
		return fmt.Errorf("%w: splitting requires %d, balance is %d", ErrInsufficientFunds, hand.bet, p.balance)
	}

	next := hand.splitOff()
	p.balance -= next.bet

	p.hands = append(p.hands, nil)
	copy(p.hands[p.active+2:], p.hands[p.active+1:])
	p.hands[p.active+1] = next
	return nil
}

// HasNextHand reports whether a hand remains after the active one
func (p *Player) HasNextHand() bool {
	return p.active < len(p.hands)-1
}

// AdvanceHand moves play to the next hand. It is a no-op on the last
// hand; callers detect that with HasNextHand.
func (p *Player) AdvanceHand() {
	if p.HasNextHand() {
		p.active++
	}
}

// Credit adds winnings to the balance. Used only at round settlement.
func (p *Player) Credit(amount int64) {
	p.balance += amount
}

// ResetHands discards all hands and starts over with one empty hand
func (p *Player) ResetHands() {
	p.hands = []*Hand{NewHand()}
	p.active = 0
}

// TotalStaked sums the wagers across all hands
func (p *Player) TotalStaked() int64 {
	var total int64
	for _, h := range p.hands {
		total += h.bet
	}
	return total
}

// AllBusted reports whether every hand has busted
func (p *Player) AllBusted() bool {
	for _, h := range p.hands {
		if !h.IsBust() {
			return false
		}
	}
	return true
}
