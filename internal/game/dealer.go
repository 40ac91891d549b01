package game

// Dealer owns exactly one hand. Its second dealt card starts face down and
// is revealed exactly once, when the dealer's turn begins.
type Dealer struct {
	hand *Hand
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{hand: NewHand()}
}

// Hand returns the dealer's hand
func (d *Dealer) Hand() *Hand {
	return d.hand
}

// MustHit reports whether house policy forces another card: the dealer
// draws while strictly below the stand threshold, soft or hard alike.
func (d *Dealer) MustHit(standsAt int) bool {
	return d.hand.Value() < standsAt
}

// Reveal flips the hole card face up
func (d *Dealer) Reveal() {
	d.hand.reveal()
}

// Reset clears the dealer's hand for a new round
func (d *Dealer) Reset() {
	d.hand = NewHand()
}
