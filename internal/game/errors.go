package game

import "errors"

// Engine operations fail with one of three recoverable kinds. The engine
// validates fully before touching balance, hands, or state, so a returned
// error always means nothing was mutated. Callers discriminate with
// errors.Is.
var (
	// ErrInvalidBet is returned when a bet is non-positive or outside the
	// table's minimum/maximum.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInsufficientFunds is returned when a bet, double or split stake
	// exceeds the player's current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAction is returned when an operation is not legal in the
	// current round state or for the current hand.
	ErrInvalidAction = errors.New("invalid action")
)
