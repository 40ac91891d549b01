package game

// Rules holds the table constants the engine consumes. All money amounts
// are in cents. Payout odds are fixed house policy: naturals pay 3:2,
// regular wins pay 1:1, and the dealer draws below DealerStand regardless
// of softness.
type Rules struct {
	MinBet       int64
	MaxBet       int64
	StartBalance int64
	DealerStand  int
}

// DefaultRules returns the standard table: $10–$1000 bets, $1000 starting
// balance, dealer stands at 17.
func DefaultRules() Rules {
	return Rules{
		MinBet:       10_00,
		MaxBet:       1000_00,
		StartBalance: 1000_00,
		DealerStand:  17,
	}
}

// blackjackPayout is the total credited for a winning natural: the stake
// back plus 3:2. Exact for whole-currency bets.
func blackjackPayout(bet int64) int64 {
	return bet * 5 / 2
}

// winPayout is the total credited for a regular win: the stake back plus 1:1
func winPayout(bet int64) int64 {
	return bet * 2
}
