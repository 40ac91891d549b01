package game

// Outcome is the aggregate label for a completed round, derived by comparing
// the total credited against the total staked across all of the player's
// hands. A natural-blackjack round resolved before dealer play is labelled
// OutcomeBlackjack specifically.
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLoss      Outcome = "LOSS"
	OutcomePush      Outcome = "PUSH"
	OutcomeBlackjack Outcome = "BLACKJACK"
)

// Won reports whether the round counts as a win for the player's record
func (o Outcome) Won() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

func (o Outcome) String() string {
	return string(o)
}

// outcomeFor derives the aggregate label from totals
func outcomeFor(credited, staked int64) Outcome {
	switch {
	case credited > staked:
		return OutcomeWin
	case credited == staked:
		return OutcomePush
	default:
		return OutcomeLoss
	}
}
