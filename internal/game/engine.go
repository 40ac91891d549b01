package game

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/roundid"
)

// State is the engine's round state
type State int

const (
	AwaitingBet State = iota
	PlayerTurn
	DealerTurn
	RoundOver
)

func (s State) String() string {
	switch s {
	case AwaitingBet:
		return "awaiting_bet"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case RoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so snapshots serialize
// states by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for clients decoding
// snapshots
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "awaiting_bet":
		*s = AwaitingBet
	case "player_turn":
		*s = PlayerTurn
	case "dealer_turn":
		*s = DealerTurn
	case "round_over":
		*s = RoundOver
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}

// Engine runs a single-seat blackjack round: it owns the shoe and the
// dealer, holds a reference to the seated player, and is the only
// component that mutates across them. Operations are synchronous and
// single-threaded; a host embedding the engine must serialize calls into
// it (one engine per session, never shared).
type Engine struct {
	rules  Rules
	shoe   *deck.Shoe
	player *Player
	dealer *Dealer
	store  Store
	logger zerolog.Logger

	state    State
	roundID  string
	outcome  Outcome
	credited int64
}

// Option configures an Engine
type Option func(*Engine)

// WithRules overrides the default table rules
func WithRules(rules Rules) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithStore sets the persistence port notified at settlement
func WithStore(store Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithShoe replaces the shoe, letting tests rig the deal order
func WithShoe(shoe *deck.Shoe) Option {
	return func(e *Engine) { e.shoe = shoe }
}

// NewEngine creates an engine for one seated player, starting at
// AwaitingBet with a fresh shuffled shoe.
func NewEngine(logger zerolog.Logger, rng *rand.Rand, player *Player, opts ...Option) *Engine {
	e := &Engine{
		rules:  DefaultRules(),
		shoe:   deck.NewShoe(rng),
		player: player,
		dealer: NewDealer(),
		store:  NopStore{},
		logger: logger.With().Str("component", "engine").Logger(),
		state:  AwaitingBet,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Player returns the seated player
func (e *Engine) Player() *Player {
	return e.player
}

// State returns the current round state
func (e *Engine) State() State {
	return e.state
}

// Rules returns the table rules the engine was configured with
func (e *Engine) Rules() Rules {
	return e.rules
}

// PlaceBet accepts the round's wager, deals the initial cards and checks
// for naturals. On a natural the round resolves immediately; otherwise
// play passes to the player.
func (e *Engine) PlaceBet(amount int64) (Snapshot, error) {
	if e.state != AwaitingBet {
		return e.Snapshot(), fmt.Errorf("%w: cannot bet during %s", ErrInvalidAction, e.state)
	}
	if amount < e.rules.MinBet || amount > e.rules.MaxBet {
		return e.Snapshot(), fmt.Errorf("%w: bet must be between %d and %d", ErrInvalidBet, e.rules.MinBet, e.rules.MaxBet)
	}
	if err := e.player.PlaceBet(amount); err != nil {
		return e.Snapshot(), err
	}

	e.roundID = roundid.Generate()
	e.logger.Debug().Str("round_id", e.roundID).Int64("bet", amount).Msg("Bet placed")

	e.dealInitial()
	e.checkNaturals()
	return e.Snapshot(), nil
}

// dealInitial gives the player two cards and the dealer two, the second
// face down
func (e *Engine) dealInitial() {
	hand := e.player.ActiveHand()
	hand.AddCard(e.shoe.Draw())
	hand.AddCard(e.shoe.Draw())

	e.dealer.Hand().AddCard(e.shoe.Draw())
	hole := e.shoe.Draw()
	hole.FaceDown = true
	e.dealer.Hand().AddCard(hole)
}

// checkNaturals resolves the round immediately when either side was dealt
// a natural; otherwise it is the player's turn.
func (e *Engine) checkNaturals() {
	playerNatural := e.player.ActiveHand().IsBlackjack()
	dealerNatural := e.dealer.Hand().IsBlackjack()
	bet := e.player.ActiveHand().Bet()

	switch {
	case playerNatural && dealerNatural:
		e.dealer.Reveal()
		e.finishRound(bet, OutcomePush)
	case playerNatural:
		e.finishRound(blackjackPayout(bet), OutcomeBlackjack)
	case dealerNatural:
		e.dealer.Reveal()
		e.finishRound(0, OutcomeLoss)
	default:
		e.state = PlayerTurn
	}
}

// Hit deals one card to the active hand. A bust force-stands the hand and
// either advances to the next hand, ends the round as a loss when nothing
// survives, or passes play to the dealer.
func (e *Engine) Hit() (Snapshot, error) {
	if e.state != PlayerTurn {
		return e.Snapshot(), fmt.Errorf("%w: cannot hit during %s", ErrInvalidAction, e.state)
	}
	hand := e.player.ActiveHand()
	if hand.Stood() {
		return e.Snapshot(), fmt.Errorf("%w: hand already stood", ErrInvalidAction)
	}

	hand.AddCard(e.shoe.Draw())
	e.logger.Debug().Int("value", hand.Value()).Msg("Player hit")

	if hand.IsBust() {
		hand.Stand()
		e.afterHandDone()
	}
	return e.Snapshot(), nil
}

// Stand marks the active hand stood and moves on
func (e *Engine) Stand() (Snapshot, error) {
	if e.state != PlayerTurn {
		return e.Snapshot(), fmt.Errorf("%w: cannot stand during %s", ErrInvalidAction, e.state)
	}
	hand := e.player.ActiveHand()
	if hand.Stood() {
		return e.Snapshot(), fmt.Errorf("%w: hand already stood", ErrInvalidAction)
	}

	hand.Stand()
	e.logger.Debug().Int("value", hand.Value()).Msg("Player stands")
	e.afterHandDone()
	return e.Snapshot(), nil
}

// Double doubles the active hand's wager, deals exactly one card and
// force-stands the hand, then follows the same bust/advance logic as Hit.
func (e *Engine) Double() (Snapshot, error) {
	if e.state != PlayerTurn {
		return e.Snapshot(), fmt.Errorf("%w: cannot double during %s", ErrInvalidAction, e.state)
	}
	hand := e.player.ActiveHand()
	if !hand.CanDouble() {
		return e.Snapshot(), fmt.Errorf("%w: doubling requires the first two cards", ErrInvalidAction)
	}
	if err := e.player.DoubleDown(); err != nil {
		return e.Snapshot(), err
	}

	hand.AddCard(e.shoe.Draw())
	hand.Stand()
	e.logger.Debug().Int64("bet", hand.Bet()).Int("value", hand.Value()).Msg("Player doubles")

	e.afterHandDone()
	return e.Snapshot(), nil
}

// Split divides an eligible pair into two hands, stakes the new hand with
// the same wager and deals each half its supplemental card. The active
// index does not move; play continues on the hand at the current index.
func (e *Engine) Split() (Snapshot, error) {
	if e.state != PlayerTurn {
		return e.Snapshot(), fmt.Errorf("%w: cannot split during %s", ErrInvalidAction, e.state)
	}
	if err := e.player.Split(); err != nil {
		return e.Snapshot(), err
	}

	idx := e.player.ActiveIndex()
	e.player.Hands()[idx].AddCard(e.shoe.Draw())
	e.player.Hands()[idx+1].AddCard(e.shoe.Draw())
	e.logger.Debug().Int("hands", len(e.player.Hands())).Msg("Hand split")

	return e.Snapshot(), nil
}

// afterHandDone advances past a finished hand: on to the next hand if one
// remains, straight to a loss when every hand busted (the dealer never
// draws with nothing left to beat), otherwise to dealer auto-play.
func (e *Engine) afterHandDone() {
	switch {
	case e.player.HasNextHand():
		e.player.AdvanceHand()
	case e.player.AllBusted():
		e.finishRound(0, outcomeFor(0, e.player.TotalStaked()))
	default:
		e.dealerPlay()
	}
}

// dealerPlay reveals the hole card and draws until the stand threshold,
// then settles every hand.
func (e *Engine) dealerPlay() {
	e.state = DealerTurn
	e.dealer.Reveal()

	for e.dealer.MustHit(e.rules.DealerStand) {
		e.dealer.Hand().AddCard(e.shoe.Draw())
	}
	e.logger.Debug().Int("dealer_value", e.dealer.Hand().Value()).Msg("Dealer stands")

	credited := e.evaluate()
	e.finishRound(credited, outcomeFor(credited, e.player.TotalStaked()))
}

// evaluate settles each player hand independently against the dealer and
// returns the total to credit. A busted hand always loses its stake. A
// surviving hand beats a busted dealer or a lower total, pushing on a tie.
func (e *Engine) evaluate() int64 {
	dealerValue := e.dealer.Hand().Value()
	dealerBust := e.dealer.Hand().IsBust()

	var credited int64
	for _, hand := range e.player.Hands() {
		if hand.IsBust() {
			continue
		}

		value := hand.Value()
		switch {
		case dealerBust || value > dealerValue:
			if hand.IsBlackjack() {
				credited += blackjackPayout(hand.Bet())
			} else {
				credited += winPayout(hand.Bet())
			}
		case value == dealerValue:
			credited += hand.Bet()
		}
	}
	return credited
}

// finishRound credits winnings, ends the round and notifies the store.
// Store failures are logged and swallowed: persistence is best-effort
// and never blocks game-state progression.
func (e *Engine) finishRound(credited int64, outcome Outcome) {
	e.player.Credit(credited)
	e.credited = credited
	e.outcome = outcome
	e.state = RoundOver

	staked := e.player.TotalStaked()
	e.logger.Info().
		Str("round_id", e.roundID).
		Str("outcome", outcome.String()).
		Int64("staked", staked).
		Int64("credited", credited).
		Int64("balance", e.player.Balance()).
		Msg("Round complete")

	ctx := context.Background()
	if err := e.store.UpdateBalance(ctx, e.player.ID, e.player.Balance()); err != nil {
		e.logger.Error().Err(err).Str("round_id", e.roundID).Msg("Failed to persist balance")
	}
	if err := e.store.RecordRound(ctx, e.player.ID, e.roundID, staked, outcome, credited); err != nil {
		e.logger.Error().Err(err).Str("round_id", e.roundID).Msg("Failed to record round")
	}
}

// StartNewRound resets hands and shuffles at the round boundary, returning
// the table to AwaitingBet. Only the player's balance and identity survive.
func (e *Engine) StartNewRound() (Snapshot, error) {
	if e.state != RoundOver {
		return e.Snapshot(), fmt.Errorf("%w: round still in progress", ErrInvalidAction)
	}

	e.shoe.Shuffle()
	e.player.ResetHands()
	e.dealer.Reset()
	e.roundID = ""
	e.outcome = ""
	e.credited = 0
	e.state = AwaitingBet
	return e.Snapshot(), nil
}
