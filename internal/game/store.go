package game

import "context"

// PlayerRecord is a persisted player row
type PlayerRecord struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Balance      int64  `json:"balance"`
	RoundsPlayed int    `json:"roundsPlayed"`
	RoundsWon    int    `json:"roundsWon"`
}

// Store is the persistence port the engine notifies. The engine calls
// UpdateBalance and RecordRound exactly once per completed round, after
// evaluation. Calls are best-effort: a store failure is logged by the
// engine and never blocks or rolls back game state.
type Store interface {
	// FindPlayer returns the player by name, or (nil, nil) when absent
	FindPlayer(ctx context.Context, name string) (*PlayerRecord, error)
	CreatePlayer(ctx context.Context, name string, balance int64) (*PlayerRecord, error)
	UpdateBalance(ctx context.Context, playerID int64, balance int64) error
	RecordRound(ctx context.Context, playerID int64, roundID string, staked int64, outcome Outcome, credited int64) error
}

// NopStore discards every notification. Useful for tests and for play
// without persistence.
type NopStore struct{}

func (NopStore) FindPlayer(context.Context, string) (*PlayerRecord, error) {
	return nil, nil
}

func (NopStore) CreatePlayer(_ context.Context, name string, balance int64) (*PlayerRecord, error) {
	return &PlayerRecord{Name: name, Balance: balance}, nil
}

func (NopStore) UpdateBalance(context.Context, int64, int64) error {
	return nil
}

func (NopStore) RecordRound(context.Context, int64, string, int64, Outcome, int64) error {
	return nil
}
