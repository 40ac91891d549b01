package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lox/twentyone/internal/game"
)

// PostgresStore persists players and rounds in Postgres via a pgx pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the DSN and ensures the schema
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres DSN")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := ensurePostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) FindPlayer(ctx context.Context, name string) (*game.PlayerRecord, error) {
	var rec game.PlayerRecord
	err := s.pool.QueryRow(ctx, `
SELECT id, name, balance, rounds_played, rounds_won
FROM players
WHERE name = $1
`, name).Scan(&rec.ID, &rec.Name, &rec.Balance, &rec.RoundsPlayed, &rec.RoundsWon)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.pool.Exec(ctx, `
UPDATE players SET last_seen = NOW() WHERE id = $1
`, rec.ID); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) CreatePlayer(ctx context.Context, name string, balance int64) (*game.PlayerRecord, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
INSERT INTO players (name, balance) VALUES ($1, $2) RETURNING id
`, name, balance).Scan(&id)
	if err != nil {
		return nil, err
	}
	return &game.PlayerRecord{ID: id, Name: name, Balance: balance}, nil
}

func (s *PostgresStore) UpdateBalance(ctx context.Context, playerID int64, balance int64) error {
	_, err := s.pool.Exec(ctx, `
UPDATE players SET balance = $1 WHERE id = $2
`, balance, playerID)
	return err
}

func (s *PostgresStore) RecordRound(ctx context.Context, playerID int64, roundID string, staked int64, outcome game.Outcome, credited int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO rounds (player_id, round_id, staked, outcome, credited)
VALUES ($1, $2, $3, $4, $5)
`, playerID, roundID, staked, outcome.String(), credited)
	if err != nil {
		return err
	}

	won := 0
	if outcome.Won() {
		won = 1
	}
	_, err = tx.Exec(ctx, `
UPDATE players
SET rounds_played = rounds_played + 1,
    rounds_won = rounds_won + $1
WHERE id = $2
`, won, playerID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) ListPlayers(ctx context.Context) ([]game.PlayerRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, name, balance, rounds_played, rounds_won
FROM players
ORDER BY balance DESC, name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []game.PlayerRecord
	for rows.Next() {
		var rec game.PlayerRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Balance, &rec.RoundsPlayed, &rec.RoundsWon); err != nil {
			return nil, err
		}
		players = append(players, rec)
	}
	return players, rows.Err()
}

func ensurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS players (
    id BIGSERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    balance BIGINT NOT NULL,
    rounds_played INTEGER NOT NULL DEFAULT 0,
    rounds_won INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`
CREATE TABLE IF NOT EXISTS rounds (
    id BIGSERIAL PRIMARY KEY,
    player_id BIGINT NOT NULL REFERENCES players(id),
    round_id TEXT NOT NULL,
    staked BIGINT NOT NULL,
    outcome TEXT NOT NULL,
    credited BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
