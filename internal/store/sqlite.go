package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/twentyone/internal/game"
)

// SQLiteStore persists players and rounds in a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) a SQLite database at path and
// ensures the schema. ":memory:" gives an ephemeral database for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FindPlayer returns the named player, touching last_seen, or (nil, nil)
// when no such player exists
func (s *SQLiteStore) FindPlayer(ctx context.Context, name string) (*game.PlayerRecord, error) {
	var rec game.PlayerRecord
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, balance, rounds_played, rounds_won
FROM players
WHERE name = ?
`, name).Scan(&rec.ID, &rec.Name, &rec.Balance, &rec.RoundsPlayed, &rec.RoundsWon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
UPDATE players SET last_seen = CURRENT_TIMESTAMP WHERE id = ?
`, rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreatePlayer inserts a new player with the given starting balance
func (s *SQLiteStore) CreatePlayer(ctx context.Context, name string, balance int64) (*game.PlayerRecord, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO players (name, balance) VALUES (?, ?)
`, name, balance)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &game.PlayerRecord{ID: id, Name: name, Balance: balance}, nil
}

// UpdateBalance overwrites the player's balance (last write wins)
func (s *SQLiteStore) UpdateBalance(ctx context.Context, playerID int64, balance int64) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE players SET balance = ? WHERE id = ?
`, balance, playerID)
	return err
}

// RecordRound appends a round to the history and bumps the player's
// played/won counters
func (s *SQLiteStore) RecordRound(ctx context.Context, playerID int64, roundID string, staked int64, outcome game.Outcome, credited int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO rounds (player_id, round_id, staked, outcome, credited)
VALUES (?, ?, ?, ?, ?)
`, playerID, roundID, staked, outcome.String(), credited)
	if err != nil {
		return err
	}

	won := 0
	if outcome.Won() {
		won = 1
	}
	_, err = tx.ExecContext(ctx, `
UPDATE players
SET rounds_played = rounds_played + 1,
    rounds_won = rounds_won + ?
WHERE id = ?
`, won, playerID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListPlayers returns every player, highest balance first
func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]game.PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
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

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    balance INTEGER NOT NULL,
    rounds_played INTEGER NOT NULL DEFAULT 0,
    rounds_won INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
		`
CREATE TABLE IF NOT EXISTS rounds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    player_id INTEGER NOT NULL,
    round_id TEXT NOT NULL,
    staked INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    credited INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (player_id) REFERENCES players(id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
