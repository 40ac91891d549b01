// Package store persists player balances and round history. It implements
// the engine's persistence port with interchangeable SQLite and Postgres
// backends; updates are last-write-wins, there are no cross-round
// transaction guarantees.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lox/twentyone/internal/game"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the engine's persistence port plus the admin queries the CLI
// needs
type Store interface {
	game.Store

	// ListPlayers returns every player ordered by balance, highest first
	ListPlayers(ctx context.Context) ([]game.PlayerRecord, error)

	Close() error
}

// Config selects and configures a backend. Fields map to environment
// variables so a .env file or the process environment can override the
// HCL file.
type Config struct {
	Driver string `env:"TWENTYONE_DB_DRIVER" envDefault:"sqlite"`
	Path   string `env:"TWENTYONE_DB_PATH" envDefault:"twentyone.db"`
	DSN    string `env:"TWENTYONE_DB_DSN"`
}

// Open creates the configured backend
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case DriverPostgres, "postgresql", "pg":
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q (supported: %s, %s)", cfg.Driver, DriverSQLite, DriverPostgres)
	}
}
