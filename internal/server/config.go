package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/store"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableConfig    `hcl:"table,block"`
	Store  StoreConfig    `hcl:"store,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Addr            string `hcl:"addr,optional"`
	LogLevel        string `hcl:"log_level,optional"`
	SessionIdleMins int    `hcl:"session_idle_minutes,optional"`
}

// TableConfig defines the blackjack table. Amounts are in whole currency
// units; they are converted to cents for the engine.
type TableConfig struct {
	MinBet       int64 `hcl:"min_bet,optional"`
	MaxBet       int64 `hcl:"max_bet,optional"`
	StartBalance int64 `hcl:"start_balance,optional"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string `hcl:"driver,optional"`
	Path   string `hcl:"path,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:            ":8080",
			LogLevel:        "info",
			SessionIdleMins: 30,
		},
		Table: TableConfig{
			MinBet:       10,
			MaxBet:       1000,
			StartBalance: 1000,
		},
		Store: StoreConfig{
			Driver: store.DriverSQLite,
			Path:   "twentyone.db",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Addr == "" {
		config.Server.Addr = defaults.Server.Addr
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Server.SessionIdleMins == 0 {
		config.Server.SessionIdleMins = defaults.Server.SessionIdleMins
	}
	if config.Table.MinBet == 0 {
		config.Table.MinBet = defaults.Table.MinBet
	}
	if config.Table.MaxBet == 0 {
		config.Table.MaxBet = defaults.Table.MaxBet
	}
	if config.Table.StartBalance == 0 {
		config.Table.StartBalance = defaults.Table.StartBalance
	}
	if config.Store.Driver == "" {
		config.Store.Driver = defaults.Store.Driver
	}
	if config.Store.Driver == store.DriverSQLite && config.Store.Path == "" {
		config.Store.Path = defaults.Store.Path
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Table.MinBet <= 0 {
		return fmt.Errorf("min_bet must be positive, got %d", c.Table.MinBet)
	}
	if c.Table.MaxBet <= c.Table.MinBet {
		return fmt.Errorf("max_bet must be greater than min_bet")
	}
	if c.Table.StartBalance < c.Table.MinBet {
		return fmt.Errorf("start_balance %d cannot cover the minimum bet %d", c.Table.StartBalance, c.Table.MinBet)
	}
	if c.Store.Driver == store.DriverPostgres && c.Store.DSN == "" {
		return fmt.Errorf("postgres driver requires a dsn")
	}
	return nil
}

// Rules converts the table configuration to engine rules, in cents
func (c *Config) Rules() game.Rules {
	return game.Rules{
		MinBet:       c.Table.MinBet * 100,
		MaxBet:       c.Table.MaxBet * 100,
		StartBalance: c.Table.StartBalance * 100,
		DealerStand:  17,
	}
}

// StoreConfig converts to the store package's config
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver: c.Store.Driver,
		Path:   c.Store.Path,
		DSN:    c.Store.DSN,
	}
}
