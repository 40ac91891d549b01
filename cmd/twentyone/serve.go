package main

import (
	"fmt"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/server"
	"github.com/lox/twentyone/internal/store"
)

// ServeCmd runs the WebSocket blackjack server
type ServeCmd struct {
	Config string `kong:"default='twentyone.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address (overrides config)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	JSON   bool   `kong:"help='Structured JSON logs instead of console output'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var logger = shared.SetupLogger(cfg.Server.LogLevel)
	if c.JSON {
		logger = shared.SetupStructuredLogger(cfg.Server.LogLevel)
	}

	ctx := shared.SetupSignalHandler(logger)

	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Int64("min_bet", cfg.Table.MinBet).
		Int64("max_bet", cfg.Table.MaxBet).
		Int64("start_balance", cfg.Table.StartBalance).
		Str("store", cfg.Store.Driver).
		Msg("Starting twentyone server")

	srv := server.New(cfg, st, logger)
	return srv.Run(ctx)
}
