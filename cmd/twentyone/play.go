package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/store"
	"github.com/lox/twentyone/internal/tui"
)

// PlayCmd runs a local table in the terminal. The store is configured
// from the environment (or a .env file), not the server's HCL config.
type PlayCmd struct {
	Seed      *int64 `kong:"help='Deterministic shoe seed (optional)'"`
	NoPersist bool   `kong:"help='Play without saving balances'"`
	Debug     bool   `kong:"help='Enable debug logging to twentyone.log'"`
}

func (c *PlayCmd) Run() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
	if c.Debug {
		// The terminal belongs to the TUI, so debug logs go to a file
		f, err := os.OpenFile("twentyone.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{Level: log.DebugLevel, ReportTimestamp: true})
	}

	// Match lipgloss rendering to what the terminal supports
	lipgloss.SetColorProfile(termenv.ColorProfile())

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	rules := game.DefaultRules()

	var st game.Store = game.NopStore{}
	if !c.NoPersist {
		// .env is optional; real environment still wins
		_ = godotenv.Load()

		var cfg store.Config
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("reading store config from env: %w", err)
		}

		opened, err := store.Open(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer opened.Close()
		st = opened
	}

	model := tui.New(st, rules, seed, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running table: %w", err)
	}
	return nil
}
