package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/lox/twentyone/internal/store"
)

// StatsCmd prints player standings from the store
type StatsCmd struct{}

func (c *StatsCmd) Run() error {
	_ = godotenv.Load()

	var cfg store.Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("reading store config from env: %w", err)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	players, err := st.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("listing players: %w", err)
	}
	if len(players) == 0 {
		fmt.Println("No players yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tBALANCE\tROUNDS\tWON")
	for _, p := range players {
		fmt.Fprintf(w, "%s\t$%d.%02d\t%d\t%d\n", p.Name, p.Balance/100, p.Balance%100, p.RoundsPlayed, p.RoundsWon)
	}
	return w.Flush()
}
