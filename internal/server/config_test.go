package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twentyone.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  addr                 = ":9090"
  log_level            = "debug"
  session_idle_minutes = 10
}

table {
  min_bet       = 5
  max_bet       = 500
  start_balance = 2000
}

store {
  driver = "sqlite"
  path   = "/tmp/test.db"
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", config.Server.Addr)
	require.Equal(t, "debug", config.Server.LogLevel)
	require.Equal(t, 10, config.Server.SessionIdleMins)
	require.Equal(t, int64(5), config.Table.MinBet)
	require.Equal(t, int64(500), config.Table.MaxBet)
	require.Equal(t, int64(2000), config.Table.StartBalance)
	require.Equal(t, "/tmp/test.db", config.Store.Path)
}

func TestLoadConfigPartialFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
server {
  addr = ":7000"
}

table {}

store {}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":7000", config.Server.Addr)
	require.Equal(t, "info", config.Server.LogLevel)
	require.Equal(t, int64(10), config.Table.MinBet)
	require.Equal(t, int64(1000), config.Table.MaxBet)
	require.Equal(t, "twentyone.db", config.Store.Path)
}

func TestLoadConfigInvalidHCL(t *testing.T) {
	path := writeConfig(t, `server { addr = `)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"zero min bet", func(c *Config) { c.Table.MinBet = 0 }, "min_bet"},
		{"max below min", func(c *Config) { c.Table.MaxBet = 5 }, "max_bet"},
		{"balance below min bet", func(c *Config) { c.Table.StartBalance = 5 }, "start_balance"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = "postgres"; c.Store.DSN = "" }, "dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfigRulesConvertsToCents(t *testing.T) {
	rules := DefaultConfig().Rules()
	require.Equal(t, int64(10_00), rules.MinBet)
	require.Equal(t, int64(1000_00), rules.MaxBet)
	require.Equal(t, int64(1000_00), rules.StartBalance)
	require.Equal(t, 17, rules.DealerStand)
}
