package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/game"
)

func TestNewMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(MessageTypeBet, BetData{Amount: 50_00})
	require.NoError(t, err)
	require.False(t, msg.Timestamp.IsZero())

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, MessageTypeBet, decoded.Type)

	var data BetData
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	require.Equal(t, int64(50_00), data.Amount)
}

func TestNewMessageNilData(t *testing.T) {
	msg, err := NewMessage(MessageTypeHit, nil)
	require.NoError(t, err)
	require.Nil(t, msg.Data)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{game.ErrInvalidBet, "invalid_bet"},
		{game.ErrInsufficientFunds, "insufficient_funds"},
		{game.ErrInvalidAction, "invalid_action"},
		{fmt.Errorf("wrapped: %w", game.ErrInvalidAction), "invalid_action"},
		{errors.New("database on fire"), "internal"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, errorCode(tt.err), "for error %v", tt.err)
	}
}

func TestValidPlayerName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Ana", true},
		{"Jugador 7", true},
		{"ab", false},
		{"a really long player name here", false},
		{"no-hyphens", false},
		{"semi;colon", false},
		{"", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, validPlayerName(tt.name), "for name %q", tt.name)
	}
}
