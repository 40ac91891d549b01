package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/twentyone/internal/game"
)

// MessageType identifies a WebSocket message
type MessageType string

// Client → Server
const (
	MessageTypeJoin     MessageType = "join"
	MessageTypeBet      MessageType = "bet"
	MessageTypeHit      MessageType = "hit"
	MessageTypeStand    MessageType = "stand"
	MessageTypeDouble   MessageType = "double"
	MessageTypeSplit    MessageType = "split"
	MessageTypeNewRound MessageType = "new_round"
)

// Server → Client
const (
	MessageTypeWelcome  MessageType = "welcome"
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeError    MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var dataBytes json.RawMessage
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		dataBytes = raw
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// JoinData names the player taking the seat
type JoinData struct {
	PlayerName string `json:"playerName"`
}

// BetData carries the wager for a new round, in cents
type BetData struct {
	Amount int64 `json:"amount"`
}

// WelcomeData confirms a seat and reports the table limits, in cents
type WelcomeData struct {
	PlayerName string `json:"playerName"`
	Balance    int64  `json:"balance"`
	MinBet     int64  `json:"minBet"`
	MaxBet     int64  `json:"maxBet"`
}

// SnapshotData wraps the engine snapshot sent after every mutation
type SnapshotData struct {
	Snapshot game.Snapshot `json:"snapshot"`
}

// ErrorData reports a failed operation. The snapshot is unchanged from
// before the attempt; the connection stays open.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCode maps engine errors to wire codes clients can switch on
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, game.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	default:
		return "internal"
	}
}
