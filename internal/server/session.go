package server

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/roundid"
)

// Player names are 3–20 letters, digits and spaces
var nameRe = regexp.MustCompile(`^[\p{L}\p{N} ]+$`)

func validPlayerName(name string) bool {
	return len(name) >= 3 && len(name) <= 20 && nameRe.MatchString(name)
}

// Session is one connected player's seat at the table. It owns its Engine
// outright, so concurrent tables never share state; the engine is
// single-threaded and the session's read loop is the only caller.
type Session struct {
	id     string
	conn   *websocket.Conn
	server *Server
	logger zerolog.Logger
	clock  quartz.Clock

	engine *game.Engine

	mu         sync.Mutex
	lastActive time.Time
}

func newSession(server *Server, conn *websocket.Conn, logger zerolog.Logger) *Session {
	id := roundid.Generate()
	return &Session{
		id:         id,
		conn:       conn,
		server:     server,
		logger:     logger.With().Str("session", id).Logger(),
		clock:      server.clock,
		lastActive: server.clock.Now(),
	}
}

// touch records activity for idle expiry
func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.clock.Now()
	s.mu.Unlock()
}

// idleSince reports the last activity time
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// run reads and dispatches messages until the connection closes. The first
// message must be a join; everything after that is a table operation.
func (s *Session) run(ctx context.Context) {
	defer s.conn.Close()

	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("Connection closed unexpectedly")
			}
			return
		}
		s.touch()

		if err := s.dispatch(ctx, &msg); err != nil {
			s.sendError(err)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// dispatch routes one client message. Engine errors come back wrapped so
// sendError can map them to wire codes.
func (s *Session) dispatch(ctx context.Context, msg *Message) error {
	if s.engine == nil {
		if msg.Type != MessageTypeJoin {
			return fmt.Errorf("%w: join before playing", game.ErrInvalidAction)
		}
		return s.handleJoin(ctx, msg.Data)
	}

	var (
		snap game.Snapshot
		err  error
	)
	switch msg.Type {
	case MessageTypeJoin:
		return fmt.Errorf("%w: already seated", game.ErrInvalidAction)
	case MessageTypeBet:
		var data BetData
		if jsonErr := json.Unmarshal(msg.Data, &data); jsonErr != nil {
			return fmt.Errorf("%w: malformed bet: %v", game.ErrInvalidBet, jsonErr)
		}
		snap, err = s.engine.PlaceBet(data.Amount)
	case MessageTypeHit:
		snap, err = s.engine.Hit()
	case MessageTypeStand:
		snap, err = s.engine.Stand()
	case MessageTypeDouble:
		snap, err = s.engine.Double()
	case MessageTypeSplit:
		snap, err = s.engine.Split()
	case MessageTypeNewRound:
		snap, err = s.engine.StartNewRound()
	default:
		return fmt.Errorf("%w: unknown message type %q", game.ErrInvalidAction, msg.Type)
	}
	if err != nil {
		return err
	}

	return s.send(MessageTypeSnapshot, SnapshotData{Snapshot: snap})
}

// handleJoin seats the player: look them up, creating them with the
// table's starting balance on first visit, then build their engine.
func (s *Session) handleJoin(ctx context.Context, raw json.RawMessage) error {
	var data JoinData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: malformed join: %v", game.ErrInvalidAction, err)
	}
	if !validPlayerName(data.PlayerName) {
		return fmt.Errorf("%w: player name must be 3-20 letters, digits or spaces", game.ErrInvalidAction)
	}

	rules := s.server.rules
	rec, err := s.server.store.FindPlayer(ctx, data.PlayerName)
	if err != nil {
		return fmt.Errorf("looking up player: %w", err)
	}
	if rec == nil {
		rec, err = s.server.store.CreatePlayer(ctx, data.PlayerName, rules.StartBalance)
		if err != nil {
			return fmt.Errorf("creating player: %w", err)
		}
		s.logger.Info().Str("player", rec.Name).Msg("New player created")
	}

	player := game.NewPlayer(rec.Name, rec.Balance)
	player.ID = rec.ID
	s.engine = game.NewEngine(s.logger, s.server.sessionRNG(), player,
		game.WithRules(rules),
		game.WithStore(s.server.store),
	)

	s.logger.Info().Str("player", rec.Name).Int64("balance", rec.Balance).Msg("Player seated")
	return s.send(MessageTypeWelcome, WelcomeData{
		PlayerName: rec.Name,
		Balance:    rec.Balance,
		MinBet:     rules.MinBet,
		MaxBet:     rules.MaxBet,
	})
}

func (s *Session) send(messageType MessageType, data interface{}) error {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

// sendError reports a failed operation without closing the connection.
// The engine guarantees no state changed, so the client's last snapshot
// is still accurate.
func (s *Session) sendError(opErr error) {
	s.logger.Debug().Err(opErr).Msg("Operation rejected")
	if err := s.send(MessageTypeError, ErrorData{
		Code:    errorCode(opErr),
		Message: opErr.Error(),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send error message")
	}
}
