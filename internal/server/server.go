package server

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/store"
)

// Server hosts one blackjack table per WebSocket connection. Sessions are
// independent: each holds its own engine and shoe, sharing only the store.
type Server struct {
	config   *Config
	rules    game.Rules
	store    store.Store
	logger   zerolog.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for idle session expiry
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// New creates a Server from the given config and store
func New(config *Config, st store.Store, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		config:   config,
		rules:    config.Rules(),
		store:    st,
		logger:   logger,
		clock:    quartz.NewReal(),
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// routes builds the HTTP router. Sessions started from /ws stop when
// ctx is cancelled.
func (s *Server) routes(ctx context.Context) http.Handler {
	router := chi.NewRouter()
	router.Get("/health", s.handleHealth)
	router.Get("/api/players", s.handlePlayers)
	router.Get("/ws", s.handleWS(ctx))
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Server.Addr,
		Handler: s.routes(ctx),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.config.Server.Addr).Msg("Server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		s.sweepIdleSessions(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		// Shutdown does not touch hijacked connections, so close the
		// sessions ourselves to unblock their read loops.
		for _, session := range s.snapshotSessions() {
			session.conn.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleWS(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
			return
		}

		session := newSession(s, conn, s.logger)
		s.addSession(session)
		defer s.removeSession(session)

		session.logger.Info().Str("remote", r.RemoteAddr).Msg("Session connected")
		session.run(ctx)
		session.logger.Info().Msg("Session disconnected")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessionCount(),
	})
}

// handlePlayers lists known players ordered by balance
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.ListPlayers(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(players)
}

func (s *Server) addSession(session *Session) {
	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()
}

func (s *Server) removeSession(session *Session) {
	s.mu.Lock()
	delete(s.sessions, session.id)
	s.mu.Unlock()
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sessionRNG builds a fresh shoe RNG per session so tables shuffle
// independently
func (s *Server) sessionRNG() *rand.Rand {
	return randutil.New(rand.Int64())
}

// sweepIdleSessions closes connections that have gone quiet for longer
// than the configured idle window. Closing the conn unblocks the
// session's read loop, which handles the rest of the teardown.
func (s *Server) sweepIdleSessions(ctx context.Context) {
	idle := time.Duration(s.config.Server.SessionIdleMins) * time.Minute
	ticker := s.clock.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := s.clock.Now().Add(-idle)
			for _, session := range s.snapshotSessions() {
				if session.idleSince().Before(cutoff) {
					session.logger.Info().Msg("Closing idle session")
					session.conn.Close()
				}
			}
		}
	}
}

func (s *Server) snapshotSessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}
