package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/services/gatekeeper"
)

const defaultBroadcastInterval = 2 * time.Second

// Server exposes the dashboard surface: a JSON command API and a websocket
// stream of live snapshots.
type Server struct {
	gatekeeper gatekeeper.Service
	kicker     gatekeeper.Kicker
	hub        *Hub
	interval   time.Duration
	log        zerolog.Logger

	httpServer *http.Server
	upgrader   websocket.Upgrader
	cancel     context.CancelFunc
}

// Config holds the configuration for the dashboard server
type Config struct {
	// Addr is the listen address, e.g. ":8080"
	Addr string

	// Gatekeeper serves snapshots and manual refreshes
	Gatekeeper gatekeeper.Service

	// Kicker backs the dashboard kick action
	Kicker gatekeeper.Kicker

	// BroadcastInterval is the snapshot push cadence; defaults to 2s
	BroadcastInterval time.Duration

	// Logger for request and broadcast errors
	Logger zerolog.Logger
}

// New creates a new dashboard server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Addr == "" {
		return nil, errors.New("addr cannot be empty")
	}
	if cfg.Gatekeeper == nil {
		return nil, errors.New("gatekeeper service cannot be nil")
	}
	if cfg.Kicker == nil {
		return nil, errors.New("kicker cannot be nil")
	}

	interval := cfg.BroadcastInterval
	if interval <= 0 {
		interval = defaultBroadcastInterval
	}

	s := &Server{
		gatekeeper: cfg.Gatekeeper,
		kicker:     cfg.Kicker,
		hub:        NewHub(cfg.Logger, nil),
		interval:   interval,
		log:        cfg.Logger,
		upgrader: websocket.Upgrader{
			// the dashboard is served from elsewhere
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/players", s.handlePlayers).Methods(http.MethodGet)
	router.HandleFunc("/api/refresh", s.handleRefresh).Methods(http.MethodPost)
	router.HandleFunc("/api/players/{name}/kick", s.handleKick).Methods(http.MethodPost)
	router.HandleFunc("/api/players/{name}/refresh", s.handlePlayerRefresh).Methods(http.MethodPost)
	router.HandleFunc("/ws", s.handleWebsocket)
	router.Use(s.requestLogger)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	return s, nil
}

// Start launches the hub, the snapshot broadcaster and the HTTP listener
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.hub.Run(ctx)
	go s.broadcastLoop(ctx)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("dashboard server failed")
		}
	}()
}

// Stop shuts the listener and the broadcaster down
func (s *Server) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler tree, mainly for tests
func (s *Server) Router() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pushSnapshot(ctx)
		}
	}
}

func (s *Server) pushSnapshot(ctx context.Context) {
	out, err := s.gatekeeper.GetSnapshot(ctx, &gatekeeper.GetSnapshotInput{})
	if err != nil {
		s.log.Warn().Err(err).Msg("snapshot for broadcast failed")
		return
	}

	payload, err := json.Marshal(out.Snapshot)
	if err != nil {
		s.log.Warn().Err(err).Msg("snapshot marshal failed")
		return
	}

	s.hub.Broadcast(payload)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	out, err := s.gatekeeper.GetSnapshot(r.Context(), &gatekeeper.GetSnapshotInput{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, out.Snapshot)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	out, err := s.gatekeeper.GetSnapshot(r.Context(), &gatekeeper.GetSnapshotInput{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, out.Snapshot.Players)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	out, err := s.gatekeeper.RefreshAll(r.Context(), &gatekeeper.RefreshAllInput{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"checked": out.Checked})
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("player name required"))
		return
	}

	if !s.kicker.Kick(r.Context(), name, "Removed via dashboard") {
		s.writeError(w, http.StatusBadGateway, errors.New("kick failed"))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"kicked": name})
}

func (s *Server) handlePlayerRefresh(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("player name required"))
		return
	}

	err := s.gatekeeper.RefreshPlayer(r.Context(), &gatekeeper.RefreshPlayerInput{
		GameUsername: name,
	})
	switch {
	case errors.Is(err, gatekeeper.ErrPlayerNotActive), errors.Is(err, gatekeeper.ErrUnknownIdentity):
		s.writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"refreshed": name})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.hub.Attach(conn)

	// give the new subscriber a snapshot right away
	s.pushSnapshot(r.Context())
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("dashboard request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("response write failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
