package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-rl-playground/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
)

var upgrader = websocket.Upgrader{}

// Controls delivers a message to the actor driving engine.
type Controls interface {
	Tell(ctx context.Context, engine string, msg proto.Message) error
}

// Server exposes the hub over HTTP.
//
//	GET /api/engines    engine names
//	GET /ws/{engine}    websocket of frames; control requests are read back
type Server struct {
	hub      *Hub
	controls Controls
	logger   log.Logger
	router   *mux.Router
}

func NewServer(hub *Hub, controls Controls, logger log.Logger) *Server {
	s := &Server{
		hub:      hub,
		controls: controls,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.router.HandleFunc("/api/engines", s.handleEngines).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/{engine}", s.handleWebsocket).Methods(http.MethodGet)
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled. Open websockets are
// closed on shutdown since their request context derives from ctx.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Infof("Stream server listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) handleEngines(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"engines": simulation.EngineNames})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	engine := mux.Vars(r)["engine"]
	if err := simulation.CheckEngine(engine); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		s.logger.Errorf("upgrade: %v", err)
		return
	}

	id, frames := s.hub.Subscribe(engine)
	defer s.hub.Unsubscribe(engine, id)

	// the new subscriber gets the current state right away
	if err := s.controls.Tell(r.Context(), engine, simulation.Command(simulation.CommandSnapshot)); err != nil {
		s.logger.Errorf("stream %s: initial snapshot: %v", engine, err)
	}

	cli := &client{
		engine:   engine,
		ws:       ws,
		frames:   frames,
		controls: s.controls,
		logger:   s.logger,
	}
	if err := cli.sync(r.Context()); err != nil {
		s.logger.Errorf("stream %s: subscriber %s: %v", engine, id, err)
		return
	}
	s.logger.Debugf("stream %s: subscriber %s disconnected", engine, id)
}
