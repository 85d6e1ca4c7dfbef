// Package server hosts the browser-facing side of the websocket backend:
// a websocket broadcast server for render snapshots and a static file
// server for the bundled GUI assets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/world"
)

const writeWait = 10 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// write sends one message guarded by the subscriber's mutex and a write
// deadline.
func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// WSServer broadcasts render messages to all connected viewers. New
// connections immediately receive the latest world snapshot and
// trajectory overlay, then the connection listener fires.
type WSServer struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	onConnect   func()
	lastWorld   []byte
	lastTraj    []byte
	srv         *http.Server
	addr        string
	serving     bool
}

func NewWSServer(log *zap.Logger) *WSServer {
	return &WSServer{
		log:         log,
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			// The GUI is served from a sibling port, so same-origin checks
			// cannot apply.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// OnConnection registers a callback fired after each viewer connects.
func (s *WSServer) OnConnection(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = fn
}

// Serve starts the websocket listener on the given port. It returns once
// the listener is bound; accepting runs in the background.
func (s *WSServer) Serve(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serving {
		return errors.New("server: already serving")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)
	srv := &http.Server{Handler: mux}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("server: listen on %d: %w", port, err)
	}

	s.srv = srv
	s.addr = ln.Addr().String()
	s.serving = true
	s.log.Info("websocket server listening", zap.String("addr", s.addr))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("websocket server stopped", zap.Error(err))
		}
	}()
	return nil
}

// StopServing closes all viewer connections and the listener. Calling it
// again after success is a no-op.
func (s *WSServer) StopServing() error {
	s.mu.Lock()
	if !s.serving {
		s.mu.Unlock()
		return nil
	}
	s.serving = false
	srv := s.srv
	s.srv = nil
	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.subscribers = make(map[*subscriber]struct{})
	s.mu.Unlock()

	for _, sub := range subs {
		_ = sub.conn.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Addr returns the bound listener address, empty when not serving.
func (s *WSServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.serving {
		return ""
	}
	return s.addr
}

// ConnectionCount returns the number of live viewers.
func (s *WSServer) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// RenderWorld broadcasts a world snapshot. With no viewers connected it
// only refreshes the snapshot replayed to the next connection.
func (s *WSServer) RenderWorld(w world.World) error {
	data, err := json.Marshal(SnapshotWorld(w))
	if err != nil {
		return err
	}
	s.broadcast(data, &s.lastWorld)
	return nil
}

// RenderTrajectoryLines broadcasts the path overlay for a trajectory.
func (s *WSServer) RenderTrajectoryLines(w world.World, t *world.Trajectory) error {
	data, err := json.Marshal(SnapshotTrajectory(t))
	if err != nil {
		return err
	}
	s.broadcast(data, &s.lastTraj)
	return nil
}

func (s *WSServer) broadcast(data []byte, last *[]byte) {
	s.mu.Lock()
	*last = data
	subs := make([]*subscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			s.log.Debug("dropping viewer", zap.Error(err))
			s.remove(sub)
		}
	}
}

func (s *WSServer) remove(sub *subscriber) {
	s.mu.Lock()
	delete(s.subscribers, sub)
	s.mu.Unlock()
	_ = sub.conn.Close()
}

func (s *WSServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn}

	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	lastWorld, lastTraj := s.lastWorld, s.lastTraj
	onConnect := s.onConnect
	s.mu.Unlock()

	s.log.Info("viewer connected", zap.String("remote", conn.RemoteAddr().String()))

	if lastWorld != nil {
		_ = sub.write(lastWorld)
	}
	if lastTraj != nil {
		_ = sub.write(lastTraj)
	}
	if onConnect != nil {
		onConnect()
	}

	// Read pump: the GUI sends nothing we act on, but reading is what
	// detects a closed peer.
	go func() {
		defer s.remove(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
