package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StaticServer serves the browser GUI assets from a local directory.
type StaticServer struct {
	dir  string
	port int
	log  *zap.Logger

	mu      sync.Mutex
	srv     *http.Server
	running bool
}

func NewStaticServer(dir string, port int, log *zap.Logger) *StaticServer {
	return &StaticServer{dir: dir, port: port, log: log}
}

// Start binds the listener and serves in the background.
func (s *StaticServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("server: static server already running")
	}

	srv := &http.Server{Handler: http.FileServer(http.Dir(s.dir))}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("server: listen on %d: %w", s.port, err)
	}

	s.srv = srv
	s.running = true
	s.log.Info("web GUI serving", zap.String("url", fmt.Sprintf("http://localhost:%d", s.port)))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("static server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the listener; repeated calls are no-ops.
func (s *StaticServer) Shutdown() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
