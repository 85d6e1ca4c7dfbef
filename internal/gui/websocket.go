package gui

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/playback"
	"github.com/kinviz/kinviz/internal/server"
	"github.com/kinviz/kinviz/internal/world"
)

// WebsocketSession renders through a browser GUI. A background ticker
// replays the active loop against the session's cloned world and pushes
// snapshots to every connected viewer.
type WebsocketSession struct {
	log   *zap.Logger
	world world.World
	opts  Options

	srv    *server.WSServer
	static *server.StaticServer
	ticker *playback.Ticker
	loop   playback.Loop

	// mu serializes access to the cloned world between the tick goroutine
	// and callers (DisplayState, Stats), and guards teardown.
	mu      sync.Mutex
	blocked chan struct{}
	closed  bool
}

func newWebsocketSession(w world.World, opts Options) (*WebsocketSession, error) {
	s := &WebsocketSession{
		log:     opts.Logger,
		world:   w.Clone(),
		opts:    opts,
		srv:     server.NewWSServer(opts.Logger),
		blocked: make(chan struct{}),
	}

	period := time.Duration(float64(time.Second) * w.TimeStep() * opts.TickMultiplier)
	s.ticker = playback.NewTicker(period, s.onTick)

	// The original starts replaying once a viewer shows up.
	s.srv.OnConnection(func() { s.ticker.Start() })

	if err := s.srv.RenderWorld(s.world); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WebsocketSession) onTick(time.Time) {
	frame, ok := s.loop.Next()
	if !ok {
		return
	}
	s.mu.Lock()
	s.world.SetPositions(frame)
	err := s.srv.RenderWorld(s.world)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("render tick failed", zap.Error(err))
	}
}

func (s *WebsocketSession) Serve(port int) error {
	if err := s.srv.Serve(s.opts.WSPort); err != nil {
		return err
	}
	s.static = server.NewStaticServer(s.opts.AssetsDir, port, s.log)
	return s.static.Start()
}

func (s *WebsocketSession) DisplayState(state world.State) error {
	// Cancel the loop first so the next tick cannot clobber this state.
	s.loop.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.SetState(state)
	return s.srv.RenderWorld(s.world)
}

func (s *WebsocketSession) LoopStates(states []world.State, _ LoopOptions) error {
	traj := world.TrajectoryFromStates(states, s.world.DofCount())
	return s.LoopPositions(traj)
}

func (s *WebsocketSession) LoopPositions(t *world.Trajectory) error {
	if err := s.srv.RenderTrajectoryLines(s.world, t); err != nil {
		return err
	}
	s.loop.Set(t)
	return nil
}

func (s *WebsocketSession) StopLooping() {
	s.loop.Stop()
}

func (s *WebsocketSession) BlockWhileServing() {
	<-s.blocked
}

func (s *WebsocketSession) Native() Handle {
	return s.srv
}

// Stats reports live playback numbers for monitoring UIs. Safe to call
// while the ticker is running.
func (s *WebsocketSession) Stats() Stats {
	s.mu.Lock()
	pos := s.world.State().Positions(s.world.DofCount()).Clone()
	s.mu.Unlock()

	return Stats{
		Backend:     BackendWebsocket,
		Looping:     s.loop.Active(),
		Cursor:      s.loop.Cursor(),
		Frames:      s.loop.Len(),
		Connections: s.srv.ConnectionCount(),
		TickPeriod:  s.ticker.Period(),
		Positions:   pos,
	}
}

// Close stops the ticker, the websocket server and the asset server, in
// that order. Repeated calls are no-ops.
func (s *WebsocketSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.ticker.Stop()
	err := s.srv.StopServing()
	if s.static != nil {
		if serr := s.static.Shutdown(); err == nil {
			err = serr
		}
	}
	close(s.blocked)
	return err
}

// Stats is a point-in-time view of a session's playback state.
type Stats struct {
	Backend     Backend
	Looping     bool
	Cursor      int
	Frames      int
	Connections int
	TickPeriod  time.Duration
	Positions   world.State
}
