package gui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/mirror"
	"github.com/kinviz/kinviz/internal/playback"
	"github.com/kinviz/kinviz/internal/world"
)

// MirrorSession renders through a second rigid-body engine kept in sync
// per joint. Playback is blocking and frame-stepped; there is no
// background schedule.
type MirrorSession struct {
	log   *zap.Logger
	world world.World
	opts  Options

	renderer mirror.Renderer
	mirror   *mirror.Mirror
	capture  *mirror.CaptureSink
	null     *NullHandle

	videoID int
	videoOn bool

	mu     sync.Mutex
	closed bool
}

func newMirrorSession(w world.World, r mirror.Renderer, opts Options) (*MirrorSession, error) {
	s := &MirrorSession{
		log:      opts.Logger,
		world:    w.Clone(),
		opts:     opts,
		renderer: r,
		null:     NewNullHandle(opts.Logger),
	}

	if err := r.Connect(opts.Headless); err != nil {
		return nil, fmt.Errorf("gui: connect renderer: %w", err)
	}
	if opts.Headless {
		s.log.Info("renderer connected offscreen")
	} else {
		s.log.Info("renderer connected with window")
	}

	if err := r.SetTimeStep(w.TimeStep()); err != nil {
		return nil, err
	}
	// The mirror only visualizes; gravity would fight the replayed poses.
	if err := r.SetGravity(world.Vec3{}); err != nil {
		return nil, err
	}

	m, err := mirror.Load(r, s.world, s.log)
	if err != nil {
		return nil, err
	}
	s.mirror = m

	if opts.CaptureDir != "" {
		sink, err := mirror.NewCaptureSink(opts.CaptureDir, opts.CameraWidth, opts.CameraHeight)
		if err != nil {
			return nil, err
		}
		s.capture = sink
	}

	if opts.VideoLogPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.VideoLogPath), 0755); err != nil {
			return nil, fmt.Errorf("gui: create video log dir: %w", err)
		}
		id, err := r.StartVideoLog(opts.VideoLogPath)
		if err != nil {
			return nil, err
		}
		s.videoID = id
		s.videoOn = true
	}

	// Show the world's current state before any playback request.
	if err := s.applyFrame(s.world.State(), -1); err != nil {
		return nil, err
	}
	s.log.Info("mirror session initialized",
		zap.Int("skeletons", s.world.SkeletonCount()),
		zap.Int("dofs", s.world.DofCount()))
	return s, nil
}

// applyFrame pushes one state into the renderer and, when the synthetic
// camera is on, grabs the frame buffers. saveIdx < 0 means display only.
func (s *MirrorSession) applyFrame(state world.State, saveIdx int) error {
	if err := s.mirror.ApplyState(s.world, state); err != nil {
		return err
	}
	if !s.opts.SyntheticCamera {
		return nil
	}

	img, err := s.renderer.CameraImage(s.opts.CameraWidth, s.opts.CameraHeight)
	if err != nil {
		return err
	}
	if s.capture != nil && saveIdx >= 0 {
		return s.capture.WriteFrame(img, saveIdx)
	}
	return nil
}

func (s *MirrorSession) Serve(int) error {
	s.warnUnsupported("Serve")
	return nil
}

func (s *MirrorSession) DisplayState(state world.State) error {
	return s.applyFrame(state, -1)
}

func (s *MirrorSession) LoopStates(states []world.State, opts LoopOptions) error {
	return playback.RunFrames(states, s.applyFrame, s.opts.FrameDelay, opts.Indefinite, opts.SaveStart)
}

func (s *MirrorSession) LoopPositions(*world.Trajectory) error {
	s.warnUnsupported("LoopPositions")
	return nil
}

func (s *MirrorSession) StopLooping() {
	s.warnUnsupported("StopLooping")
}

func (s *MirrorSession) BlockWhileServing() {
	s.warnUnsupported("BlockWhileServing")
}

func (s *MirrorSession) Native() Handle {
	s.warnUnsupported("Native")
	return s.null
}

// Close releases, in order, the video log and the renderer connection.
// Repeated calls are no-ops.
func (s *MirrorSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.videoOn {
		if err := s.renderer.StopVideoLog(s.videoID); err != nil {
			return err
		}
		s.videoOn = false
		s.log.Info("video log saved", zap.String("path", s.opts.VideoLogPath))
	}
	if err := s.renderer.Disconnect(); err != nil {
		return err
	}
	s.log.Info("mirror session disconnected")
	return nil
}

func (s *MirrorSession) warnUnsupported(op string) {
	s.log.Warn("websocket-only operation ignored in mirror mode", zap.String("op", op))
}
