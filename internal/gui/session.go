// Package gui provides the visualization session facade. A session is
// constructed once over a simulation world with one of two backends: a
// websocket-driven browser GUI or a mirrored rigid-body renderer. The
// backend is fixed for the session's lifetime; operations that only exist
// on the other backend log a warning and do nothing.
package gui

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/mirror"
	"github.com/kinviz/kinviz/internal/world"
)

// Backend selects the rendering backend at construction time.
type Backend int

const (
	BackendWebsocket Backend = iota
	BackendMirror
)

func (b Backend) String() string {
	if b == BackendMirror {
		return "mirror"
	}
	return "websocket"
}

// Defaults mirrored from the session's construction flags.
const (
	// DefaultTickMultiplier scales the world time step into the tick period.
	DefaultTickMultiplier = 10
	// DefaultFrameDelay is the sleep between frames in blocking playback.
	DefaultFrameDelay = 100 * time.Millisecond
	DefaultWSPort     = 8070
	DefaultCameraW    = 640
	DefaultCameraH    = 480
)

// LoopOptions controls a LoopStates call.
type LoopOptions struct {
	// Indefinite repeats the sequence until the process is terminated
	// (mirror backend only; the websocket loop is always infinite).
	Indefinite bool
	// SaveStart offsets the capture indices of the frames.
	SaveStart int
}

// Options is the construction-time configuration of a session.
type Options struct {
	Backend Backend
	// Headless suppresses the mirror renderer's on-screen window.
	Headless bool
	// SyntheticCamera enables the per-frame camera buffer subsystem.
	SyntheticCamera bool
	// CaptureDir enables the frame capture sink when non-empty.
	CaptureDir string
	// VideoLogPath enables continuous video capture when non-empty.
	VideoLogPath string
	// AssetsDir is the browser GUI directory served over HTTP.
	AssetsDir string
	// WSPort is the websocket listen port (DefaultWSPort when zero).
	WSPort int

	TickMultiplier float64
	FrameDelay     time.Duration
	CameraWidth    int
	CameraHeight   int

	Logger *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.TickMultiplier <= 0 {
		o.TickMultiplier = DefaultTickMultiplier
	}
	if o.FrameDelay <= 0 {
		o.FrameDelay = DefaultFrameDelay
	}
	if o.WSPort == 0 {
		o.WSPort = DefaultWSPort
	}
	if o.CameraWidth == 0 {
		o.CameraWidth = DefaultCameraW
	}
	if o.CameraHeight == 0 {
		o.CameraHeight = DefaultCameraH
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Session is the public surface shared by both backends.
type Session interface {
	// Serve starts the browser GUI on the given HTTP port (websocket
	// backend only).
	Serve(port int) error
	// DisplayState cancels any active loop and renders a single state.
	DisplayState(s world.State) error
	// LoopStates installs a trajectory for looped playback. On the
	// websocket backend it returns immediately; on the mirror backend it
	// blocks until the requested repeats complete.
	LoopStates(states []world.State, opts LoopOptions) error
	// LoopPositions installs a prepared position matrix for looped
	// playback (websocket backend only).
	LoopPositions(t *world.Trajectory) error
	// StopLooping deactivates the loop without clearing its buffer.
	StopLooping()
	// BlockWhileServing blocks until the session stops serving.
	BlockWhileServing()
	// Native exposes the backend's render handle.
	Native() Handle
	// Close tears the session down; repeated calls are safe no-ops.
	Close() error
}

// New builds the session for the configured backend. The caller's world is
// cloned; the session never mutates caller-owned state. The mirror backend
// requires a renderer, the websocket backend ignores it.
func New(w world.World, r mirror.Renderer, opts Options) (Session, error) {
	opts.applyDefaults()

	switch opts.Backend {
	case BackendWebsocket:
		return newWebsocketSession(w, opts)
	case BackendMirror:
		if r == nil {
			return nil, errors.New("gui: mirror backend requires a renderer")
		}
		return newMirrorSession(w, r, opts)
	default:
		return nil, errors.New("gui: unknown backend")
	}
}
