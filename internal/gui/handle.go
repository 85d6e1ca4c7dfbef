package gui

import (
	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/world"
)

// Handle is the native render surface returned by Session.Native. The
// websocket backend returns its live server; the mirror backend returns a
// NullHandle whose every method logs and returns a default.
type Handle interface {
	RenderWorld(w world.World) error
	RenderTrajectoryLines(w world.World, t *world.Trajectory) error
	OnConnection(fn func())
}

// NullHandle stands in for the websocket server when the session runs the
// mirror backend.
type NullHandle struct {
	log *zap.Logger
}

func NewNullHandle(log *zap.Logger) *NullHandle {
	return &NullHandle{log: log}
}

func (h *NullHandle) RenderWorld(world.World) error {
	h.warn("RenderWorld")
	return nil
}

func (h *NullHandle) RenderTrajectoryLines(world.World, *world.Trajectory) error {
	h.warn("RenderTrajectoryLines")
	return nil
}

func (h *NullHandle) OnConnection(func()) {
	h.warn("OnConnection")
}

func (h *NullHandle) warn(op string) {
	h.log.Warn("websocket-only operation ignored in mirror mode", zap.String("op", op))
}
