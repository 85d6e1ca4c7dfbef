package playback

import (
	"sync/atomic"

	"github.com/kinviz/kinviz/internal/world"
)

// playing pairs a trajectory with its own cursor. A swap replaces both in
// a single pointer store, so a concurrent Next never renders the new
// trajectory at the old trajectory's cursor.
type playing struct {
	traj   *world.Trajectory
	cursor atomic.Int64
}

// Loop is the shared state between the control surface and the tick
// handler: an active flag plus the buffered trajectory and its cursor.
// Set swaps the pair atomically, so a concurrent Next sees either the old
// playback state or the new one in full, never a mix.
type Loop struct {
	active atomic.Bool
	cur    atomic.Pointer[playing]
}

// Set installs a deep copy of t with the cursor at 0 and activates the
// loop.
func (l *Loop) Set(t *world.Trajectory) {
	l.cur.Store(&playing{traj: t.Clone()})
	l.active.Store(true)
}

// Stop flips the active flag. The buffered trajectory is kept; an
// in-flight tick may still complete its current frame.
func (l *Loop) Stop() {
	l.active.Store(false)
}

// Resume re-activates a previously stopped loop without touching the
// cursor or the buffer.
func (l *Loop) Resume() {
	if l.cur.Load() != nil {
		l.active.Store(true)
	}
}

func (l *Loop) Active() bool { return l.active.Load() }

// Cursor returns the frame index the next tick will render.
func (l *Loop) Cursor() int {
	p := l.cur.Load()
	if p == nil {
		return 0
	}
	return int(p.cursor.Load())
}

// Len returns the buffered trajectory's frame count, 0 when none is set.
func (l *Loop) Len() int {
	p := l.cur.Load()
	if p == nil {
		return 0
	}
	return p.traj.Count()
}

// Next returns the frame at the cursor and advances it, wrapping to 0 at
// the end of the trajectory. It reports false when the loop is inactive or
// empty. Next is only called from the tick goroutine; the cursor is always
// in range because it is stored mod the frame count of its own trajectory.
func (l *Loop) Next() (world.State, bool) {
	if !l.active.Load() {
		return nil, false
	}
	p := l.cur.Load()
	if p == nil || p.traj.Count() == 0 {
		return nil, false
	}

	i := int(p.cursor.Load())
	p.cursor.Store(int64((i + 1) % p.traj.Count()))
	return p.traj.Frame(i), true
}
