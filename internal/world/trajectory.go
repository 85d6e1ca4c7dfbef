package world

// Trajectory is a finite sequence of position vectors, frame-major. The
// constructors always deep-copy so a scheduler holding a Trajectory never
// aliases caller-owned memory.
type Trajectory struct {
	dofs  int
	count int
	data  []float64
}

// NewTrajectory allocates a zeroed dofs×count trajectory.
func NewTrajectory(dofs, count int) *Trajectory {
	return &Trajectory{dofs: dofs, count: count, data: make([]float64, dofs*count)}
}

// TrajectoryFromStates copies the position half of each state into a new
// trajectory. States shorter than dofs are padded with zeros.
func TrajectoryFromStates(states []State, dofs int) *Trajectory {
	t := NewTrajectory(dofs, len(states))
	for i, s := range states {
		copy(t.data[i*dofs:(i+1)*dofs], s.Positions(dofs))
	}
	return t
}

// TrajectoryFromMatrix copies a frame-major dofs×count buffer.
func TrajectoryFromMatrix(dofs, count int, data []float64) *Trajectory {
	t := NewTrajectory(dofs, count)
	copy(t.data, data)
	return t
}

func (t *Trajectory) Dofs() int  { return t.dofs }
func (t *Trajectory) Count() int { return t.count }

// Frame returns a view of frame i. Callers must not retain it across a
// SetFrame on the same trajectory.
func (t *Trajectory) Frame(i int) State {
	return State(t.data[i*t.dofs : (i+1)*t.dofs])
}

func (t *Trajectory) SetFrame(i int, s State) {
	copy(t.data[i*t.dofs:(i+1)*t.dofs], s)
}

// Data returns the frame-major backing buffer.
func (t *Trajectory) Data() []float64 { return t.data }

func (t *Trajectory) Clone() *Trajectory {
	return TrajectoryFromMatrix(t.dofs, t.count, t.data)
}
