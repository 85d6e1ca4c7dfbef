package world

import "math"

// Vec3 is a position or an Euler-angle orientation, depending on context.
type Vec3 [3]float64

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// State is a flat vector of simulation degrees of freedom. A full state is
// positions followed by velocities; a bare position vector is also a State.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Positions returns the leading position half of the state. When the state
// carries no velocity half it is returned as-is.
func (s State) Positions(dofs int) State {
	if dofs > len(s) {
		dofs = len(s)
	}
	return s[:dofs]
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// JointKind categorizes how a joint contributes to the state vector.
type JointKind int

const (
	// KindFixed joints contribute no state and are never mapped.
	KindFixed JointKind = iota
	// KindFree joints contribute 6 DOFs (3 rotational + 3 translational)
	// and anchor a skeleton to the world.
	KindFree
	KindRevolute
	KindPrismatic
	KindBall
	KindOther
)

func (k JointKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindFree:
		return "free"
	case KindRevolute:
		return "revolute"
	case KindPrismatic:
		return "prismatic"
	case KindBall:
		return "ball"
	default:
		return "other"
	}
}

// FreeJointDofs is the state width of a free-floating joint.
const FreeJointDofs = 6

// Joint is one articulation point of a skeleton.
type Joint interface {
	Name() string
	Kind() JointKind
	DofCount() int
}

// Skeleton is an articulated rigid-body structure within a World.
type Skeleton interface {
	Name() string
	JointCount() int
	Joint(i int) Joint
	DofCount() int
	// BasePosition and BaseOrientation are the skeleton's recorded pose at
	// load time; free-joint state is interpreted as an offset from them.
	BasePosition() Vec3
	BaseOrientation() Vec3
	// ResourcePath points at the URDF-like model file used by the mirror
	// renderer to instantiate a counterpart body.
	ResourcePath() string
}

// World is an ordered collection of skeletons plus the simulation state.
type World interface {
	DofCount() int
	TimeStep() float64
	SkeletonCount() int
	Skeleton(i int) Skeleton
	// State returns the full 2×DOF state, positions first.
	State() State
	// SetState accepts either a full 2×DOF state or a bare position vector.
	SetState(s State)
	SetPositions(p State)
	Clone() World
}
