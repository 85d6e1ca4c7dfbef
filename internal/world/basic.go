package world

import "fmt"

type basicJoint struct {
	name string
	kind JointKind
	dofs int
}

func (j *basicJoint) Name() string    { return j.name }
func (j *basicJoint) Kind() JointKind { return j.kind }
func (j *basicJoint) DofCount() int   { return j.dofs }

// NewJoint builds a joint. Fixed joints always report zero DOFs and free
// joints always report six, whatever dofs is passed.
func NewJoint(name string, kind JointKind, dofs int) Joint {
	switch kind {
	case KindFixed:
		dofs = 0
	case KindFree:
		dofs = FreeJointDofs
	}
	return &basicJoint{name: name, kind: kind, dofs: dofs}
}

type basicSkeleton struct {
	name     string
	resource string
	basePos  Vec3
	baseRot  Vec3
	joints   []Joint
	dofs     int
}

func (s *basicSkeleton) Name() string          { return s.name }
func (s *basicSkeleton) JointCount() int       { return len(s.joints) }
func (s *basicSkeleton) Joint(i int) Joint     { return s.joints[i] }
func (s *basicSkeleton) DofCount() int         { return s.dofs }
func (s *basicSkeleton) BasePosition() Vec3    { return s.basePos }
func (s *basicSkeleton) BaseOrientation() Vec3 { return s.baseRot }
func (s *basicSkeleton) ResourcePath() string  { return s.resource }

// NewSkeleton builds a skeleton whose DOF count is the sum of its joints'.
func NewSkeleton(name, resource string, basePos, baseRot Vec3, joints ...Joint) Skeleton {
	sk := &basicSkeleton{
		name:     name,
		resource: resource,
		basePos:  basePos,
		baseRot:  baseRot,
		joints:   joints,
	}
	for _, j := range joints {
		sk.dofs += j.DofCount()
	}
	return sk
}

// Basic is the in-memory World implementation.
type Basic struct {
	timeStep   float64
	skeletons  []Skeleton
	dofs       int
	positions  State
	velocities State
}

// New builds a Basic world with zeroed state.
func New(timeStep float64, skeletons ...Skeleton) *Basic {
	w := &Basic{timeStep: timeStep, skeletons: skeletons}
	for _, sk := range skeletons {
		w.dofs += sk.DofCount()
	}
	w.positions = make(State, w.dofs)
	w.velocities = make(State, w.dofs)
	return w
}

func (w *Basic) DofCount() int           { return w.dofs }
func (w *Basic) TimeStep() float64       { return w.timeStep }
func (w *Basic) SkeletonCount() int      { return len(w.skeletons) }
func (w *Basic) Skeleton(i int) Skeleton { return w.skeletons[i] }

func (w *Basic) State() State {
	s := make(State, 0, 2*w.dofs)
	s = append(s, w.positions...)
	s = append(s, w.velocities...)
	return s
}

func (w *Basic) SetState(s State) {
	copy(w.positions, s)
	if len(s) >= 2*w.dofs {
		copy(w.velocities, s[w.dofs:])
	}
}

func (w *Basic) SetPositions(p State) {
	copy(w.positions, p)
}

// Clone deep-copies the world so a session never mutates caller-owned state.
// Skeletons are immutable and shared.
func (w *Basic) Clone() World {
	c := &Basic{
		timeStep:   w.timeStep,
		skeletons:  w.skeletons,
		dofs:       w.dofs,
		positions:  w.positions.Clone(),
		velocities: w.velocities.Clone(),
	}
	return c
}

// SkeletonByName is a convenience lookup used by tests and the CLI.
func SkeletonByName(w World, name string) (Skeleton, error) {
	for i := 0; i < w.SkeletonCount(); i++ {
		if sk := w.Skeleton(i); sk.Name() == name {
			return sk, nil
		}
	}
	return nil, fmt.Errorf("world: no skeleton named %q", name)
}
