package mirror

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/world"
)

// ConfigurationError reports a simulation joint with no counterpart in the
// renderer's joint table. It aborts the world load.
type ConfigurationError struct {
	Skeleton string
	Joint    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mirror: joint %q of skeleton %q not found in renderer, check model file", e.Joint, e.Skeleton)
}

// Entry maps one non-fixed simulation joint into the renderer.
type Entry struct {
	// Free marks a free-floating joint; it has no renderer index and its
	// state is an offset from the skeleton's initial pose.
	Free bool
	// Offset is the joint's cumulative DOF offset within its skeleton.
	Offset int
	// Dofs is the joint's state width.
	Dofs int
	// RendererIndex is the renderer-side joint index, -1 for free joints.
	RendererIndex int
	// JointIndex is the joint's index in the skeleton's declaration order.
	JointIndex int
}

// Mapping is the immutable per-skeleton correspondence table. It is built
// once per world load and only read afterward.
type Mapping struct {
	Skeleton string
	Body     BodyID
	// InitPosition and InitOrientation are the base pose recorded at load
	// time, the reference frame for free-joint offsets.
	InitPosition    world.Vec3
	InitOrientation world.Vec3
	Entries         []Entry
}

// BuildMapping resolves each non-fixed joint of sk against the renderer's
// joint name table. Fixed joints are skipped. A free joint sharing a name
// with a renderer joint is logged and kept free; any other joint missing
// from the table is a ConfigurationError.
func BuildMapping(sk world.Skeleton, body BodyID, rendererJoints map[string]int, log *zap.Logger) (*Mapping, error) {
	m := &Mapping{
		Skeleton:        sk.Name(),
		Body:            body,
		InitPosition:    sk.BasePosition(),
		InitOrientation: sk.BaseOrientation(),
	}

	offset := 0
	for i := 0; i < sk.JointCount(); i++ {
		j := sk.Joint(i)
		if j.Kind() == world.KindFixed {
			continue
		}

		e := Entry{
			Offset:        offset,
			Dofs:          j.DofCount(),
			JointIndex:    i,
			RendererIndex: -1,
		}

		if j.Kind() == world.KindFree {
			e.Free = true
			if _, ok := rendererJoints[j.Name()]; ok {
				log.Warn("free joint name collides with a renderer joint, treating as world anchor",
					zap.String("skeleton", sk.Name()),
					zap.String("joint", j.Name()))
			}
		} else {
			idx, ok := rendererJoints[j.Name()]
			if !ok {
				return nil, &ConfigurationError{Skeleton: sk.Name(), Joint: j.Name()}
			}
			e.RendererIndex = idx
		}

		m.Entries = append(m.Entries, e)
		offset += e.Dofs
	}

	return m, nil
}

// MappedDofs is the sum of DOF widths across entries. It equals the
// skeleton's DOF count when the mapping was built from it.
func (m *Mapping) MappedDofs() int {
	n := 0
	for _, e := range m.Entries {
		n += e.Dofs
	}
	return n
}
