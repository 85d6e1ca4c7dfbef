package mirror

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/world"
)

// Mirror owns a renderer connection plus one Mapping per skeleton, indexed
// in world order.
type Mirror struct {
	r        Renderer
	log      *zap.Logger
	mappings []*Mapping
}

// Load instantiates every skeleton of w in the renderer and builds the
// mapping tables. The renderer must already be connected. Any missing
// joint aborts the load with a ConfigurationError.
func Load(r Renderer, w world.World, log *zap.Logger) (*Mirror, error) {
	m := &Mirror{r: r, log: log}

	for i := 0; i < w.SkeletonCount(); i++ {
		sk := w.Skeleton(i)

		body, err := r.LoadModel(sk.ResourcePath(), sk.BasePosition(), sk.BaseOrientation())
		if err != nil {
			return nil, fmt.Errorf("mirror: load model for skeleton %q: %w", sk.Name(), err)
		}
		log.Debug("model loaded",
			zap.String("skeleton", sk.Name()),
			zap.String("path", sk.ResourcePath()),
			zap.Int("body", int(body)))

		joints, err := r.JointNames(body)
		if err != nil {
			return nil, fmt.Errorf("mirror: joint table for skeleton %q: %w", sk.Name(), err)
		}

		mapping, err := BuildMapping(sk, body, joints, log)
		if err != nil {
			return nil, err
		}
		m.mappings = append(m.mappings, mapping)
	}

	return m, nil
}

// Mapping returns the correspondence table for skeleton i.
func (m *Mirror) Mapping(i int) *Mapping { return m.mappings[i] }

// ApplyState splits the flat state vector per skeleton and per joint and
// pushes each slice into the renderer. Only the position half of s is read.
func (m *Mirror) ApplyState(w world.World, s world.State) error {
	pos := s.Positions(w.DofCount())

	offset := 0
	for i := 0; i < w.SkeletonCount(); i++ {
		sk := w.Skeleton(i)
		dofs := sk.DofCount()
		if dofs == 0 {
			continue
		}

		if err := m.applySkeleton(m.mappings[i], pos[offset:offset+dofs]); err != nil {
			return err
		}
		offset += dofs
	}
	return nil
}

func (m *Mirror) applySkeleton(mp *Mapping, actions world.State) error {
	for _, e := range mp.Entries {
		slice := actions[e.Offset : e.Offset+e.Dofs]

		if e.Free {
			// [rotation delta(3), translation delta(3)], composed onto the
			// initial pose by component-wise addition. Only valid for
			// small-angle or axis-aligned rotations.
			rot := mp.InitOrientation.Add(world.Vec3{slice[0], slice[1], slice[2]})
			pos := mp.InitPosition.Add(world.Vec3{slice[3], slice[4], slice[5]})
			if err := m.r.ResetBasePose(mp.Body, pos, rot); err != nil {
				return fmt.Errorf("mirror: reset base pose of %q: %w", mp.Skeleton, err)
			}
			continue
		}

		if e.Dofs == 1 {
			if err := m.r.SetJointPosition(mp.Body, e.RendererIndex, slice[0]); err != nil {
				return fmt.Errorf("mirror: set joint %d of %q: %w", e.RendererIndex, mp.Skeleton, err)
			}
			continue
		}

		if err := m.r.SetJointPositions(mp.Body, e.RendererIndex, slice); err != nil {
			return fmt.Errorf("mirror: set joint %d of %q: %w", e.RendererIndex, mp.Skeleton, err)
		}
	}
	return nil
}
