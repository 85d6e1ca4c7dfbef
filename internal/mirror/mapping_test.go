package mirror

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kinviz/kinviz/internal/world"
)

func TestBuildMapping_FixedOnlySkeletonIsEmpty(t *testing.T) {
	sk := world.NewSkeleton("table", "models/table.urdf", world.Vec3{}, world.Vec3{},
		world.NewJoint("leg1", world.KindFixed, 0),
		world.NewJoint("leg2", world.KindFixed, 0),
	)

	m, err := BuildMapping(sk, 0, map[string]int{}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Entries) != 0 {
		t.Errorf("expected empty mapping, got %d entries", len(m.Entries))
	}
	if m.MappedDofs() != 0 {
		t.Errorf("cumulative DOF sum = %d, want 0", m.MappedDofs())
	}
}

func TestBuildMapping_PartitionsSkeletonDofs(t *testing.T) {
	sk := world.NewSkeleton("robot", "models/robot.urdf", world.Vec3{}, world.Vec3{},
		world.NewJoint("root", world.KindFree, 0),
		world.NewJoint("weld", world.KindFixed, 0),
		world.NewJoint("shoulder", world.KindBall, 3),
		world.NewJoint("elbow", world.KindRevolute, 1),
	)
	joints := map[string]int{"shoulder": 4, "elbow": 7}

	m, err := BuildMapping(sk, 2, joints, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Entries) != 3 {
		t.Fatalf("expected 3 entries (fixed skipped), got %d", len(m.Entries))
	}
	if m.MappedDofs() != sk.DofCount() {
		t.Errorf("mapped DOFs = %d, want %d", m.MappedDofs(), sk.DofCount())
	}

	// Offsets must be monotonically increasing with no gaps.
	next := 0
	for i, e := range m.Entries {
		if e.Offset != next {
			t.Errorf("entry %d offset = %d, want %d", i, e.Offset, next)
		}
		next += e.Dofs
	}

	free := m.Entries[0]
	if !free.Free || free.Dofs != 6 || free.RendererIndex != -1 {
		t.Errorf("free entry = %+v", free)
	}
	if m.Entries[1].RendererIndex != 4 || m.Entries[2].RendererIndex != 7 {
		t.Errorf("renderer indices = %d, %d; want 4, 7",
			m.Entries[1].RendererIndex, m.Entries[2].RendererIndex)
	}
}

func TestBuildMapping_MissingJointIsConfigurationError(t *testing.T) {
	sk := world.NewSkeleton("arm", "models/arm.urdf", world.Vec3{}, world.Vec3{},
		world.NewJoint("root", world.KindFree, 0),
		world.NewJoint("elbow", world.KindRevolute, 1),
	)

	_, err := BuildMapping(sk, 0, map[string]int{"wrist": 0}, zap.NewNop())
	if err == nil {
		t.Fatal("expected configuration error for missing joint")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	if cfgErr.Joint != "elbow" || cfgErr.Skeleton != "arm" {
		t.Errorf("error names %q/%q, want arm/elbow", cfgErr.Skeleton, cfgErr.Joint)
	}
	if !strings.Contains(err.Error(), "elbow") || !strings.Contains(err.Error(), "arm") {
		t.Errorf("message %q must name skeleton and joint", err.Error())
	}
}

func TestBuildMapping_FreeJointNameCollisionWarnsOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	sk := world.NewSkeleton("arm", "models/arm.urdf", world.Vec3{}, world.Vec3{},
		world.NewJoint("root", world.KindFree, 0),
	)

	m, err := BuildMapping(sk, 0, map[string]int{"root": 3}, log)
	if err != nil {
		t.Fatalf("collision must not be fatal: %v", err)
	}
	if !m.Entries[0].Free || m.Entries[0].RendererIndex != -1 {
		t.Error("free interpretation must win on name collision")
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 warning, got %d", logs.Len())
	}
}
