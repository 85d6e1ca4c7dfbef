package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kinviz/kinviz/internal/world"
)

const armSpec = `
time_step: 0.01
skeletons:
  - name: arm
    resource: models/arm.urdf
    base_position: [0, 0, 1]
    joints:
      - {name: root, kind: free}
      - {name: elbow, kind: revolute, dofs: 1}
  - name: ground
    resource: models/ground.urdf
    joints:
      - {name: anchor, kind: fixed}
`

func TestLoadWorld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte(armSpec), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := LoadWorld(path)
	if err != nil {
		t.Fatal(err)
	}

	if w.TimeStep() != 0.01 {
		t.Errorf("time step = %v", w.TimeStep())
	}
	if w.SkeletonCount() != 2 {
		t.Fatalf("skeletons = %d, want 2", w.SkeletonCount())
	}
	if w.DofCount() != 7 {
		t.Errorf("dofs = %d, want 7", w.DofCount())
	}

	arm := w.Skeleton(0)
	if arm.BasePosition() != (world.Vec3{0, 0, 1}) {
		t.Errorf("base position = %v", arm.BasePosition())
	}
	if arm.Joint(0).Kind() != world.KindFree {
		t.Errorf("root kind = %v", arm.Joint(0).Kind())
	}
}

func TestWorldSpec_Build_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec WorldSpec
	}{
		{"zero time step", WorldSpec{Skeletons: []SkeletonSpec{{Name: "a"}}}},
		{"unnamed skeleton", WorldSpec{TimeStep: 0.01, Skeletons: []SkeletonSpec{{}}}},
		{"duplicate names", WorldSpec{TimeStep: 0.01, Skeletons: []SkeletonSpec{{Name: "a"}, {Name: "a"}}}},
		{"bad joint kind", WorldSpec{TimeStep: 0.01, Skeletons: []SkeletonSpec{
			{Name: "a", Joints: []JointSpec{{Name: "j", Kind: "helical"}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.spec.Build(); err == nil {
				t.Error("expected build error")
			}
		})
	}
}

func TestPresets_AllBuild(t *testing.T) {
	if len(ListPresets()) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range ListPresets() {
		spec := GetPreset(name)
		if spec == nil {
			t.Fatalf("preset %q missing", name)
		}
		w, err := spec.Build()
		if err != nil {
			t.Errorf("preset %q does not build: %v", name, err)
			continue
		}
		if w.SkeletonCount() == 0 {
			t.Errorf("preset %q has no skeletons", name)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}
