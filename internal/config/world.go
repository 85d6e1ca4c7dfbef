package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kinviz/kinviz/internal/world"
)

// WorldSpec is the YAML description of a world, the bridge between model
// files on disk and the in-memory world used by the sessions.
type WorldSpec struct {
	TimeStep  float64        `yaml:"time_step"`
	Skeletons []SkeletonSpec `yaml:"skeletons"`
}

type SkeletonSpec struct {
	Name            string      `yaml:"name"`
	Resource        string      `yaml:"resource"`
	BasePosition    [3]float64  `yaml:"base_position"`
	BaseOrientation [3]float64  `yaml:"base_orientation"`
	Joints          []JointSpec `yaml:"joints"`
}

type JointSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Dofs int    `yaml:"dofs"`
}

// LoadWorld reads a WorldSpec file and builds the world it describes.
func LoadWorld(path string) (*world.Basic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec WorldSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("config: parse world spec %s: %w", path, err)
	}
	return spec.Build()
}

// Build constructs the world described by the spec.
func (s *WorldSpec) Build() (*world.Basic, error) {
	if s.TimeStep <= 0 {
		return nil, fmt.Errorf("config: time_step must be positive, got %f", s.TimeStep)
	}

	skeletons := make([]world.Skeleton, 0, len(s.Skeletons))
	seen := make(map[string]bool)
	for _, sk := range s.Skeletons {
		if sk.Name == "" {
			return nil, fmt.Errorf("config: skeleton without a name")
		}
		if seen[sk.Name] {
			return nil, fmt.Errorf("config: duplicate skeleton name %q", sk.Name)
		}
		seen[sk.Name] = true

		joints := make([]world.Joint, 0, len(sk.Joints))
		for _, j := range sk.Joints {
			kind, err := parseJointKind(j.Kind)
			if err != nil {
				return nil, fmt.Errorf("config: skeleton %q: %w", sk.Name, err)
			}
			joints = append(joints, world.NewJoint(j.Name, kind, j.Dofs))
		}
		skeletons = append(skeletons, world.NewSkeleton(
			sk.Name, sk.Resource,
			world.Vec3(sk.BasePosition), world.Vec3(sk.BaseOrientation),
			joints...))
	}

	return world.New(s.TimeStep, skeletons...), nil
}

func parseJointKind(kind string) (world.JointKind, error) {
	switch kind {
	case "fixed", "weld":
		return world.KindFixed, nil
	case "free":
		return world.KindFree, nil
	case "revolute", "hinge":
		return world.KindRevolute, nil
	case "prismatic", "slide":
		return world.KindPrismatic, nil
	case "ball":
		return world.KindBall, nil
	case "", "other":
		return world.KindOther, nil
	default:
		return 0, fmt.Errorf("unknown joint kind %q", kind)
	}
}
