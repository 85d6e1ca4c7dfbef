package config

// Presets are ready-made world specs for demos and the CLI, keyed by name.
var Presets = map[string]*WorldSpec{
	"pendulum": {
		TimeStep: 0.01,
		Skeletons: []SkeletonSpec{
			{
				Name:     "pendulum",
				Resource: "models/pendulum.urdf",
				Joints: []JointSpec{
					{Name: "hinge", Kind: "revolute", Dofs: 1},
				},
			},
		},
	},
	"arm": {
		TimeStep: 0.01,
		Skeletons: []SkeletonSpec{
			{
				Name:     "arm",
				Resource: "models/arm.urdf",
				Joints: []JointSpec{
					{Name: "root", Kind: "free"},
					{Name: "shoulder", Kind: "ball", Dofs: 3},
					{Name: "elbow", Kind: "revolute", Dofs: 1},
					{Name: "wrist", Kind: "revolute", Dofs: 1},
				},
			},
		},
	},
	"cartpole": {
		TimeStep: 0.005,
		Skeletons: []SkeletonSpec{
			{
				Name:     "cartpole",
				Resource: "models/cartpole.urdf",
				Joints: []JointSpec{
					{Name: "slide", Kind: "prismatic", Dofs: 1},
					{Name: "pole", Kind: "revolute", Dofs: 1},
				},
			},
		},
	},
	"biped": {
		TimeStep: 0.01,
		Skeletons: []SkeletonSpec{
			{
				Name:            "biped",
				Resource:        "models/biped.urdf",
				BasePosition:    [3]float64{0, 0, 0.9},
				Joints: []JointSpec{
					{Name: "root", Kind: "free"},
					{Name: "hip_l", Kind: "ball", Dofs: 3},
					{Name: "hip_r", Kind: "ball", Dofs: 3},
					{Name: "knee_l", Kind: "revolute", Dofs: 1},
					{Name: "knee_r", Kind: "revolute", Dofs: 1},
					{Name: "ankle_l", Kind: "revolute", Dofs: 1},
					{Name: "ankle_r", Kind: "revolute", Dofs: 1},
				},
			},
			{
				Name:     "ground",
				Resource: "models/ground.urdf",
				Joints: []JointSpec{
					{Name: "anchor", Kind: "fixed"},
				},
			},
		},
	},
}

// GetPreset returns a named preset, nil when absent.
func GetPreset(name string) *WorldSpec {
	return Presets[name]
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
