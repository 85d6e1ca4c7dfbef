package world

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Clone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()
	c[0] = 99
	if s[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestState_Positions(t *testing.T) {
	full := State{1, 2, 3, 4, 5, 6}
	pos := full.Positions(3)
	if len(pos) != 3 || pos[0] != 1 || pos[2] != 3 {
		t.Errorf("Positions(3) = %v, want [1 2 3]", pos)
	}

	bare := State{1, 2}
	if got := bare.Positions(5); len(got) != 2 {
		t.Errorf("Positions on short state returned %d values, want 2", len(got))
	}
}

func TestJointKind_String(t *testing.T) {
	tests := []struct {
		kind JointKind
		want string
	}{
		{KindFixed, "fixed"},
		{KindFree, "free"},
		{KindRevolute, "revolute"},
		{KindOther, "other"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestVec3_Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{0.5, 0, -3})
	want := Vec3{1.5, 2, 0}
	if got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
}
