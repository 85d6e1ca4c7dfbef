package world

import "testing"

func TestTrajectoryFromStates_TakesPositionHalf(t *testing.T) {
	// Full states for a 2-DOF world: positions then velocities.
	states := []State{
		{1, 2, 10, 20},
		{3, 4, 30, 40},
	}
	traj := TrajectoryFromStates(states, 2)

	if traj.Count() != 2 || traj.Dofs() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", traj.Dofs(), traj.Count())
	}
	if f := traj.Frame(1); f[0] != 3 || f[1] != 4 {
		t.Errorf("frame 1 = %v, want [3 4]", f)
	}
}

func TestTrajectoryFromMatrix_Copies(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	traj := TrajectoryFromMatrix(2, 2, buf)

	buf[0] = 99
	if traj.Frame(0)[0] == 99 {
		t.Error("trajectory aliases the caller's buffer")
	}
}

func TestTrajectory_Clone(t *testing.T) {
	traj := TrajectoryFromMatrix(1, 3, []float64{1, 2, 3})
	c := traj.Clone()
	c.SetFrame(0, State{7})
	if traj.Frame(0)[0] != 1 {
		t.Error("clone shares backing data with the original")
	}
}
