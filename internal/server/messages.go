package server

import "github.com/kinviz/kinviz/internal/world"

// Message types sent to browser viewers.
const (
	MsgWorld      = "world"
	MsgTrajectory = "trajectory"
)

// SkeletonSnapshot carries one skeleton's current joint positions.
type SkeletonSnapshot struct {
	Name      string    `json:"name"`
	Positions []float64 `json:"positions"`
}

// WorldMessage is a full render snapshot of the world.
type WorldMessage struct {
	Type      string             `json:"type"`
	Time      float64            `json:"time"`
	Dofs      int                `json:"dofs"`
	Skeletons []SkeletonSnapshot `json:"skeletons"`
}

// TrajectoryMessage is a path overlay: the full position matrix of a loop,
// frame-major.
type TrajectoryMessage struct {
	Type      string    `json:"type"`
	Dofs      int       `json:"dofs"`
	Count     int       `json:"count"`
	Positions []float64 `json:"positions"`
}

// SnapshotWorld builds a WorldMessage from the world's position half,
// sliced per skeleton in declaration order.
func SnapshotWorld(w world.World) WorldMessage {
	msg := WorldMessage{
		Type: MsgWorld,
		Time: w.TimeStep(),
		Dofs: w.DofCount(),
	}

	pos := w.State().Positions(w.DofCount())
	offset := 0
	for i := 0; i < w.SkeletonCount(); i++ {
		sk := w.Skeleton(i)
		dofs := sk.DofCount()
		snap := SkeletonSnapshot{
			Name:      sk.Name(),
			Positions: append([]float64(nil), pos[offset:offset+dofs]...),
		}
		msg.Skeletons = append(msg.Skeletons, snap)
		offset += dofs
	}
	return msg
}

// SnapshotTrajectory builds the overlay message for a buffered trajectory.
func SnapshotTrajectory(t *world.Trajectory) TrajectoryMessage {
	return TrajectoryMessage{
		Type:      MsgTrajectory,
		Dofs:      t.Dofs(),
		Count:     t.Count(),
		Positions: append([]float64(nil), t.Data()...),
	}
}
