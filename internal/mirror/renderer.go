package mirror

import "github.com/kinviz/kinviz/internal/world"

// BodyID identifies a loaded model inside the renderer.
type BodyID int

// Image is one synthetic camera grab: color, depth and segmentation
// buffers at the requested resolution, row-major.
type Image struct {
	Width  int
	Height int
	// RGBA holds Width*Height*4 bytes.
	RGBA []uint8
	// Depth holds Width*Height values.
	Depth []float32
	// Segmentation holds Width*Height per-pixel body indices.
	Segmentation []int32
}

// Renderer is the surface required from a rigid-body visualization engine.
// Every call either succeeds or returns the failure unmodified; the mirror
// layer never retries.
type Renderer interface {
	// Connect opens the renderer, offscreen when headless is set.
	Connect(headless bool) error
	Disconnect() error

	SetGravity(g world.Vec3) error
	SetTimeStep(dt float64) error

	// LoadModel instantiates a model file at the given base pose.
	LoadModel(path string, pos, orient world.Vec3) (BodyID, error)
	// JointNames returns the renderer's joint name to joint index table.
	JointNames(body BodyID) (map[string]int, error)

	ResetBasePose(body BodyID, pos, orient world.Vec3) error
	SetJointPosition(body BodyID, joint int, value float64) error
	SetJointPositions(body BodyID, joint int, values []float64) error

	// CameraImage renders offscreen buffers at the given resolution.
	CameraImage(width, height int) (*Image, error)

	// StartVideoLog begins writing a continuous video file, returning a
	// log handle for StopVideoLog.
	StartVideoLog(path string) (int, error)
	StopVideoLog(id int) error
}
