package mirror

import (
	"errors"
	"fmt"

	"github.com/kinviz/kinviz/internal/world"
)

// MemoryRenderer is an in-process Renderer with no display. It records
// every pose and joint command so tests and dry runs can inspect what a
// real engine would have received.
type MemoryRenderer struct {
	connected bool
	headless  bool
	gravity   world.Vec3
	timeStep  float64

	models map[string][]string
	bodies map[BodyID]*MemoryBody
	nextID BodyID

	videoPath string
	videoID   int
	videoOn   bool
}

// MemoryBody is the recorded state of one loaded model.
type MemoryBody struct {
	Path        string
	Position    world.Vec3
	Orientation world.Vec3
	Joints      map[string]int
	// JointValues holds the last value written per renderer joint index.
	JointValues map[int][]float64
}

func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{
		models: make(map[string][]string),
		bodies: make(map[BodyID]*MemoryBody),
	}
}

// DefineModel registers the joint names LoadModel will report for path.
func (r *MemoryRenderer) DefineModel(path string, jointNames ...string) {
	r.models[path] = jointNames
}

// Body returns the recorded state for a loaded body.
func (r *MemoryRenderer) Body(id BodyID) *MemoryBody { return r.bodies[id] }

// Headless reports the mode passed to Connect.
func (r *MemoryRenderer) Headless() bool { return r.headless }

// VideoActive reports whether a video log is currently open.
func (r *MemoryRenderer) VideoActive() bool { return r.videoOn }

func (r *MemoryRenderer) Connect(headless bool) error {
	r.connected = true
	r.headless = headless
	return nil
}

func (r *MemoryRenderer) Disconnect() error {
	if !r.connected {
		return errors.New("mirror: renderer not connected")
	}
	r.connected = false
	return nil
}

func (r *MemoryRenderer) SetGravity(g world.Vec3) error {
	r.gravity = g
	return nil
}

func (r *MemoryRenderer) SetTimeStep(dt float64) error {
	r.timeStep = dt
	return nil
}

func (r *MemoryRenderer) LoadModel(path string, pos, orient world.Vec3) (BodyID, error) {
	if !r.connected {
		return 0, errors.New("mirror: renderer not connected")
	}
	names, ok := r.models[path]
	if !ok {
		return 0, fmt.Errorf("mirror: model %q not found", path)
	}

	joints := make(map[string]int, len(names))
	for i, n := range names {
		joints[n] = i
	}

	id := r.nextID
	r.nextID++
	r.bodies[id] = &MemoryBody{
		Path:        path,
		Position:    pos,
		Orientation: orient,
		Joints:      joints,
		JointValues: make(map[int][]float64),
	}
	return id, nil
}

func (r *MemoryRenderer) JointNames(body BodyID) (map[string]int, error) {
	b, ok := r.bodies[body]
	if !ok {
		return nil, fmt.Errorf("mirror: unknown body %d", body)
	}
	return b.Joints, nil
}

func (r *MemoryRenderer) ResetBasePose(body BodyID, pos, orient world.Vec3) error {
	b, ok := r.bodies[body]
	if !ok {
		return fmt.Errorf("mirror: unknown body %d", body)
	}
	b.Position = pos
	b.Orientation = orient
	return nil
}

func (r *MemoryRenderer) SetJointPosition(body BodyID, joint int, value float64) error {
	return r.SetJointPositions(body, joint, []float64{value})
}

func (r *MemoryRenderer) SetJointPositions(body BodyID, joint int, values []float64) error {
	b, ok := r.bodies[body]
	if !ok {
		return fmt.Errorf("mirror: unknown body %d", body)
	}
	v := make([]float64, len(values))
	copy(v, values)
	b.JointValues[joint] = v
	return nil
}

func (r *MemoryRenderer) CameraImage(width, height int) (*Image, error) {
	if !r.connected {
		return nil, errors.New("mirror: renderer not connected")
	}
	img := &Image{
		Width:        width,
		Height:       height,
		RGBA:         make([]uint8, width*height*4),
		Depth:        make([]float32, width*height),
		Segmentation: make([]int32, width*height),
	}
	for i := range img.Depth {
		img.Depth[i] = 1.0
		img.Segmentation[i] = -1
	}
	return img, nil
}

func (r *MemoryRenderer) StartVideoLog(path string) (int, error) {
	if r.videoOn {
		return 0, errors.New("mirror: video log already active")
	}
	r.videoID++
	r.videoPath = path
	r.videoOn = true
	return r.videoID, nil
}

func (r *MemoryRenderer) StopVideoLog(id int) error {
	if !r.videoOn || id != r.videoID {
		return fmt.Errorf("mirror: no active video log %d", id)
	}
	r.videoOn = false
	return nil
}
