package playback

import (
	"time"

	"github.com/kinviz/kinviz/internal/world"
)

// FrameFunc applies one state. saveIdx is the monotonically increasing
// capture index for the frame.
type FrameFunc func(s world.State, saveIdx int) error

// RunFrames iterates states synchronously, calling apply for each and
// sleeping delay between frames. With indefinite set it repeats until
// apply returns an error; otherwise it runs the sequence once. Save
// indices start at saveStart and restart there on every repeat, matching
// the capture-file naming of a single pass.
func RunFrames(states []world.State, apply FrameFunc, delay time.Duration, indefinite bool, saveStart int) error {
	for {
		for i, s := range states {
			if err := apply(s, saveStart+i); err != nil {
				return err
			}
			time.Sleep(delay)
		}
		if !indefinite {
			return nil
		}
	}
}
