package mirror

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// CaptureSink persists per-frame camera buffers as numpy array files named
// {modality}_{index}.npy. All three modalities are written as 2-D float64
// arrays (npyio writes gonum matrices; it has no n-dimensional or
// narrow-dtype form): color as height×(4·width) with the RGBA channels
// interleaved along rows, depth and segmentation as height×width. A numpy
// consumer recovers the conventional color layout with
// a.reshape(h, w, 4).astype(np.uint8), and the native depth/segmentation
// dtypes with astype(np.float32) / astype(np.int32).
type CaptureSink struct {
	dir    string
	width  int
	height int
}

// NewCaptureSink resolves dir to an absolute path and creates it.
func NewCaptureSink(dir string, width, height int) (*CaptureSink, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("mirror: create capture dir: %w", err)
	}
	return &CaptureSink{dir: abs, width: width, height: height}, nil
}

// Dir returns the resolved capture directory.
func (c *CaptureSink) Dir() string { return c.dir }

// Width and Height are the capture resolution.
func (c *CaptureSink) Width() int  { return c.width }
func (c *CaptureSink) Height() int { return c.height }

// WriteFrame persists all three modalities of img under the given save
// index. Write failures propagate; capture has no retry path.
func (c *CaptureSink) WriteFrame(img *Image, index int) error {
	rgb := make([]float64, len(img.RGBA))
	for i, v := range img.RGBA {
		rgb[i] = float64(v)
	}
	if err := c.writeArray("rgb", index, img.Height, img.Width*4, rgb); err != nil {
		return err
	}

	depth := make([]float64, len(img.Depth))
	for i, v := range img.Depth {
		depth[i] = float64(v)
	}
	if err := c.writeArray("depth", index, img.Height, img.Width, depth); err != nil {
		return err
	}

	seg := make([]float64, len(img.Segmentation))
	for i, v := range img.Segmentation {
		seg[i] = float64(v)
	}
	return c.writeArray("segmentation", index, img.Height, img.Width, seg)
}

func (c *CaptureSink) writeArray(modality string, index, rows, cols int, data []float64) error {
	path := filepath.Join(c.dir, fmt.Sprintf("%s_%d.npy", modality, index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mirror: create %s: %w", path, err)
	}
	defer f.Close()

	if err := npyio.Write(f, mat.NewDense(rows, cols, data)); err != nil {
		return fmt.Errorf("mirror: write %s: %w", path, err)
	}
	return f.Close()
}
