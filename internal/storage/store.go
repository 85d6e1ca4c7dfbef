// Package storage persists recorded trajectories: one directory per
// recording holding a metadata.json and a states.csv with one row per
// frame.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kinviz/kinviz/internal/world"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RecordingMetadata describes one saved trajectory.
type RecordingMetadata struct {
	ID        string    `json:"id"`
	World     string    `json:"world"`
	Timestamp time.Time `json:"timestamp"`
	TimeStep  float64   `json:"time_step"`
	Dofs      int       `json:"dofs"`
	Frames    int       `json:"frames"`
}

// Save writes a trajectory recorded against the named world, returning
// the generated recording ID.
func (s *Store) Save(worldName string, timeStep float64, traj *world.Trajectory) (string, error) {
	recID := fmt.Sprintf("%s_%d", worldName, time.Now().Unix())
	recDir := filepath.Join(s.baseDir, recID)

	if err := os.MkdirAll(recDir, 0755); err != nil {
		return "", err
	}

	meta := RecordingMetadata{
		ID:        recID,
		World:     worldName,
		Timestamp: time.Now(),
		TimeStep:  timeStep,
		Dofs:      traj.Dofs(),
		Frames:    traj.Count(),
	}

	metaFile, err := os.Create(filepath.Join(recDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(recDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := make([]string, traj.Dofs())
	for i := range header {
		header[i] = fmt.Sprintf("q%d", i)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := 0; i < traj.Count(); i++ {
		frame := traj.Frame(i)
		row := make([]string, len(frame))
		for j, val := range frame {
			row[j] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return recID, w.Error()
}

// List returns the metadata of every recording under the base directory.
func (s *Store) List() ([]RecordingMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RecordingMetadata{}, nil
		}
		return nil, err
	}

	recs := make([]RecordingMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RecordingMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		recs = append(recs, meta)
	}
	return recs, nil
}

// Load reads a recording's metadata and trajectory.
func (s *Store) Load(recID string) (*RecordingMetadata, *world.Trajectory, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, recID, "metadata.json"))
	if err != nil {
		return nil, nil, err
	}
	var meta RecordingMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil, err
	}

	traj, err := LoadTrajectoryCSV(filepath.Join(s.baseDir, recID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	return &meta, traj, nil
}

// LoadTrajectoryCSV reads a trajectory from a header-prefixed CSV with
// one frame per row.
func LoadTrajectoryCSV(path string) (*world.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("storage: %s has no header", path)
	}

	dofs := len(rows[0])
	frames := rows[1:]
	traj := world.NewTrajectory(dofs, len(frames))
	for i, row := range frames {
		if len(row) != dofs {
			return nil, fmt.Errorf("storage: row %d has %d values, want %d", i+1, len(row), dofs)
		}
		frame := make(world.State, dofs)
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d col %d: %w", i+1, j, err)
			}
			frame[j] = v
		}
		traj.SetFrame(i, frame)
	}
	return traj, nil
}
