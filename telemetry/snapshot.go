package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/dye/fluid"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the flow state of a simulator for replay.
type Snapshot struct {
	Version int   `json:"version"`
	Tick    int32 `json:"tick"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ramp   string `json:"ramp,omitempty"`

	Density  []float32 `json:"density"`
	Velocity []float32 `json:"velocity"` // interleaved x,y
	Pressure []float32 `json:"pressure,omitempty"`
}

// CaptureSnapshot copies the current flow state of sim.
func CaptureSnapshot(sim *fluid.Simulator, tick int32, ramp string) *Snapshot {
	w, h := sim.Size()
	return &Snapshot{
		Version:  SnapshotVersion,
		Tick:     tick,
		Width:    w,
		Height:   h,
		Ramp:     ramp,
		Density:  append([]float32(nil), sim.Density().Data...),
		Velocity: append([]float32(nil), sim.Velocity().Data...),
		Pressure: append([]float32(nil), sim.Pressure().Data...),
	}
}

// Apply loads the snapshot into sim, resizing the grid to match.
func (s *Snapshot) Apply(sim *fluid.Simulator) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return sim.Restore(s.Width, s.Height, s.Density, s.Velocity, s.Pressure)
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
