package env

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Trace stores per-frame snapshots of one craft for offline viewing
type Trace struct {
	Generation int        `json:"generation"`
	Score      float64    `json:"score"`
	Path       TracePath  `json:"path"`
	Frames     []Snapshot `json:"frames"`
	Targets    []Vec      `json:"targets"`
}

// TracePath records the scripted path the trace was run against
type TracePath struct {
	Steps  int     `json:"steps"`
	Spread float64 `json:"spread"`
}

// NewTrace creates an empty trace for the given path
func NewTrace(path ScriptedPath) *Trace {
	return &Trace{
		Generation: path.Generation,
		Path:       TracePath{Steps: path.Steps, Spread: path.Spread},
		Frames:     make([]Snapshot, 0, path.Steps),
		Targets:    make([]Vec, 0, path.Steps),
	}
}

// Record appends one frame
func (t *Trace) Record(target Vec, s Snapshot) {
	t.Targets = append(t.Targets, target)
	t.Frames = append(t.Frames, s)
}

// Save writes the trace as JSON
func (t *Trace) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTrace reads a trace from a file
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
