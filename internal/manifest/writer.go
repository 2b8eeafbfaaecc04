package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// New creates an empty manifest for a filter expression.
func New(filter string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Filter:      filter,
		BasePath:    "./",
		Outputs:     make(map[string]Output),
	}
}

// ComputeStats recalculates aggregate statistics from outputs. Failed is
// set by the producer and kept.
func (m *Manifest) ComputeStats() {
	s := Stats{Failed: m.Stats.Failed}
	s.TotalOutputs = len(m.Outputs)
	for _, o := range m.Outputs {
		s.TotalInputBytes += o.Source.Size
		s.TotalOutputBytes += o.Size
		s.FilteredPixels += o.Effective.Pixels()
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file. Map keys are sorted
// by encoding/json, so output is stable.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Locate returns the manifest path for a file or an output directory.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return filepath.Join(path, FileName), nil
	}
	return path, nil
}

// ReadJSON loads a manifest. Unknown fields are ignored.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
