package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Sprites:     make(map[string]Sprite),
		BuildInfo:   &BuildInfo{RunID: uuid.NewString()},
	}
}

// ComputeStats recalculates the derived statistics. TotalImages and
// TotalInputBytes describe the inputs and are left as set by the caller.
func (m *Manifest) ComputeStats() {
	s := m.Stats
	s.Packed = len(m.Sprites)
	s.Unplaced = len(m.Unplaced)
	s.Rejected = len(m.Rejected)
	s.FillRatio = 0
	if area := float64(m.Atlas.Width) * float64(m.Atlas.Height); area > 0 {
		var used float64
		for _, sp := range m.Sprites {
			used += float64(sp.Width) * float64(sp.Height)
		}
		s.FillRatio = used / area
	}
	m.Stats = s
}

// Coordinates returns the flat name → rectangle view of the sprites.
func (m *Manifest) Coordinates() map[string]Frame {
	out := make(map[string]Frame, len(m.Sprites))
	for name, s := range m.Sprites {
		out[name] = Frame{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	}
	return out
}

// encode writes v with two-space indent and sorted map keys. HTML escaping
// is off so sprite names keep their original characters.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeManifest serializes the manifest after refreshing its stats.
func EncodeManifest(m *Manifest) ([]byte, error) {
	m.ComputeStats()
	return encode(m)
}

// EncodeCoordinates serializes the flat coordinates file.
func EncodeCoordinates(m *Manifest) ([]byte, error) {
	return encode(m.Coordinates())
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	data, err := EncodeManifest(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteCoordinates writes the flat coordinates file.
func WriteCoordinates(m *Manifest, path string) error {
	data, err := EncodeCoordinates(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads and parses a manifest file. Unknown fields are ignored.
func Load(path string) (*Manifest, error) {
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
