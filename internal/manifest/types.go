package manifest

// Manifest is the top-level output of an atlaspack run.
type Manifest struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	Profile     string            `json:"profile"`
	Atlas       AtlasInfo         `json:"atlas"`
	Sprites     map[string]Sprite `json:"sprites"`
	Unplaced    []string          `json:"unplaced,omitempty"`
	Rejected    []Rejection       `json:"rejected,omitempty"`
	BuildInfo   *BuildInfo        `json:"build_info,omitempty"`
	Stats       Stats             `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	RunID   string `json:"run_id"`
	Workers int    `json:"workers"`
	MaxSize int    `json:"max_size"`
}

// AtlasInfo describes the encoded atlas file.
type AtlasInfo struct {
	File   string `json:"file"`   // relative to the manifest
	Format string `json:"format"` // "png", "webp", "avif"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // 16 hex chars of xxhash64
}

// Sprite is one packed image: its atlas rectangle plus trim metadata.
type Sprite struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	OffsetX      int    `json:"offset_x"` // trim origin in the source canvas
	OffsetY      int    `json:"offset_y"`
	Hash         string `json:"hash,omitempty"`      // pixel hash, see hasher.PixelHash
	AvgColor     string `json:"avg_color,omitempty"` // "#rrggbb", alpha-weighted
}

// Trimmed reports whether content trimming shrank the sprite.
func (s Sprite) Trimmed() bool {
	return s.Width != s.SourceWidth || s.Height != s.SourceHeight
}

// Rejection records an input that never entered the batch.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Frame is one entry of the flat coordinates file.
type Frame struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalImages     int     `json:"total_images"` // every scanned input
	Packed          int     `json:"packed"`
	Unplaced        int     `json:"unplaced"`
	Rejected        int     `json:"rejected"`
	FillRatio       float64 `json:"fill_ratio"`
	TotalInputBytes int64   `json:"total_input_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// File names written next to the atlas.
const (
	ManifestFile    = "atlaspack.manifest.json"
	CoordinatesFile = "atlas_coordinates.json"
)
