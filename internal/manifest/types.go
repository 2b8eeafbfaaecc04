package manifest

// FileName is the manifest's name inside an output directory.
const FileName = "colorfx.manifest.json"

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// Manifest is the top-level output of a colorfx apply run.
type Manifest struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	Filter      string            `json:"filter"`
	MatrixHash  string            `json:"matrix_hash"`
	Matrix      [5][4]float32     `json:"matrix"`
	BasePath    string            `json:"base_path"`
	BuildInfo   *BuildInfo        `json:"build_info,omitempty"`
	Outputs     map[string]Output `json:"outputs"`
	Stats       Stats             `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers        int `json:"workers"`
	MaxParallelism int `json:"max_parallelism"`
	MinRowsPerTask int `json:"min_rows_per_task"`
}

// Output describes one source image and its filtered file.
type Output struct {
	Source    SourceInfo `json:"source"`
	Region    Region     `json:"region"`    // as requested
	Effective Region     `json:"effective"` // clipped to the image
	Format    string     `json:"format"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Size      int64      `json:"size"` // bytes on disk
	Hash      string     `json:"hash"` // xxhash64 of the file, 16 hex chars
	// PixelDigest is the xxhash64 of the filtered pixels inside Effective.
	PixelDigest string `json:"pixel_digest"`
	Path        string `json:"path"` // relative to base_path
}

// SourceInfo holds metadata about the source image.
type SourceInfo struct {
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
}

// Region is a pixel rectangle in image coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Pixels returns the region's area, zero for degenerate regions.
func (r Region) Pixels() int64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return int64(r.Width) * int64(r.Height)
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalOutputs     int   `json:"total_outputs"`
	FilteredPixels   int64 `json:"filtered_pixels"`
	Failed           int   `json:"failed,omitempty"`
}
