package manifest

import "time"

// SchemaVersion is written into every header and validated on read.
const SchemaVersion = 1

// Meta is the mutable manifest header. It occupies the first line of the
// file and is rewritten, never appended, when it changes.
type Meta struct {
	// MetaMarker distinguishes the header from item records on read.
	MetaMarker bool `json:"__manifest_meta__"`

	InputDir      string         `json:"input_dir"`
	SchemaVersion int            `json:"schema_version"`
	Settings      map[string]any `json:"settings,omitempty"`
	TotalFiles    int            `json:"total_files"`
	CreatedAt     string         `json:"created_at"`
}

// NewMeta constructs a header for a fresh scan of inputDir.
func NewMeta(inputDir string, totalFiles int, settings map[string]any) Meta {
	return Meta{
		MetaMarker:    true,
		InputDir:      inputDir,
		SchemaVersion: SchemaVersion,
		Settings:      settings,
		TotalFiles:    totalFiles,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

// PixelStats holds per-channel statistics for a decoded image.
type PixelStats struct {
	MeanR          float64 `json:"mean_r"`
	MeanG          float64 `json:"mean_g"`
	MeanB          float64 `json:"mean_b"`
	StdR           float64 `json:"std_r"`
	StdG           float64 `json:"std_g"`
	StdB           float64 `json:"std_b"`
	MeanBrightness float64 `json:"mean_brightness"`
	MinVal         int     `json:"min_val"`
	MaxVal         int     `json:"max_val"`
}

// CornerStats captures corner versus center brightness used for border
// artifact detection (burned-in frames, vignetting, letterboxing).
type CornerStats struct {
	CornerMean float64 `json:"corner_mean"`
	CenterMean float64 `json:"center_mean"`
	BorderMean float64 `json:"border_mean"`
	Delta      float64 `json:"delta"`
}

// Record is one processed file's diagnostic data. Records are immutable
// once appended; the clustering and gate layers only ever read them.
type Record struct {
	// Identity fields. Path, FileSizeBytes and MTimeNS together form the
	// resume key; see Key.
	Path          string `json:"path"`
	Filename      string `json:"filename"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	MTimeNS       int64  `json:"mtime_ns"`

	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Format      string  `json:"format"`
	ColorMode   string  `json:"color_mode"`
	NumChannels int     `json:"num_channels"`
	AspectRatio float64 `json:"aspect_ratio"`

	PixelStats  *PixelStats  `json:"pixel_stats,omitempty"`
	CornerStats *CornerStats `json:"corner_stats,omitempty"`

	PHash string `json:"phash,omitempty"`
	DHash string `json:"dhash,omitempty"`

	IsCorrupt         bool `json:"is_corrupt"`
	IsDark            bool `json:"is_dark"`
	IsOverexposed     bool `json:"is_overexposed"`
	HasBorderArtifact bool `json:"has_border_artifact"`

	AnalyzedAt      string `json:"analyzed_at"`
	AnalyzerVersion string `json:"analyzer_version"`
}

// Hashable reports whether the record carries a perceptual hash usable for
// duplicate or leakage matching.
func (r Record) Hashable() bool {
	return r.PHash != "" && !r.IsCorrupt
}
