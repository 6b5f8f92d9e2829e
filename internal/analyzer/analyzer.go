package analyzer

import (
	"context"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"imgeda/internal/config"
	"imgeda/internal/manifest"
)

// Version is recorded on every produced record so manifests written by
// differing analyzer revisions can be told apart.
const Version = "1"

// Analyzer produces manifest records for image files.
type Analyzer struct {
	cfg *config.Config
}

// New constructs an analyzer bound to the given scan configuration.
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze inspects one file. It never returns an error; all failure is
// encoded as IsCorrupt with defaulted fields.
func (a *Analyzer) Analyze(ctx context.Context, path string) (rec manifest.Record) {
	rec = manifest.Record{
		Path:            path,
		Filename:        filepath.Base(path),
		AnalyzedAt:      time.Now().UTC().Format(time.RFC3339),
		AnalyzerVersion: Version,
	}

	// Decoders run arbitrary parsing over untrusted bytes; a panic on a
	// pathological input must become a corrupt record, not a crash.
	defer func() {
		if r := recover(); r != nil {
			rec.IsCorrupt = true
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		rec.IsCorrupt = true
		return rec
	}
	rec.FileSizeBytes = info.Size()
	rec.MTimeNS = info.ModTime().UnixNano()

	if ctx.Err() != nil {
		rec.IsCorrupt = true
		return rec
	}

	f, err := os.Open(path)
	if err != nil {
		rec.IsCorrupt = true
		return rec
	}
	defer f.Close()

	imgCfg, format, err := image.DecodeConfig(f)
	if err != nil {
		rec.IsCorrupt = true
		return rec
	}
	rec.Width = imgCfg.Width
	rec.Height = imgCfg.Height
	rec.Format = strings.ToLower(format)
	rec.ColorMode, rec.NumChannels = colorMode(imgCfg.ColorModel)
	if imgCfg.Height > 0 {
		rec.AspectRatio = math.Round(float64(imgCfg.Width)/float64(imgCfg.Height)*10000) / 10000
	}

	if _, err := f.Seek(0, 0); err != nil {
		rec.IsCorrupt = true
		return rec
	}
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		rec.IsCorrupt = true
		return rec
	}

	// Downsample before any per-pixel work; the statistics and hashes are
	// resolution-insensitive and the savings dominate on camera originals.
	maxDim := a.cfg.Thresholds.MaxImageDimension
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	pixels := imaging.Clone(img)

	if !a.cfg.Scan.SkipPixelStats {
		ps := computePixelStats(pixels)
		rec.PixelStats = &ps
		rec.IsDark = ps.MeanBrightness < a.cfg.Thresholds.Dark
		rec.IsOverexposed = ps.MeanBrightness > a.cfg.Thresholds.Overexposed

		cs := computeCornerStats(pixels, a.cfg.Thresholds.CornerPatchFraction)
		rec.CornerStats = &cs
		rec.HasBorderArtifact = cs.Delta > a.cfg.Thresholds.Artifact
	}

	if a.cfg.Scan.IncludeHashes {
		ph, err := computePHash(img)
		if err != nil {
			rec.IsCorrupt = true
			return rec
		}
		rec.PHash = ph
		rec.DHash = computeDHash(img)
	}

	return rec
}

func colorMode(model color.Model) (string, int) {
	switch model {
	case color.GrayModel:
		return "gray", 1
	case color.Gray16Model:
		return "gray16", 1
	case color.YCbCrModel:
		return "ycbcr", 3
	case color.NYCbCrAModel:
		return "nycbcra", 4
	case color.RGBAModel:
		return "rgba", 4
	case color.NRGBAModel:
		return "nrgba", 4
	case color.RGBA64Model, color.NRGBA64Model:
		return "rgba64", 4
	case color.CMYKModel:
		return "cmyk", 4
	case color.AlphaModel, color.Alpha16Model:
		return "alpha", 1
	}
	if _, ok := model.(color.Palette); ok {
		return "paletted", 3
	}
	return "unknown", 3
}
