package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"imgeda/internal/manifest"
)

var csvHeader = []string{
	"path", "filename", "file_size_bytes", "mtime_ns",
	"width", "height", "format", "color_mode", "num_channels", "aspect_ratio",
	"phash", "dhash",
	"is_corrupt", "is_dark", "is_overexposed", "has_border_artifact",
	"analyzed_at", "analyzer_version",
}

// WriteCSV streams records as CSV with a fixed header row. Pixel and
// corner statistics stay in the manifest; the flat export carries the
// fields downstream spreadsheets actually consume.
func WriteCSV(w io.Writer, records []manifest.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Path,
			rec.Filename,
			strconv.FormatInt(rec.FileSizeBytes, 10),
			strconv.FormatInt(rec.MTimeNS, 10),
			strconv.Itoa(rec.Width),
			strconv.Itoa(rec.Height),
			rec.Format,
			rec.ColorMode,
			strconv.Itoa(rec.NumChannels),
			strconv.FormatFloat(rec.AspectRatio, 'f', -1, 64),
			rec.PHash,
			rec.DHash,
			strconv.FormatBool(rec.IsCorrupt),
			strconv.FormatBool(rec.IsDark),
			strconv.FormatBool(rec.IsOverexposed),
			strconv.FormatBool(rec.HasBorderArtifact),
			rec.AnalyzedAt,
			rec.AnalyzerVersion,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", rec.Path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
