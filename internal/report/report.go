// Package report aggregates a record set into dataset-level summary
// statistics. It reads manifests and never writes them.
package report

import (
	"path/filepath"
	"sort"
	"strings"

	"imgeda/internal/manifest"
)

// Summary holds dataset-level aggregates over one manifest.
type Summary struct {
	TotalImages      int
	TotalSizeBytes   int64
	CorruptCount     int
	DarkCount        int
	OverexposedCount int
	ArtifactCount    int

	// Dimension extremes cover non-corrupt records only.
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int

	FormatCounts    []CountedValue
	ModeCounts      []CountedValue
	ExtensionCounts []CountedValue
}

// CountedValue is one histogram bucket, ordered most frequent first.
type CountedValue struct {
	Value string
	Count int
}

// Summarize aggregates records into a Summary. An empty record set yields
// the zero summary.
func Summarize(records []manifest.Record) Summary {
	sum := Summary{TotalImages: len(records)}
	if len(records) == 0 {
		return sum
	}

	formats := make(map[string]int)
	modes := make(map[string]int)
	extensions := make(map[string]int)
	first := true

	for _, rec := range records {
		sum.TotalSizeBytes += rec.FileSizeBytes
		if rec.IsCorrupt {
			sum.CorruptCount++
		}
		if rec.IsDark {
			sum.DarkCount++
		}
		if rec.IsOverexposed {
			sum.OverexposedCount++
		}
		if rec.HasBorderArtifact {
			sum.ArtifactCount++
		}

		if rec.Format != "" {
			formats[rec.Format]++
		}
		if rec.ColorMode != "" {
			modes[rec.ColorMode]++
		}
		if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rec.Filename), ".")); ext != "" {
			extensions[ext]++
		}

		if rec.IsCorrupt {
			continue
		}
		if first {
			sum.MinWidth, sum.MaxWidth = rec.Width, rec.Width
			sum.MinHeight, sum.MaxHeight = rec.Height, rec.Height
			first = false
			continue
		}
		if rec.Width < sum.MinWidth {
			sum.MinWidth = rec.Width
		}
		if rec.Width > sum.MaxWidth {
			sum.MaxWidth = rec.Width
		}
		if rec.Height < sum.MinHeight {
			sum.MinHeight = rec.Height
		}
		if rec.Height > sum.MaxHeight {
			sum.MaxHeight = rec.Height
		}
	}

	sum.FormatCounts = sortedCounts(formats)
	sum.ModeCounts = sortedCounts(modes)
	sum.ExtensionCounts = sortedCounts(extensions)
	return sum
}

// sortedCounts orders buckets by descending count, then value for ties.
func sortedCounts(counts map[string]int) []CountedValue {
	out := make([]CountedValue, 0, len(counts))
	for value, count := range counts {
		out = append(out, CountedValue{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
