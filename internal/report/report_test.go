package report_test

import (
	"testing"

	"imgeda/internal/manifest"
	"imgeda/internal/report"
)

func TestSummarizeEmpty(t *testing.T) {
	sum := report.Summarize(nil)
	if sum.TotalImages != 0 || sum.TotalSizeBytes != 0 || len(sum.FormatCounts) != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}

func TestSummarize(t *testing.T) {
	records := []manifest.Record{
		{
			Path: "/data/a.jpg", Filename: "a.jpg", FileSizeBytes: 1000,
			Width: 640, Height: 480, Format: "jpeg", ColorMode: "RGB",
		},
		{
			Path: "/data/b.png", Filename: "b.png", FileSizeBytes: 2000,
			Width: 1920, Height: 1080, Format: "png", ColorMode: "RGB",
			IsDark: true,
		},
		{
			Path: "/data/c.jpg", Filename: "c.jpg", FileSizeBytes: 500,
			Width: 320, Height: 240, Format: "jpeg", ColorMode: "L",
			IsOverexposed: true, HasBorderArtifact: true,
		},
		{
			// Corrupt record: counted and sized, excluded from extremes.
			Path: "/data/d.jpg", Filename: "d.jpg", FileSizeBytes: 50,
			IsCorrupt: true,
		},
	}

	sum := report.Summarize(records)
	if sum.TotalImages != 4 || sum.TotalSizeBytes != 3550 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.CorruptCount != 1 || sum.DarkCount != 1 || sum.OverexposedCount != 1 || sum.ArtifactCount != 1 {
		t.Fatalf("unexpected flag counts: %+v", sum)
	}
	if sum.MinWidth != 320 || sum.MaxWidth != 1920 || sum.MinHeight != 240 || sum.MaxHeight != 1080 {
		t.Fatalf("corrupt zero dimensions leaked into extremes: %+v", sum)
	}

	if len(sum.FormatCounts) != 2 || sum.FormatCounts[0].Value != "jpeg" || sum.FormatCounts[0].Count != 2 {
		t.Fatalf("unexpected format histogram: %v", sum.FormatCounts)
	}
	if len(sum.ExtensionCounts) != 2 || sum.ExtensionCounts[0].Value != "jpg" || sum.ExtensionCounts[0].Count != 3 {
		t.Fatalf("unexpected extension histogram: %v", sum.ExtensionCounts)
	}
	if len(sum.ModeCounts) != 2 || sum.ModeCounts[0].Value != "RGB" {
		t.Fatalf("unexpected mode histogram: %v", sum.ModeCounts)
	}
}

func TestSummarizeAllCorrupt(t *testing.T) {
	records := []manifest.Record{
		{Path: "/data/x.png", Filename: "x.png", IsCorrupt: true},
		{Path: "/data/y.png", Filename: "y.png", IsCorrupt: true},
	}
	sum := report.Summarize(records)
	if sum.CorruptCount != 2 {
		t.Fatalf("corrupt count = %d, want 2", sum.CorruptCount)
	}
	if sum.MinWidth != 0 || sum.MaxWidth != 0 {
		t.Fatalf("dimension extremes should stay zero: %+v", sum)
	}
}
