package analyzer_test

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"

	"imgeda/internal/analyzer"
	"imgeda/internal/testsupport"
)

func TestAnalyzeNormalImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "normal.png")
	testsupport.WritePNG(t, path, testsupport.NoiseImage(1, 64, 48))

	cfg := testsupport.NewConfig(t)
	rec := analyzer.New(cfg).Analyze(context.Background(), path)

	if rec.IsCorrupt {
		t.Fatalf("expected clean record, got %+v", rec)
	}
	if rec.Width != 64 || rec.Height != 48 {
		t.Fatalf("unexpected dimensions: %dx%d", rec.Width, rec.Height)
	}
	if rec.Format != "png" {
		t.Fatalf("unexpected format: %q", rec.Format)
	}
	if rec.FileSizeBytes <= 0 || rec.MTimeNS == 0 {
		t.Fatalf("identity fields missing: %+v", rec)
	}
	if len(rec.PHash) != 16 || len(rec.DHash) != 16 {
		t.Fatalf("expected 16-char hashes, got %q / %q", rec.PHash, rec.DHash)
	}
	if rec.PixelStats == nil || rec.CornerStats == nil {
		t.Fatal("expected pixel and corner stats")
	}
	if rec.IsDark || rec.IsOverexposed || rec.HasBorderArtifact {
		t.Fatalf("noise image should carry no flags: %+v", rec)
	}
	if rec.AspectRatio != 1.3333 {
		t.Fatalf("unexpected aspect ratio: %v", rec.AspectRatio)
	}
}

func TestAnalyzeFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.NewConfig(t)
	a := analyzer.New(cfg)

	dark := filepath.Join(dir, "dark.png")
	testsupport.WritePNG(t, dark, testsupport.DarkImage(2, 64, 64))
	if rec := a.Analyze(context.Background(), dark); !rec.IsDark || rec.IsOverexposed {
		t.Fatalf("expected dark flag: %+v", rec)
	}

	bright := filepath.Join(dir, "bright.png")
	testsupport.WritePNG(t, bright, testsupport.BrightImage(3, 64, 64))
	if rec := a.Analyze(context.Background(), bright); !rec.IsOverexposed || rec.IsDark {
		t.Fatalf("expected overexposed flag: %+v", rec)
	}

	bordered := filepath.Join(dir, "bordered.png")
	testsupport.WritePNG(t, bordered, testsupport.BorderArtifactImage(100, 100))
	if rec := a.Analyze(context.Background(), bordered); !rec.HasBorderArtifact {
		t.Fatalf("expected border artifact flag: %+v", rec)
	}
}

func TestAnalyzeCorruptFileNeverErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.NewConfig(t)
	a := analyzer.New(cfg)

	corrupt := filepath.Join(dir, "corrupt.png")
	testsupport.WriteCorruptImage(t, corrupt)
	rec := a.Analyze(context.Background(), corrupt)
	if !rec.IsCorrupt {
		t.Fatalf("expected corrupt flag: %+v", rec)
	}
	if rec.Path != corrupt || rec.FileSizeBytes == 0 {
		t.Fatalf("identity should survive corruption: %+v", rec)
	}

	missing := a.Analyze(context.Background(), filepath.Join(dir, "absent.png"))
	if !missing.IsCorrupt {
		t.Fatalf("expected corrupt flag for missing file: %+v", missing)
	}
}

func TestAnalyzeIdenticalFilesShareHashes(t *testing.T) {
	dir := t.TempDir()
	cfg := testsupport.NewConfig(t)
	a := analyzer.New(cfg)

	img := testsupport.NoiseImage(7, 64, 64)
	p1 := filepath.Join(dir, "one.png")
	p2 := filepath.Join(dir, "two.png")
	testsupport.WritePNG(t, p1, img)
	testsupport.WritePNG(t, p2, img)

	r1 := a.Analyze(context.Background(), p1)
	r2 := a.Analyze(context.Background(), p2)
	if r1.PHash == "" || r1.PHash != r2.PHash {
		t.Fatalf("identical pixels must share a phash: %q vs %q", r1.PHash, r2.PHash)
	}
	if r1.DHash != r2.DHash {
		t.Fatalf("identical pixels must share a dhash: %q vs %q", r1.DHash, r2.DHash)
	}
}

func TestAnalyzeRespectsToggles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	testsupport.WritePNG(t, path, testsupport.NoiseImage(9, 32, 32))

	cfg := testsupport.NewConfig(t)
	cfg.Scan.IncludeHashes = false
	cfg.Scan.SkipPixelStats = true

	rec := analyzer.New(cfg).Analyze(context.Background(), path)
	if rec.IsCorrupt {
		t.Fatalf("unexpected corrupt record: %+v", rec)
	}
	if rec.PHash != "" || rec.DHash != "" {
		t.Fatalf("hashes should be skipped: %+v", rec)
	}
	if rec.PixelStats != nil || rec.CornerStats != nil {
		t.Fatalf("pixel stats should be skipped: %+v", rec)
	}
}

func TestAnalyzeSolidImageStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gray.png")
	testsupport.WritePNG(t, path, testsupport.SolidImage(color.NRGBA{R: 100, G: 100, B: 100}, 40, 40))

	cfg := testsupport.NewConfig(t)
	rec := analyzer.New(cfg).Analyze(context.Background(), path)
	ps := rec.PixelStats
	if ps == nil {
		t.Fatal("expected pixel stats")
	}
	if ps.MeanBrightness < 99 || ps.MeanBrightness > 101 {
		t.Fatalf("unexpected brightness: %v", ps.MeanBrightness)
	}
	if ps.StdR > 0.5 || ps.MinVal != 100 || ps.MaxVal != 100 {
		t.Fatalf("unexpected stats for solid image: %+v", ps)
	}
}
