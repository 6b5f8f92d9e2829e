package testsupport

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// NoiseImage returns a deterministic pseudo-random image. Different seeds
// produce visually unrelated images with distant perceptual hashes;
// identical seeds reproduce the exact same pixels.
func NoiseImage(seed int64, w, h int) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = byte(rng.Intn(256))
		img.Pix[i+1] = byte(rng.Intn(256))
		img.Pix[i+2] = byte(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

// SolidImage returns a uniformly colored image.
func SolidImage(c color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	return img
}

// DarkImage returns low-brightness noise (mean well under 40).
func DarkImage(seed int64, w, h int) *image.NRGBA {
	img := NoiseImage(seed, w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] /= 16
		img.Pix[i+1] /= 16
		img.Pix[i+2] /= 16
	}
	return img
}

// BrightImage returns high-brightness noise (mean well over 220).
func BrightImage(seed int64, w, h int) *image.NRGBA {
	img := NoiseImage(seed, w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 240 + img.Pix[i]/16
		img.Pix[i+1] = 240 + img.Pix[i+1]/16
		img.Pix[i+2] = 240 + img.Pix[i+2]/16
	}
	return img
}

// BorderArtifactImage returns a bright center framed by a dark border,
// tripping the corner/center delta check.
func BorderArtifactImage(w, h int) *image.NRGBA {
	img := SolidImage(color.NRGBA{R: 20, G: 20, B: 20}, w, h)
	bw, bh := w/5, h/5
	for y := bh; y < h-bh; y++ {
		for x := bw; x < w-bw; x++ {
			off := y*img.Stride + x*4
			img.Pix[off] = 220
			img.Pix[off+1] = 220
			img.Pix[off+2] = 220
		}
	}
	return img
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(t testing.TB, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

// WriteCorruptImage writes a file with an image extension whose contents
// no decoder accepts.
func WriteCorruptImage(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nnot really pixels"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
