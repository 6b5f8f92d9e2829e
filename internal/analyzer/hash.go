package analyzer

import (
	"fmt"
	"image"

	"github.com/artyom/phash"
	"github.com/disintegration/imaging"
)

// computePHash returns the 64-bit DCT perceptual hash as a 16-char hex
// string. Visually similar images produce hashes with low Hamming
// distance.
func computePHash(img image.Image) (string, error) {
	v, err := phash.Get(img, func(img image.Image, w, h int) image.Image {
		return imaging.Resize(img, w, h, imaging.Lanczos)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", v), nil
}

// computeDHash returns the 64-bit horizontal-gradient difference hash as a
// 16-char hex string: the image shrinks to 9x8 grayscale and each bit
// records whether brightness rises left to right.
func computeDHash(img image.Image) string {
	small := imaging.Grayscale(imaging.Resize(img, 9, 8, imaging.Lanczos))

	var v uint64
	bit := 0
	for y := 0; y < 8; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < 8; x++ {
			left := row[x*4]
			right := row[(x+1)*4]
			if left < right {
				v |= 1 << uint(63-bit)
			}
			bit++
		}
	}
	return fmt.Sprintf("%016x", v)
}
