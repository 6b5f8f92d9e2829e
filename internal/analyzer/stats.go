package analyzer

import (
	"image"
	"math"

	"imgeda/internal/manifest"
)

// computePixelStats walks the NRGBA pixel buffer once, accumulating
// per-channel sums and squared sums.
func computePixelStats(img *image.NRGBA) manifest.PixelStats {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	n := float64(w * h)
	if n == 0 {
		return manifest.PixelStats{}
	}

	var sumR, sumG, sumB float64
	var sqR, sqG, sqB float64
	minVal, maxVal := 255, 0

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			r := float64(row[x])
			g := float64(row[x+1])
			b := float64(row[x+2])
			sumR += r
			sumG += g
			sumB += b
			sqR += r * r
			sqG += g * g
			sqB += b * b
			for _, v := range []int{int(row[x]), int(row[x+1]), int(row[x+2])} {
				if v < minVal {
					minVal = v
				}
				if v > maxVal {
					maxVal = v
				}
			}
		}
	}

	meanR := sumR / n
	meanG := sumG / n
	meanB := sumB / n
	return manifest.PixelStats{
		MeanR:          meanR,
		MeanG:          meanG,
		MeanB:          meanB,
		StdR:           std(sqR, sumR, n),
		StdG:           std(sqG, sumG, n),
		StdB:           std(sqB, sumB, n),
		MeanBrightness: (meanR + meanG + meanB) / 3,
		MinVal:         minVal,
		MaxVal:         maxVal,
	}
}

func std(sumSquares, sum, n float64) float64 {
	variance := sumSquares/n - (sum/n)*(sum/n)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// computeCornerStats compares corner-patch brightness against the image
// center. A large delta usually means a burned-in border, vignetting or
// letterboxing.
func computeCornerStats(img *image.NRGBA, patchFraction float64) manifest.CornerStats {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return manifest.CornerStats{}
	}

	pw := int(float64(w) * patchFraction)
	if pw < 1 {
		pw = 1
	}
	ph := int(float64(h) * patchFraction)
	if ph < 1 {
		ph = 1
	}

	corners := meanBrightnessRegions(img, []image.Rectangle{
		image.Rect(0, 0, pw, ph),
		image.Rect(w-pw, 0, w, ph),
		image.Rect(0, h-ph, pw, h),
		image.Rect(w-pw, h-ph, w, h),
	})

	cw, ch := w/4, h/4
	center := meanBrightnessRegions(img, []image.Rectangle{
		image.Rect(cw, ch, w-cw, h-ch),
	})

	border := meanBrightnessRegions(img, []image.Rectangle{
		image.Rect(0, 0, w, ph),
		image.Rect(0, h-ph, w, h),
		image.Rect(0, 0, pw, h),
		image.Rect(w-pw, 0, w, h),
	})

	return manifest.CornerStats{
		CornerMean: corners,
		CenterMean: center,
		BorderMean: border,
		Delta:      math.Abs(corners - center),
	}
}

// meanBrightnessRegions averages pixel brightness across the union of the
// given rectangles, counting overlapping pixels once per rectangle they
// appear in, matching how the border strips overlap at the corners.
func meanBrightnessRegions(img *image.NRGBA, regions []image.Rectangle) float64 {
	var sum float64
	var count int
	for _, r := range regions {
		r = r.Intersect(img.Bounds())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			off := y*img.Stride + r.Min.X*4
			for x := r.Min.X; x < r.Max.X; x++ {
				sum += (float64(img.Pix[off]) + float64(img.Pix[off+1]) + float64(img.Pix[off+2])) / 3
				off += 4
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
