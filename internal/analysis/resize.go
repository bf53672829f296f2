package analysis

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/seasonal/internal/sampler"
)

// DefaultMaxSide is the longest side images are reduced to before analysis.
const DefaultMaxSide = 100

// TargetSize returns the dimensions of b scaled so the longest side is at
// most maxSide, preserving the aspect ratio. Images that already fit, and a
// non-positive maxSide, keep their size.
func TargetSize(b image.Rectangle, maxSide int) (int, int) {
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if maxSide <= 0 || longest <= maxSide {
		return w, h
	}

	scale := float64(maxSide) / float64(longest)
	tw := max(1, int(math.Round(float64(w)*scale)))
	th := max(1, int(math.Round(float64(h)*scale)))
	return tw, th
}

// Downsample reduces img with nearest-neighbour sampling so its longest side
// is at most maxSide. Nearest-neighbour keeps only original pixel colours,
// which approximates but does not exactly reproduce a full-resolution analysis.
func Downsample(img image.Image, maxSide int) image.Image {
	w, h := TargetSize(img.Bounds(), maxSide)
	if w == img.Bounds().Dx() && h == img.Bounds().Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// DownsampleMasks scales every mask to exactly w x h with nearest-neighbour
// sampling, so region membership is never blended.
func DownsampleMasks(masks sampler.Masks, w, h int) sampler.Masks {
	out := make(sampler.Masks, len(masks))
	for r, m := range masks {
		if m == nil || m.Gray == nil {
			out[r] = m
			continue
		}
		b := m.Bounds()
		if b.Dx() == w && b.Dy() == h {
			out[r] = m
			continue
		}

		dst := image.NewGray(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), m.Gray, b, draw.Src, nil)
		out[r] = &sampler.Mask{Gray: dst, Threshold: m.Threshold}
	}
	return out
}
