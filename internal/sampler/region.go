package sampler

import (
	"fmt"
	"image"
	"image/draw"
)

// Region is a named face or hair area produced by segmentation.
type Region string

const (
	RegionSkin Region = "skin"
	RegionHair Region = "hair"
	RegionLips Region = "lips"
	RegionEyes Region = "eyes"
)

// Regions returns the fixed regions in sampling order.
func Regions() []Region {
	return []Region{RegionSkin, RegionHair, RegionLips, RegionEyes}
}

// ParseRegion validates a region name.
func ParseRegion(name string) (Region, error) {
	for _, r := range Regions() {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid regions: %v)", ErrInvalidRegion, name, Regions())
}

// DefaultMaskThreshold selects pixels whose mask probability is at least 0.5.
const DefaultMaskThreshold = 128

// Mask marks the pixels that belong to one region.
// A pixel is selected when its gray value is at or above Threshold, so both
// boolean (0/255) and probability (0..255) masks are supported. A zero
// Threshold means DefaultMaskThreshold; unmarked pixels are never selected.
type Mask struct {
	Gray      *image.Gray
	Threshold uint8
}

// NewMask wraps any image as a mask, converting it to grayscale if needed.
func NewMask(img image.Image) *Mask {
	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(img.Bounds())
		draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return &Mask{Gray: gray, Threshold: DefaultMaskThreshold}
}

// Bounds returns the mask bounds.
func (m *Mask) Bounds() image.Rectangle {
	return m.Gray.Bounds()
}

// Selected reports whether the pixel at offset (dx, dy) from the mask origin
// belongs to the region.
func (m *Mask) Selected(dx, dy int) bool {
	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultMaskThreshold
	}
	b := m.Gray.Bounds()
	return m.Gray.GrayAt(b.Min.X+dx, b.Min.Y+dy).Y >= threshold
}

// Masks maps each region to its mask.
type Masks map[Region]*Mask
