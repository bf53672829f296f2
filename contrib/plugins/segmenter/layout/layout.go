package main

import (
	"errors"
	"image"
	"image/color"

	"github.com/jmylchreest/seasonal/pkg/plugin"
)

const version = "0.1.0"

// ellipse is an axis-aligned ellipse in coordinates relative to the image
// size, so (0.5, 0.5) is always the centre.
type ellipse struct {
	cx, cy, rx, ry float64
}

func (e ellipse) contains(x, y float64) bool {
	dx := (x - e.cx) / e.rx
	dy := (y - e.cy) / e.ry
	return dx*dx+dy*dy <= 1
}

var (
	face     = ellipse{cx: 0.5, cy: 0.55, rx: 0.26, ry: 0.34}
	head     = ellipse{cx: 0.5, cy: 0.45, rx: 0.36, ry: 0.42}
	leftEye  = ellipse{cx: 0.4, cy: 0.48, rx: 0.06, ry: 0.025}
	rightEye = ellipse{cx: 0.6, cy: 0.48, rx: 0.06, ry: 0.025}
	lips     = ellipse{cx: 0.5, cy: 0.72, rx: 0.09, ry: 0.035}

	// hairline is the lowest point hair is assumed to reach.
	hairline = 0.55
)

// Layout segments portraits by fixed facial geometry.
type Layout struct{}

// region names the region at a relative position, or "" for background.
func region(x, y float64) string {
	switch {
	case leftEye.contains(x, y), rightEye.contains(x, y):
		return "eyes"
	case lips.contains(x, y):
		return "lips"
	case face.contains(x, y):
		return "skin"
	case head.contains(x, y) && y < hairline:
		return "hair"
	default:
		return ""
	}
}

// Segment implements plugin.Segmenter.
func (l *Layout) Segment(img image.Image) (map[string]*image.Gray, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("empty image")
	}

	masks := map[string]*image.Gray{
		"skin": image.NewGray(b),
		"hair": image.NewGray(b),
		"lips": image.NewGray(b),
		"eyes": image.NewGray(b),
	}
	w, h := float64(b.Dx()), float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		ry := (float64(y-b.Min.Y) + 0.5) / h
		for x := b.Min.X; x < b.Max.X; x++ {
			rx := (float64(x-b.Min.X) + 0.5) / w
			if name := region(rx, ry); name != "" {
				masks[name].SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return masks, nil
}

// GetMetadata implements plugin.Segmenter.
func (l *Layout) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            "layout",
		Version:         version,
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Fixed-layout segmenter for centred front-facing portraits",
	}
}
