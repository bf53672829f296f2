// layout - Fixed-layout portrait segmenter (Seasonal Segmenter Plugin)
//
// Produces skin, hair, lips and eyes masks from the typical geometry of a
// centred, front-facing head-and-shoulders portrait, such as a passport or
// ID photo. No model is involved, so results are only as good as the framing.
//
// Build:
//   go build -o seasonal-layout
//
// Usage:
//   seasonal analyze --plugin ./seasonal-layout portrait.jpg
//
// Author: Seasonal Contributors
// License: MIT

package main

import (
	"github.com/jmylchreest/seasonal/pkg/plugin"
)

func main() {
	plugin.Serve(&Layout{})
}
