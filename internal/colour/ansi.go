package colour

import (
	"fmt"
	"strings"
)

const (
	ansiReset   = "\033[0m"
	swatchWidth = 8
)

// Swatch renders c as a block of width spaces on a 24-bit ANSI background.
func Swatch(c RGB, width int) string {
	if width <= 0 {
		width = swatchWidth
	}
	return fmt.Sprintf("\033[48;2;%d;%d;%dm%s%s", c.R, c.G, c.B, strings.Repeat(" ", width), ansiReset)
}

// Strip renders one narrow swatch per colour side by side.
func Strip(colours []RGB) string {
	var b strings.Builder
	for _, c := range colours {
		b.WriteString(Swatch(c, 2))
	}
	return b.String()
}

// Labelled formats a colour as "<label> [R G B] #rrggbb", led by a swatch
// when preview is set.
func Labelled(c RGB, label string, preview bool) string {
	line := fmt.Sprintf("%-12s %-15s %s", label, c, c.Hex())
	if !preview {
		return line
	}
	return Swatch(c, swatchWidth) + "  " + line
}
