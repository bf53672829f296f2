package palette

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/seasonal/internal/metrics"
)

// Season is one of the four seasonal colour types.
type Season string

const (
	Autumn Season = "autumn"
	Spring Season = "spring"
	Summer Season = "summer"
	Winter Season = "winter"
)

// Seasons returns the seasons in canonical order. Classification ties are
// resolved in this order.
func Seasons() []Season {
	return []Season{Autumn, Spring, Summer, Winter}
}

// ParseSeason parses a season name, ignoring case and surrounding space.
func ParseSeason(name string) (Season, error) {
	s := Season(strings.ToLower(strings.TrimSpace(name)))
	if s.index() < 0 {
		return "", fmt.Errorf("invalid season %q (valid seasons: %v)", name, Seasons())
	}
	return s, nil
}

// Title returns the capitalised season name.
func (s Season) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// File returns the name of the swatch file for the season.
func (s Season) File() string {
	return string(s) + ".csv"
}

func (s Season) index() int {
	for i, v := range Seasons() {
		if v == s {
			return i
		}
	}
	return -1
}

// DefaultVectors returns the canonical vector of each season.
func DefaultVectors() map[Season]metrics.Vector {
	return map[Season]metrics.Vector{
		Autumn: {Subtone: metrics.Warm, Intensity: 0.5, Value: 0.5, Contrast: 0.25},
		Spring: {Subtone: metrics.Warm, Intensity: 0.5, Value: 0.5, Contrast: 0.45},
		Summer: {Subtone: metrics.Cold, Intensity: 0.211, Value: 0.48, Contrast: 0.1},
		Winter: {Subtone: metrics.Cold, Intensity: 0.422, Value: 0.195, Contrast: 0.2},
	}
}
