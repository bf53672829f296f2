package metrics

import (
	"fmt"
	"math"
)

// Thresholds split each continuous metric into two descriptive bands.
type Thresholds struct {
	Intensity float64 `toml:"intensity" json:"intensity"`
	Value     float64 `toml:"value" json:"value"`
	Contrast  float64 `toml:"contrast" json:"contrast"`
}

// DefaultThresholds returns the tuned thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Intensity: 0.200,
		Value:     0.422,
		Contrast:  0.390,
	}
}

// Validate validates the thresholds.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"intensity": t.Intensity,
		"value":     t.Value,
		"contrast":  t.Contrast,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%s threshold must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// Profile is a human-readable description of a vector.
type Profile struct {
	Subtone   Subtone `json:"subtone"`
	Intensity string  `json:"intensity"`
	Value     string  `json:"value"`
	Contrast  string  `json:"contrast"`
}

func (p Profile) String() string {
	return fmt.Sprintf("%s subtone, %s intensity, %s value, %s contrast",
		p.Subtone, p.Intensity, p.Value, p.Contrast)
}

// Describe labels each metric against the thresholds. Values at a threshold
// fall in the upper band.
func Describe(v Vector, t Thresholds) Profile {
	return Profile{
		Subtone:   v.Subtone,
		Intensity: band(v.Intensity, t.Intensity, "high", "low"),
		Value:     band(v.Value, t.Value, "light", "dark"),
		Contrast:  band(v.Contrast, t.Contrast, "high", "low"),
	}
}

func band(v, threshold float64, upper, lower string) string {
	if v >= threshold {
		return upper
	}
	return lower
}
