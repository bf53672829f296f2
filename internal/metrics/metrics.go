// Package metrics derives the four scalar metrics used for season
// classification from the representative colours of the face regions.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/sampler"
)

// ErrMissingRegion is returned when a region needed by a metric has no colour.
var ErrMissingRegion = errors.New("missing region colour")

// ErrInvalidVector is returned when a vector has components outside [0,1]
// or a subtone other than 0 or 1.
var ErrInvalidVector = errors.New("invalid metrics vector")

// Subtone decision line in CIELAB: a colour is warm when
// b* - a*·SubtoneSlope >= SubtoneOffset.
const (
	SubtoneSlope  = 1.0
	SubtoneOffset = 0.0
)

// MaxChroma is the largest CIELCh chroma reachable from sRGB on go-colorful's
// scale (pure blue). Chroma is divided by it to land in [0,1].
const MaxChroma = 1.34

// Lightness weights used by Value.
const (
	valueWeightSkin = 0.5
	valueWeightHair = 0.3
	valueWeightEyes = 0.2
)

// Subtone is the warm or cold undertone of a colour.
type Subtone string

const (
	Warm Subtone = "warm"
	Cold Subtone = "cold"
)

// Encode returns 1 for warm and 0 for cold.
func (s Subtone) Encode() float64 {
	if s == Warm {
		return 1
	}
	return 0
}

// ParseSubtone parses "warm" or "cold". The encoded forms "1" and "0" are
// accepted too.
func ParseSubtone(s string) (Subtone, error) {
	switch s {
	case string(Warm), "1":
		return Warm, nil
	case string(Cold), "0":
		return Cold, nil
	default:
		return "", fmt.Errorf("invalid subtone %q (valid: warm, cold)", s)
	}
}

// Vector is the four-component feature vector describing a person or a
// seasonal palette.
type Vector struct {
	Subtone   Subtone `json:"subtone"`
	Intensity float64 `json:"intensity"`
	Value     float64 `json:"value"`
	Contrast  float64 `json:"contrast"`
}

// Array returns the vector as numbers, subtone encoded as 0 or 1.
func (v Vector) Array() [4]float64 {
	return [4]float64{v.Subtone.Encode(), v.Intensity, v.Value, v.Contrast}
}

func (v Vector) String() string {
	return fmt.Sprintf("(%s, %.3f, %.3f, %.3f)", v.Subtone, v.Intensity, v.Value, v.Contrast)
}

// FromArray builds a vector from its numeric form.
func FromArray(a [4]float64) (Vector, error) {
	var v Vector
	switch a[0] {
	case 1:
		v.Subtone = Warm
	case 0:
		v.Subtone = Cold
	default:
		return Vector{}, fmt.Errorf("%w: subtone must be 0 or 1, got %v", ErrInvalidVector, a[0])
	}

	for i, x := range a[1:] {
		if math.IsNaN(x) || x < 0 || x > 1 {
			return Vector{}, fmt.Errorf("%w: component %d out of [0,1]: %v", ErrInvalidVector, i+1, x)
		}
	}
	v.Intensity, v.Value, v.Contrast = a[1], a[2], a[3]
	return v, nil
}

// Validate checks the vector invariants.
func (v Vector) Validate() error {
	if v.Subtone != Warm && v.Subtone != Cold {
		return fmt.Errorf("%w: subtone %q", ErrInvalidVector, v.Subtone)
	}
	_, err := FromArray(v.Array())
	return err
}

// SubtoneOf classifies the undertone of a colour from its position in CIELAB.
func SubtoneOf(c colour.RGB) Subtone {
	_, a, b := colour.Lab(c)
	if b-a*SubtoneSlope >= SubtoneOffset {
		return Warm
	}
	return Cold
}

// Intensity is the normalised chroma of the skin colour.
func Intensity(skin colour.RGB) float64 {
	return normalisedChroma(skin)
}

// Value is the weighted lightness of skin, hair and eyes.
func Value(skin, hair, eyes colour.RGB) float64 {
	ls, _, _ := colour.Lab(skin)
	lh, _, _ := colour.Lab(hair)
	le, _, _ := colour.Lab(eyes)
	return colour.Clamp01(valueWeightSkin*ls + valueWeightHair*lh + valueWeightEyes*le)
}

// Contrast measures how far apart two colours are in lightness and chroma.
func Contrast(a, b colour.RGB) float64 {
	la, _, _ := colour.Lab(a)
	lb, _, _ := colour.Lab(b)
	dl := la - lb
	dc := normalisedChroma(a) - normalisedChroma(b)
	return colour.Clamp01(math.Sqrt(dl*dl + dc*dc))
}

func normalisedChroma(c colour.RGB) float64 {
	return colour.Clamp01(colour.Chroma(c) / MaxChroma)
}

// Compute builds the metrics vector from the representative region colours.
// Lips are sampled but not consumed by any metric.
func Compute(colours map[sampler.Region]colour.RGB, mode ContrastMode) (Vector, error) {
	get := func(r sampler.Region) (colour.RGB, error) {
		c, ok := colours[r]
		if !ok {
			return colour.RGB{}, fmt.Errorf("%w: %s", ErrMissingRegion, r)
		}
		return c, nil
	}

	skin, err := get(sampler.RegionSkin)
	if err != nil {
		return Vector{}, err
	}
	hair, err := get(sampler.RegionHair)
	if err != nil {
		return Vector{}, err
	}
	eyes, err := get(sampler.RegionEyes)
	if err != nil {
		return Vector{}, err
	}

	var contrast float64
	switch mode {
	case ContrastHairSkin:
		contrast = Contrast(hair, skin)
	case ContrastHairEyes, "":
		contrast = Contrast(hair, eyes)
	default:
		return Vector{}, fmt.Errorf("%w: %s", ErrUnknownContrastMode, mode)
	}

	return Vector{
		Subtone:   SubtoneOf(skin),
		Intensity: Intensity(skin),
		Value:     Value(skin, hair, eyes),
		Contrast:  contrast,
	}, nil
}
