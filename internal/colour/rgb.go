// Package colour provides the colour primitives shared by the sampler, the
// metrics computer and the catalog matcher.
package colour

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColorCode is returned when a textual colour cannot be parsed.
var ErrInvalidColorCode = errors.New("invalid colour code")

// RGB represents a colour with three 8-bit channels.
// It is a comparable value type; equality and distance are defined, ordering is not.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// String returns the colour in the catalog's bracketed form, e.g. "[179 97 71]".
func (rgb RGB) String() string {
	return fmt.Sprintf("[%d %d %d]", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Color converts the value to a color.Color with full opacity.
func (rgb RGB) Color() color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// MarshalText encodes the colour as "[R G B]".
func (rgb RGB) MarshalText() ([]byte, error) {
	return []byte(rgb.String()), nil
}

// UnmarshalText decodes a colour from "[R G B]".
func (rgb *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*rgb = parsed
	return nil
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseRGB parses the bracketed, space separated form used by the catalog
// ("[179 97 71]"). The brackets are optional and runs of whitespace between
// channels are accepted; exactly three integer channels in 0..255 are required.
func ParseRGB(s string) (RGB, error) {
	inner := strings.TrimSpace(s)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")
	return parseChannels(s, strings.Fields(inner))
}

// ParseDelimited parses a colour whose channels are separated by sep,
// such as the "R;G;B" records of the palette files.
func ParseDelimited(s, sep string) (RGB, error) {
	parts := strings.Split(strings.TrimSpace(s), sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parseChannels(s, parts)
}

func parseChannels(raw string, parts []string) (RGB, error) {
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q: expected 3 channels, got %d", ErrInvalidColorCode, raw, len(parts))
	}

	var channels [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q: channel %d is not an integer", ErrInvalidColorCode, raw, i+1)
		}
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("%w: %q: channel %d out of range: %d", ErrInvalidColorCode, raw, i+1, v)
		}
		channels[i] = uint8(v)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}
