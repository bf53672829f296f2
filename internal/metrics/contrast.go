package metrics

import (
	"errors"
	"fmt"
)

// ErrUnknownContrastMode is returned for an unrecognised contrast mode.
var ErrUnknownContrastMode = errors.New("unknown contrast mode")

// ContrastMode selects which region pair the contrast metric compares.
type ContrastMode string

const (
	// ContrastHairEyes compares hair against eyes.
	ContrastHairEyes ContrastMode = "hair-eyes"

	// ContrastHairSkin compares hair against skin.
	ContrastHairSkin ContrastMode = "hair-skin"
)

// DefaultContrastMode is used when no mode is configured.
const DefaultContrastMode = ContrastHairEyes

// ValidContrastModes returns the supported modes.
func ValidContrastModes() []ContrastMode {
	return []ContrastMode{ContrastHairEyes, ContrastHairSkin}
}

// ParseContrastMode converts a name into a ContrastMode.
func ParseContrastMode(name string) (ContrastMode, error) {
	for _, m := range ValidContrastModes() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s (valid modes: %v)", ErrUnknownContrastMode, name, ValidContrastModes())
}

func (m ContrastMode) String() string {
	return string(m)
}

// Set implements pflag.Value.
func (m *ContrastMode) Set(name string) error {
	parsed, err := ParseContrastMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *ContrastMode) Type() string {
	return "contrast-mode"
}
