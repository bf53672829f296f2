// Package logging builds the hclog loggers used across seasonal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "seasonal"

// Options configures a logger.
type Options struct {
	// Level is an hclog level name: trace, debug, info, warn, error or off.
	Level string
	// JSON switches to JSON formatted output.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// ParseLevel maps a level name to an hclog level. An empty name is info.
func ParseLevel(name string) (hclog.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return hclog.Info, nil
	}
	level := hclog.LevelFromString(name)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New creates the root logger.
func New(opts Options) (hclog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	}), nil
}

// LevelFor resolves the effective level from the verbose and quiet CLI flags.
// Quiet wins over verbose; neither keeps the configured level.
func LevelFor(configured string, verbose, quiet bool) string {
	switch {
	case quiet:
		return "error"
	case verbose:
		return "debug"
	default:
		return configured
	}
}
