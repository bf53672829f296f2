// Package palette loads the four seasonal reference palettes.
package palette

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/metrics"
)

// ErrEmptyCatalog is returned when no seasonal palette could be loaded.
var ErrEmptyCatalog = errors.New("empty palette catalog")

//go:embed palettes/*.csv
var embedded embed.FS

// MalformedRecordError describes a swatch line that could not be parsed.
type MalformedRecordError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: malformed record %q: %v", e.File, e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Reference is the palette of one season: its canonical vector and swatches.
type Reference struct {
	Season   Season         `json:"season"`
	Vector   metrics.Vector `json:"vector"`
	Swatches []colour.RGB   `json:"swatches"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Vectors overrides the canonical vector of individual seasons.
	Vectors map[Season]metrics.Vector

	// Logger receives a warning for every skipped record or missing file.
	Logger hclog.Logger
}

// Catalog holds the loaded seasonal palettes. It is immutable once loaded.
type Catalog struct {
	refs     []Reference
	warnings []error
}

// Default loads the palettes bundled with the binary.
func Default(logger hclog.Logger) (*Catalog, error) {
	return DefaultWith(LoadOptions{Logger: logger})
}

// DefaultWith loads the bundled palettes with custom options.
func DefaultWith(opts LoadOptions) (*Catalog, error) {
	sub, err := fs.Sub(embedded, "palettes")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded palettes: %w", err)
	}
	return Load(sub, opts)
}

// Load reads one swatch file per season from fsys. Each line holds one
// R;G;B record; blank lines, # comments and lines without a semicolon are
// ignored. Malformed records and missing files are logged and collected as
// warnings without aborting the load.
func Load(fsys fs.FS, opts LoadOptions) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("palette")

	vectors := DefaultVectors()
	for s, v := range opts.Vectors {
		if s.index() < 0 {
			return nil, fmt.Errorf("vector override for unknown season %q", s)
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("vector override for %s: %w", s, err)
		}
		vectors[s] = v
	}

	cat := &Catalog{}
	for _, season := range Seasons() {
		swatches, warnings, err := readSwatches(fsys, season.File())
		if err != nil {
			logger.Warn("palette file not loaded", "season", season, "file", season.File(), "error", err)
			cat.warnings = append(cat.warnings, fmt.Errorf("season %s: %w", season, err))
			continue
		}

		for _, w := range warnings {
			logger.Warn("skipping swatch record", "season", season, "error", w)
		}
		cat.warnings = append(cat.warnings, warnings...)

		cat.refs = append(cat.refs, Reference{
			Season:   season,
			Vector:   vectors[season],
			Swatches: swatches,
		})
		logger.Debug("loaded palette", "season", season, "swatches", len(swatches))
	}

	if len(cat.refs) == 0 {
		return nil, ErrEmptyCatalog
	}
	return cat, nil
}

func readSwatches(fsys fs.FS, name string) ([]colour.RGB, []error, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var (
		swatches []colour.RGB
		warnings []error
		seen     = make(map[colour.RGB]bool)
		lineNo   int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, ";") {
			continue
		}

		rgb, err := colour.ParseDelimited(line, ";")
		if err != nil {
			warnings = append(warnings, &MalformedRecordError{
				File: path.Base(name),
				Line: lineNo,
				Text: line,
				Err:  err,
			})
			continue
		}

		if seen[rgb] {
			continue
		}
		seen[rgb] = true
		swatches = append(swatches, rgb)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return swatches, warnings, nil
}

// All returns every loaded palette in canonical season order.
func (c *Catalog) All() []Reference {
	out := make([]Reference, len(c.refs))
	for i, r := range c.refs {
		r.Swatches = append([]colour.RGB(nil), r.Swatches...)
		out[i] = r
	}
	return out
}

// Get returns the palette of one season.
func (c *Catalog) Get(s Season) (Reference, bool) {
	for _, r := range c.refs {
		if r.Season == s {
			r.Swatches = append([]colour.RGB(nil), r.Swatches...)
			return r, true
		}
	}
	return Reference{}, false
}

// Len returns the number of loaded palettes.
func (c *Catalog) Len() int {
	return len(c.refs)
}

// Warnings returns the problems encountered while loading.
func (c *Catalog) Warnings() []error {
	return append([]error(nil), c.warnings...)
}
