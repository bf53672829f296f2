// Package catalog loads the reference colours catalog items are matched
// against, from colour files or the catalog database.
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/compression"
	"github.com/jmylchreest/seasonal/internal/match"
)

// Source provides matchable reference colours.
type Source interface {
	References(ctx context.Context) ([]match.Reference, error)
}

// RecordError describes a reference record that could not be parsed.
type RecordError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %q: %v", e.Source, e.Line, e.Text, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ReadFile reads reference colours from path, decompressing .gz, .xz and
// .bz2 files transparently.
func ReadFile(path string, logger hclog.Logger) ([]match.Reference, error) {
	rc, err := compression.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Read(rc, path, logger)
}

// Read parses reference colours, one per line, in any of these forms:
//
//	id;[R G B]
//	[R G B]
//	R;G;B
//
// Lines without an id use the colour code as id. Blank lines and # comments
// are ignored; unparsable lines are logged and skipped.
func Read(r io.Reader, name string, logger hclog.Logger) ([]match.Reference, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("catalog")

	refs := make([]match.Reference, 0)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		ref, err := parseRecord(text)
		if err != nil {
			logger.Warn("skipping reference record", "error", &RecordError{Source: name, Line: line, Text: text, Err: err})
			continue
		}
		refs = append(refs, ref)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	logger.Debug("loaded reference colours", "source", name, "count", len(refs))
	return refs, nil
}

func parseRecord(text string) (match.Reference, error) {
	switch strings.Count(text, ";") {
	case 0:
		c, err := colour.ParseRGB(text)
		if err != nil {
			return match.Reference{}, err
		}
		return match.Reference{ID: c.String(), Color: c}, nil
	case 1:
		id, code, _ := strings.Cut(text, ";")
		id = strings.TrimSpace(id)
		if id == "" {
			return match.Reference{}, fmt.Errorf("empty id")
		}
		c, err := colour.ParseRGB(code)
		if err != nil {
			return match.Reference{}, err
		}
		return match.Reference{ID: id, Color: c}, nil
	default:
		c, err := colour.ParseDelimited(text, ";")
		if err != nil {
			return match.Reference{}, err
		}
		return match.Reference{ID: c.String(), Color: c}, nil
	}
}

// File is a Source backed by a reference colour file.
type File struct {
	Path   string
	Logger hclog.Logger
}

// References reads the file.
func (f File) References(ctx context.Context) ([]match.Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(f.Path, f.Logger)
}
