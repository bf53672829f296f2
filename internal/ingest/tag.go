package ingest

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/match"
)

// Mode selects how rows are tagged.
type Mode string

const (
	// ModeNearest tags each row with its single closest reference colour.
	ModeNearest Mode = "nearest"
	// ModeRadius tags each row with every reference within the cutoff.
	ModeRadius Mode = "radius"
)

// ParseMode validates a tagging mode name.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeNearest, ModeRadius:
		return Mode(name), nil
	default:
		return "", fmt.Errorf("unknown tagging mode %q (want %s or %s)", name, ModeNearest, ModeRadius)
	}
}

// Tagged is a row with the reference colours it matched.
type Tagged struct {
	Row
	Matches []match.Result `json:"matches"`
	Error   string         `json:"error,omitempty"`
}

// Tagger matches ingested rows against reference colours.
type Tagger struct {
	Refs    []match.Reference
	Mode    Mode
	Cutoff  float64
	Workers int
	Logger  hclog.Logger
}

// Tag matches every parseable row. Rows that failed to parse, or whose match
// failed, are returned with Error set; they never abort the batch. Only
// cancellation of ctx does.
func (t *Tagger) Tag(ctx context.Context, rows []Row) ([]Tagged, error) {
	logger := t.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("ingest")

	out := make([]Tagged, len(rows))
	queries := make([]colour.RGB, 0, len(rows))
	positions := make([]int, 0, len(rows))
	for i, row := range rows {
		out[i] = Tagged{Row: row, Matches: []match.Result{}}
		if row.Err != nil {
			out[i].Error = row.Err.Error()
			logger.Warn("skipping row", "source", row.Source, "line", row.Line, "error", row.Err)
			continue
		}
		queries = append(queries, row.Color)
		positions = append(positions, i)
	}

	var (
		results []match.BatchResult
		err     error
	)
	switch t.Mode {
	case ModeNearest, "":
		results, err = match.NearestAll(ctx, queries, t.Refs, t.Workers)
	case ModeRadius:
		results, err = match.WithinRadiusAll(ctx, queries, t.Refs, t.Cutoff, t.Workers)
	default:
		return nil, fmt.Errorf("unknown tagging mode %q", t.Mode)
	}
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		tagged := &out[positions[res.Index]]
		if res.Err != nil {
			tagged.Error = res.Err.Error()
			continue
		}
		tagged.Matches = res.Results
	}

	logger.Debug("tagged rows", "rows", len(rows), "matched", len(queries), "mode", t.Mode)
	return out, nil
}
