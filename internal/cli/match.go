package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/seasonal/internal/catalog"
	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/match"
	"github.com/jmylchreest/seasonal/internal/palette"
)

// refOptions selects where reference colours come from.
type refOptions struct {
	file    string
	db      bool
	seasons []string
}

func (o *refOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.file, "refs", "", "reference colour file (id;[R G B] per line, may be compressed)")
	cmd.Flags().BoolVar(&o.db, "db", false, "read reference colours from the catalog database")
	cmd.Flags().StringSliceVar(&o.seasons, "season", nil, "match against the swatches of these seasons (default: all)")
	cmd.MarkFlagsMutuallyExclusive("refs", "db", "season")
}

// references loads the selected reference colours. Without --refs or --db the
// seasonal palette swatches are used.
func (a *app) references(ctx context.Context, o *refOptions) ([]match.Reference, error) {
	switch {
	case o.file != "":
		return catalog.File{Path: o.file, Logger: a.logger}.References(ctx)
	case o.db:
		if a.cfg.Catalog.DSN == "" {
			return nil, errors.New("no catalog database configured (set [catalog] dsn or SEASONAL_CATALOG_DSN)")
		}
		pg, err := catalog.OpenPostgres(a.cfg.Catalog.DSN, a.cfg.Catalog.Table, a.logger)
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		return pg.References(ctx)
	}

	seasons := make([]palette.Season, 0, len(o.seasons))
	for _, name := range o.seasons {
		s, err := palette.ParseSeason(name)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}

	cat, err := a.palettes()
	if err != nil {
		return nil, err
	}
	return match.CatalogReferences(cat, seasons...), nil
}

type matchOptions struct {
	refs    refOptions
	cutoff  float64
	nearest bool
	workers int
}

func newMatchCmd(a *app) *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match <colour>...",
		Short: "Find reference colours close to a colour",
		Long: `Match colours against reference colours by Euclidean RGB distance.

Colours are written as "[R G B]", "R;G;B" or "#rrggbb". By default every
reference within --cutoff is listed; --nearest lists only the closest one.
References are the seasonal palette swatches unless --refs or --db is given.

Examples:
  # Swatches within the default cutoff of an olive green
  seasonal match "[59 68 52]"

  # Closest autumn swatch for several colours
  seasonal match --nearest --season autumn "#3b4434" "200;10;10"

  # Catalog colours within 30 of a colour
  seasonal match --db --cutoff 30 "[59 68 52]"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, a, opts, args)
		},
	}

	opts.refs.register(cmd)
	cmd.Flags().Float64Var(&opts.cutoff, "cutoff", match.DefaultCutoff, "largest distance counted as a match")
	cmd.Flags().BoolVar(&opts.nearest, "nearest", false, "only report the closest reference")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent matches (default: config or number of CPUs)")

	return cmd
}

func runMatch(cmd *cobra.Command, a *app, opts *matchOptions, args []string) error {
	ctx := cmd.Context()

	queries := make([]colour.RGB, len(args))
	for i, arg := range args {
		c, err := parseColour(arg)
		if err != nil {
			return err
		}
		queries[i] = c
	}

	refs, err := a.references(ctx, &opts.refs)
	if err != nil {
		return err
	}

	cutoff := a.cfg.Cutoff()
	if cmd.Flags().Changed("cutoff") {
		cutoff = opts.cutoff
	}
	workers := a.cfg.Match.Workers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}

	var results []match.BatchResult
	if opts.nearest {
		results, err = match.NearestAll(ctx, queries, refs, workers)
	} else {
		results, err = match.WithinRadiusAll(ctx, queries, refs, cutoff, workers)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("match %s: %w", r.Query, r.Err)
		}
	}

	if a.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	writeMatches(cmd.OutOrStdout(), results)
	return nil
}

// parseColour accepts "[R G B]", "R;G;B", "R,G,B" and "#rrggbb".
func parseColour(s string) (colour.RGB, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return colour.ParseHex(s)
	case strings.Contains(s, ";"):
		return colour.ParseDelimited(s, ";")
	case strings.Contains(s, ","):
		return colour.ParseDelimited(s, ",")
	default:
		return colour.ParseRGB(s)
	}
}

func writeMatches(w io.Writer, results []match.BatchResult) {
	table := NewTable([]string{"Query", "Match", "Colour", "Distance"}).SetAlign(3, AlignRight)
	for _, r := range results {
		if len(r.Results) == 0 {
			table.AddRow([]string{r.Query.String(), "-", "", ""})
			continue
		}
		for i, m := range r.Results {
			query := ""
			if i == 0 {
				query = r.Query.String()
			}
			table.AddRow([]string{query, m.ID, m.Color.String(), fmt.Sprintf("%.2f", m.Distance)})
		}
	}
	fmt.Fprint(w, table.Render())
}
