package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/seasonal/internal/ingest"
	"github.com/jmylchreest/seasonal/internal/match"
	"github.com/jmylchreest/seasonal/internal/palette"
)

type filterOptions struct {
	colour  string
	season  string
	cutoff  float64
	workers int
}

func newFilterCmd(a *app) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter (--colour <colour> | --season <season>) <csv>...",
		Short: "List catalog products available in a colour or season",
		Long: `List the products of scraped catalog listings that come in a colour close
to a query colour, or to any swatch of a seasonal palette.

Listings are read as for ingest and grouped into products by Product Url
(Item Url when missing). A product is kept when any of its colours is within
--cutoff of the query.

Examples:
  # Products in an olive green
  seasonal filter --colour "[59 68 52]" listings.csv

  # Products that suit an autumn palette, as JSON
  seasonal filter --season autumn -f json listings-*.csv.xz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.colour, "colour", "", `query colour ("[R G B]", "R;G;B" or "#rrggbb")`)
	cmd.Flags().StringVar(&opts.season, "season", "", "keep products matching any swatch of this season")
	cmd.Flags().Float64Var(&opts.cutoff, "cutoff", match.DefaultCutoff, "largest distance counted as a match")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent matches (default: config or number of CPUs)")
	cmd.MarkFlagsMutuallyExclusive("colour", "season")
	cmd.MarkFlagsOneRequired("colour", "season")

	return cmd
}

func runFilter(cmd *cobra.Command, a *app, opts *filterOptions, paths []string) error {
	ctx := cmd.Context()

	cutoff := a.cfg.Cutoff()
	if cmd.Flags().Changed("cutoff") {
		cutoff = opts.cutoff
	}
	workers := a.cfg.Match.Workers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}

	rows, err := ingest.ReadFiles(paths...)
	if err != nil {
		return err
	}
	items := ingest.Items(rows)
	a.logger.Debug("grouped catalog rows", "rows", len(rows), "products", len(items))

	var kept []match.Item
	if opts.colour != "" {
		c, err := parseColour(opts.colour)
		if err != nil {
			return err
		}
		kept, err = match.FilterItems(ctx, c, items, cutoff, workers)
		if err != nil {
			return err
		}
	} else {
		s, err := palette.ParseSeason(opts.season)
		if err != nil {
			return err
		}
		cat, err := a.palettes()
		if err != nil {
			return err
		}
		ref, ok := cat.Get(s)
		if !ok {
			return fmt.Errorf("no palette loaded for %s", s)
		}
		kept, err = match.FilterBySeason(ctx, ref, items, cutoff, workers)
		if err != nil {
			return err
		}
	}
	a.logger.Info("filtered catalog products", "products", len(items), "kept", len(kept))

	if a.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), kept)
	}
	writeItems(cmd.OutOrStdout(), kept)
	return nil
}

func writeItems(w io.Writer, items []match.Item) {
	table := NewTable([]string{"Item", "Price", "Colours", "URL"}).SetAlign(1, AlignRight)
	for _, item := range items {
		colours := make([]string, len(item.Colors))
		for i, c := range item.Colors {
			colours[i] = c.String()
		}
		table.AddRow([]string{item.Name, item.Price, strings.Join(colours, " "), item.URL})
	}
	fmt.Fprint(w, table.Render())
}
