package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/seasonal/internal/ingest"
	"github.com/jmylchreest/seasonal/internal/match"
)

type ingestOptions struct {
	refs     refOptions
	mode     string
	cutoff   float64
	workers  int
	noDedupe bool
	summary  bool
	output   string
}

func newIngestCmd(a *app) *cobra.Command {
	opts := &ingestOptions{mode: string(ingest.ModeNearest)}

	cmd := &cobra.Command{
		Use:   "ingest <csv>...",
		Short: "Tag scraped catalog rows with matching reference colours",
		Long: `Read scraped catalog listings and tag every row with the reference colours
it matches.

Each CSV needs the columns Item, Cost, Item Url and RGB; Product Url is
optional. Files may be gzip, xz or bzip2 compressed. Duplicate rows (same item
and item URL) are dropped unless --no-dedupe is given. Rows whose cost or RGB
cannot be parsed are kept with an error and are not matched.

Each row is tagged with its nearest reference colour. With --mode radius it is
tagged with every reference within --cutoff instead.

Tagged rows are written as CSV, or as JSON with -f json. With --summary a
histogram of distinct colours per product is printed instead.

Examples:
  # Tag listings with their nearest swatch
  seasonal ingest listings.csv > tagged.csv

  # Nearest catalog colour for each row, as JSON
  seasonal ingest --db -f json listings.csv.xz

  # Every catalog colour within 30 of each row
  seasonal ingest --db --mode radius --cutoff 30 listings.csv

  # How many colours do products come in?
  seasonal ingest --summary listings-*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, a, opts, args)
		},
	}

	opts.refs.register(cmd)
	cmd.Flags().StringVar(&opts.mode, "mode", opts.mode, "tagging mode (nearest, radius)")
	cmd.Flags().Float64Var(&opts.cutoff, "cutoff", match.DefaultCutoff, "largest distance counted as a match in radius mode")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent matches (default: config or number of CPUs)")
	cmd.Flags().BoolVar(&opts.noDedupe, "no-dedupe", false, "keep duplicate rows")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a colours-per-product summary instead of rows")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func runIngest(cmd *cobra.Command, a *app, opts *ingestOptions, paths []string) (err error) {
	ctx := cmd.Context()

	mode, err := ingest.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	rows, err := ingest.ReadFiles(paths...)
	if err != nil {
		return err
	}
	if !opts.noDedupe {
		var removed int
		rows, removed = ingest.Dedupe(rows)
		if removed > 0 {
			a.logger.Info("dropped duplicate rows", "count", removed)
		}
	}
	a.logger.Debug("read catalog rows", "files", len(paths), "rows", len(rows))

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}

	if opts.summary {
		s := ingest.Summarize(rows)
		if a.format == formatJSON {
			return writeJSON(out, s)
		}
		return ingest.WriteSummary(out, s)
	}

	refs, err := a.references(ctx, &opts.refs)
	if err != nil {
		return err
	}

	tagger := &ingest.Tagger{
		Refs:    refs,
		Mode:    mode,
		Cutoff:  a.cfg.Cutoff(),
		Workers: a.cfg.Match.Workers,
		Logger:  a.logger,
	}
	if cmd.Flags().Changed("cutoff") {
		tagger.Cutoff = opts.cutoff
	}
	if cmd.Flags().Changed("workers") {
		tagger.Workers = opts.workers
	}

	tagged, err := tagger.Tag(ctx, rows)
	if err != nil {
		return err
	}

	failed := 0
	for _, t := range tagged {
		if t.Error != "" {
			failed++
		}
	}
	a.logger.Info("tagged catalog rows", "rows", len(tagged), "errors", failed, "references", len(refs))

	if a.format == formatJSON {
		return ingest.WriteJSON(out, tagged)
	}
	return ingest.WriteCSV(out, tagged)
}
