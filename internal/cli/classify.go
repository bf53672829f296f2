package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/seasonal/internal/classify"
	"github.com/jmylchreest/seasonal/internal/metrics"
)

type classified struct {
	classify.Result
	Ranking []classify.Ranked `json:"ranking"`
}

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <subtone> <intensity> <value> <contrast>",
		Short: "Classify a metrics vector",
		Long: `Classify a precomputed metrics vector into the nearest seasonal palette.

Subtone is warm or cold (or 1 and 0); intensity, value and contrast are
numbers in [0,1].

Examples:
  seasonal classify warm 0.25 0.5 0.1
  seasonal classify cold 0.2 0.45 0.1 -f json`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVector(args)
			if err != nil {
				return err
			}

			analysisCfg, err := a.cfg.AnalysisConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cat, err := a.palettes()
			if err != nil {
				return err
			}
			c, err := classify.New(cat, classify.WithThresholds(analysisCfg.Thresholds))
			if err != nil {
				return err
			}

			out := classified{Result: c.Classify(v), Ranking: c.Rank(v)}
			if a.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			writeClassified(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func parseVector(args []string) (metrics.Vector, error) {
	subtone, err := metrics.ParseSubtone(args[0])
	if err != nil {
		return metrics.Vector{}, err
	}

	var nums [3]float64
	for i, arg := range args[1:] {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return metrics.Vector{}, fmt.Errorf("invalid number %q: %w", arg, err)
		}
		nums[i] = f
	}

	v := metrics.Vector{Subtone: subtone, Intensity: nums[0], Value: nums[1], Contrast: nums[2]}
	if err := v.Validate(); err != nil {
		return metrics.Vector{}, err
	}
	return v, nil
}

func writeClassified(w io.Writer, c classified) {
	fmt.Fprintf(w, "%s (distance %.4f)\n", c.Season.Title(), c.Distance)
	fmt.Fprintf(w, "  %-12s %s\n", "vector", c.Vector)
	fmt.Fprintf(w, "  %-12s %s\n\n", "profile", c.Profile)

	table := NewTable([]string{"Season", "Distance"}).SetAlign(1, AlignRight)
	for _, r := range c.Ranking {
		table.AddRow([]string{r.Season.Title(), fmt.Sprintf("%.4f", r.Distance)})
	}
	fmt.Fprint(w, table.Render())
}
