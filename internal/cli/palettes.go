package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/palette"
)

func newPalettesCmd(a *app) *cobra.Command {
	var swatches bool

	cmd := &cobra.Command{
		Use:   "palettes [season]",
		Short: "List the seasonal palettes",
		Long: `List the seasonal palettes with their canonical metrics vectors.

With a season argument, or --swatches, every swatch colour is listed as well.
Palettes are read from [palettes] dir in the config file when set, otherwise
the built-in palettes are used.

Examples:
  seasonal palettes
  seasonal palettes autumn
  seasonal palettes --swatches -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.palettes()
			if err != nil {
				return err
			}
			for _, w := range cat.Warnings() {
				a.logger.Debug("palette warning", "error", w)
			}

			refs := cat.All()
			if len(args) == 1 {
				s, err := palette.ParseSeason(args[0])
				if err != nil {
					return err
				}
				ref, ok := cat.Get(s)
				if !ok {
					return fmt.Errorf("no palette loaded for %s", s)
				}
				refs = []palette.Reference{ref}
				swatches = true
			}

			out := cmd.OutOrStdout()
			if a.format == formatJSON {
				if !swatches {
					for i := range refs {
						refs[i].Swatches = nil
					}
				}
				return writeJSON(out, refs)
			}
			writePalettes(out, refs, swatches, previewEnabled(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&swatches, "swatches", false, "list every swatch colour")
	return cmd
}

func writePalettes(w io.Writer, refs []palette.Reference, swatches, preview bool) {
	if !swatches {
		table := NewTable([]string{"Season", "Vector", "Swatches"}).SetAlign(2, AlignRight)
		for _, r := range refs {
			table.AddRow([]string{r.Season.Title(), r.Vector.String(), strconv.Itoa(len(r.Swatches))})
		}
		fmt.Fprint(w, table.Render())
		if preview {
			fmt.Fprintln(w)
			for _, r := range refs {
				fmt.Fprintf(w, "%-8s %s\n", r.Season.Title(), colour.Strip(r.Swatches))
			}
		}
		return
	}

	for i, r := range refs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s (%d swatches)\n", r.Season.Title(), r.Vector, len(r.Swatches))
		for j, c := range r.Swatches {
			fmt.Fprintf(w, "  %s\n", colour.Labelled(c, strconv.Itoa(j+1), preview))
		}
	}
}
