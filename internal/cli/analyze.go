package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/seasonal/internal/analysis"
	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/image"
	"github.com/jmylchreest/seasonal/internal/metrics"
	"github.com/jmylchreest/seasonal/internal/sampler"
	"github.com/jmylchreest/seasonal/internal/segment"
)

var (
	_ pflag.Value = (*colour.Metric)(nil)
	_ pflag.Value = (*metrics.ContrastMode)(nil)
)

type analyzeOptions struct {
	masks         string
	plugin        string
	maxSide       int
	metric        colour.Metric
	contrast      metrics.ContrastMode
	cacheDir      string
	allowInsecure bool
	rank          bool
}

// analyzed is the outcome for one input image.
type analyzed struct {
	Source string `json:"source"`
	*analysis.Report
	Error string `json:"error,omitempty"`
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{
		metric:   colour.MetricRMSE,
		contrast: metrics.DefaultContrastMode,
	}

	cmd := &cobra.Command{
		Use:   "analyze <image|dir|url>",
		Short: "Classify a portrait into a seasonal palette",
		Long: `Analyse a portrait and classify it into one of the four seasonal palettes.

The image is reduced to at most --max-side pixels, the dominant colour of each
region (skin, hair, lips, eyes) is sampled, and the resulting metrics vector is
matched to the nearest season.

Region masks are read from a directory holding skin.png, hair.png, lips.png and
eyes.png (--masks), or produced by a segmenter plugin (--plugin). When the
input is a directory of images, --masks must hold one sub-directory per image,
named after the image file without its extension.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Classify with precomputed masks
  seasonal analyze --masks ./masks portrait.jpg

  # Classify every image in a directory with a segmenter plugin
  seasonal analyze --plugin ./seasonal-segmenter ./portraits

  # Full report as JSON, including the distance to every season
  seasonal analyze --masks ./masks --rank -f json portrait.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.masks, "masks", "", "directory of <region>.png masks")
	cmd.Flags().StringVar(&opts.plugin, "plugin", "", "segmenter plugin binary")
	cmd.Flags().IntVar(&opts.maxSide, "max-side", analysis.DefaultMaxSide, "longest image side analysed (0 disables resizing)")
	cmd.Flags().Var(&opts.metric, "metric", "candidate consolidation metric (euclidean, rmse, weighted-rmse, cie76)")
	cmd.Flags().Var(&opts.contrast, "contrast", "contrast regions (hair-eyes, hair-skin)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache downloaded images in this directory")
	cmd.Flags().BoolVar(&opts.allowInsecure, "allow-insecure", false, "allow plain http image URLs")
	cmd.Flags().BoolVar(&opts.rank, "rank", false, "show the distance to every season")
	cmd.MarkFlagsMutuallyExclusive("masks", "plugin")
	cmd.MarkFlagsOneRequired("masks", "plugin")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, opts *analyzeOptions, src string) error {
	ctx := cmd.Context()

	cfg, err := a.cfg.AnalysisConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cmd.Flags().Changed("max-side") {
		cfg.MaxSide = opts.maxSide
	}
	if cmd.Flags().Changed("metric") {
		cfg.Sampler.Metric = opts.metric
	}
	if cmd.Flags().Changed("contrast") {
		cfg.Contrast = opts.contrast
	}

	cat, err := a.palettes()
	if err != nil {
		return err
	}

	paths, err := image.ResolveImagePaths(src)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", src)
	}

	var seg analysis.Segmenter
	if opts.plugin != "" {
		p := segment.NewPlugin(opts.plugin, a.logger)
		defer p.Close()
		seg = p
	}

	pipeline, err := analysis.New(cat, seg, cfg, a.logger)
	if err != nil {
		return err
	}

	loader := &image.Loader{CacheDir: opts.cacheDir, AllowInsecure: opts.allowInsecure}
	results := make([]analyzed, 0, len(paths))
	failed := 0
	for _, path := range paths {
		maskDir := opts.masks
		if maskDir != "" && len(paths) > 1 {
			maskDir = filepath.Join(opts.masks, stem(path))
		}

		report, err := analyzeOne(ctx, pipeline, loader, path, maskDir)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if len(paths) == 1 {
				return err
			}
			a.logger.Error("analysis failed", "image", path, "error", err)
			results = append(results, analyzed{Source: path, Error: err.Error()})
			failed++
			continue
		}
		a.logger.Info("analysed image", "image", path, "season", report.Result.Season)
		results = append(results, analyzed{Source: path, Report: report})
	}

	out := cmd.OutOrStdout()
	if a.format == formatJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		writeAnalyses(out, results, opts.rank, previewEnabled(out))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(paths))
	}
	return nil
}

func analyzeOne(ctx context.Context, p *analysis.Pipeline, loader *image.Loader, path, maskDir string) (*analysis.Report, error) {
	img, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	if maskDir == "" {
		return p.AnalyzeImage(ctx, img)
	}

	masks, err := segment.NewMaskDir(maskDir).Segment(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("failed to read masks: %w", err)
	}
	return p.AnalyzeReport(ctx, img, masks)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeAnalyses(w io.Writer, results []analyzed, rank, preview bool) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.Report == nil {
			fmt.Fprintf(w, "%s: error: %s\n", r.Source, r.Error)
			continue
		}

		res := r.Result
		fmt.Fprintf(w, "%s: %s (distance %.4f)\n", r.Source, res.Season.Title(), res.Distance)
		fmt.Fprintf(w, "  %-12s %s\n", "vector", res.Vector)
		fmt.Fprintf(w, "  %-12s %s\n", "profile", res.Profile)
		for _, region := range sampler.Regions() {
			c, ok := r.Colours[region]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s\n", colour.Labelled(c, string(region), preview))
		}

		if rank {
			table := NewTable([]string{"Season", "Distance"}).SetAlign(1, AlignRight)
			for _, rk := range r.Ranking {
				table.AddRow([]string{rk.Season.Title(), fmt.Sprintf("%.4f", rk.Distance)})
			}
			fmt.Fprint(w, indent(table.Render(), "  "))
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}
