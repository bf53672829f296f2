// Package cli provides the command-line interface for seasonal.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/seasonal/internal/config"
	"github.com/jmylchreest/seasonal/internal/logging"
	"github.com/jmylchreest/seasonal/internal/palette"
	"github.com/jmylchreest/seasonal/internal/version"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	logJSON    bool
	format     string

	cfg    *config.Config
	logger hclog.Logger
}

// setup loads configuration and builds the logger. It runs before every
// command except version, which only needs the output format.
func (a *app) setup(cmd *cobra.Command) error {
	if a.format != formatText && a.format != formatJSON {
		return fmt.Errorf("invalid format: %s (valid: %s, %s)", a.format, formatText, formatJSON)
	}
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logJSON {
		cfg.Log.JSON = true
	}

	logger, err := logging.New(logging.Options{
		Level:  logging.LevelFor(cfg.Log.Level, a.verbose, a.quiet),
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// palettes loads the configured palette catalog.
func (a *app) palettes() (*palette.Catalog, error) {
	cat, err := a.cfg.LoadPalettes(a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load palettes: %w", err)
	}
	return cat, nil
}

// NewRootCmd builds the seasonal command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Seasonal colour analysis and catalog colour matching",
		Long: `Seasonal classifies a portrait into one of four seasonal colour palettes
(autumn, spring, summer, winter) from the dominant colours of its skin, hair,
lips and eyes, and matches catalog item colours against reference colours.

Segmentation masks come from a directory of <region>.png files or from a
segmenter plugin binary.`,
		Version:      version.GetInfo().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: $SEASONAL_CONFIG or ./seasonal.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")
	flags.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")
	flags.StringVarP(&a.format, "format", "f", formatText, "output format (text, json)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newClassifyCmd(a),
		newMatchCmd(a),
		newPalettesCmd(a),
		newIngestCmd(a),
		newFilterCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Execute runs the root command with the process arguments. An interrupt
// cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), version.GetInfo())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
