// Package config loads seasonal's configuration from an optional TOML file
// and SEASONAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/seasonal/internal/analysis"
	"github.com/jmylchreest/seasonal/internal/catalog"
	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/logging"
	"github.com/jmylchreest/seasonal/internal/match"
	"github.com/jmylchreest/seasonal/internal/metrics"
	"github.com/jmylchreest/seasonal/internal/palette"
	"github.com/jmylchreest/seasonal/internal/sampler"
)

const (
	BaseConfigFile = "seasonal.toml"

	EnvConfig       = "SEASONAL_CONFIG"
	EnvMaxSide      = "SEASONAL_MAX_SIDE"
	EnvCandidates   = "SEASONAL_CANDIDATES"
	EnvMetric       = "SEASONAL_METRIC"
	EnvContrast     = "SEASONAL_CONTRAST"
	EnvPalettesDir  = "SEASONAL_PALETTES_DIR"
	EnvMatchCutoff  = "SEASONAL_MATCH_CUTOFF"
	EnvMatchWorkers = "SEASONAL_MATCH_WORKERS"
	EnvCatalogDSN   = "SEASONAL_CATALOG_DSN"
	EnvCatalogTable = "SEASONAL_CATALOG_TABLE"
	EnvLogLevel     = "SEASONAL_LOG_LEVEL"
	EnvLogJSON      = "SEASONAL_LOG_JSON"
)

// Config is the root configuration.
type Config struct {
	Analysis   AnalysisConfig   `toml:"analysis"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Palettes   PalettesConfig   `toml:"palettes"`
	Match      MatchConfig      `toml:"match"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Log        LogConfig        `toml:"log"`
}

// AnalysisConfig controls image analysis.
type AnalysisConfig struct {
	MaxSide    int    `toml:"max_side"`
	Candidates int    `toml:"candidates"`
	Metric     string `toml:"metric"`
	Contrast   string `toml:"contrast"`
}

// ThresholdsConfig overrides the descriptive profile thresholds.
// Unset values keep their defaults.
type ThresholdsConfig struct {
	Intensity *float64 `toml:"intensity"`
	Value     *float64 `toml:"value"`
	Contrast  *float64 `toml:"contrast"`
}

// PalettesConfig locates the seasonal swatch files.
type PalettesConfig struct {
	// Dir holds <season>.csv files. Empty uses the bundled palettes.
	Dir string `toml:"dir"`
	// Vectors overrides canonical season vectors, e.g. autumn = [1, 0.5, 0.5, 0.25].
	Vectors map[string][]float64 `toml:"vectors"`
}

// MatchConfig controls catalog colour matching.
type MatchConfig struct {
	Cutoff  *float64 `toml:"cutoff"`
	Workers int      `toml:"workers"`
}

// CatalogConfig points at the catalog colour table.
type CatalogConfig struct {
	DSN   string `toml:"dsn"`
	Table string `toml:"table"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Load reads the config file at path, or SEASONAL_CONFIG, or seasonal.toml in
// the working directory when present, then applies environment overrides,
// defaults and validation. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path, explicit = BaseConfigFile, false
	}

	cfg := &Config{}
	loaded, err := load(path)
	switch {
	case err == nil:
		cfg = loaded
	case !explicit && errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file or environment is set.
func Default() *Config {
	cfg := &Config{}
	cfg.loadDefaults()
	return cfg
}

func (c *Config) finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *Config) loadDefaults() {
	if c.Analysis.MaxSide == 0 {
		c.Analysis.MaxSide = analysis.DefaultMaxSide
	}
	if c.Analysis.Candidates == 0 {
		c.Analysis.Candidates = sampler.DefaultCandidates
	}
	if c.Analysis.Metric == "" {
		c.Analysis.Metric = string(sampler.DefaultConfig().Metric)
	}
	if c.Analysis.Contrast == "" {
		c.Analysis.Contrast = string(metrics.DefaultContrastMode)
	}
	if c.Match.Cutoff == nil {
		cutoff := match.DefaultCutoff
		c.Match.Cutoff = &cutoff
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = catalog.DefaultTable
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvMaxSide); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxSide, err)
		}
		c.Analysis.MaxSide = n
	}
	if v := os.Getenv(EnvCandidates); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCandidates, err)
		}
		c.Analysis.Candidates = n
	}
	if v := os.Getenv(EnvMetric); v != "" {
		c.Analysis.Metric = v
	}
	if v := os.Getenv(EnvContrast); v != "" {
		c.Analysis.Contrast = v
	}
	if v := os.Getenv(EnvPalettesDir); v != "" {
		c.Palettes.Dir = v
	}
	if v := os.Getenv(EnvMatchCutoff); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMatchCutoff, err)
		}
		c.Match.Cutoff = &f
	}
	if v := os.Getenv(EnvMatchWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMatchWorkers, err)
		}
		c.Match.Workers = n
	}
	if v := os.Getenv(EnvCatalogDSN); v != "" {
		c.Catalog.DSN = v
	}
	if v := os.Getenv(EnvCatalogTable); v != "" {
		c.Catalog.Table = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogJSON, err)
		}
		c.Log.JSON = b
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := c.AnalysisConfig(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if _, err := c.VectorOverrides(); err != nil {
		return fmt.Errorf("palettes: %w", err)
	}
	if c.Match.Workers < 0 {
		return fmt.Errorf("match: workers must not be negative, got %d", c.Match.Workers)
	}
	if err := catalog.ValidateTable(c.Catalog.Table); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// AnalysisConfig builds the analysis pipeline configuration.
func (c *Config) AnalysisConfig() (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	cfg.MaxSide = c.Analysis.MaxSide

	metric, err := colour.ParseMetric(c.Analysis.Metric)
	if err != nil {
		return cfg, err
	}
	cfg.Sampler.Metric = metric
	for _, r := range sampler.Regions() {
		cfg.Sampler.Candidates[r] = c.Analysis.Candidates
	}

	mode, err := metrics.ParseContrastMode(c.Analysis.Contrast)
	if err != nil {
		return cfg, err
	}
	cfg.Contrast = mode

	if c.Thresholds.Intensity != nil {
		cfg.Thresholds.Intensity = *c.Thresholds.Intensity
	}
	if c.Thresholds.Value != nil {
		cfg.Thresholds.Value = *c.Thresholds.Value
	}
	if c.Thresholds.Contrast != nil {
		cfg.Thresholds.Contrast = *c.Thresholds.Contrast
	}

	return cfg, cfg.Validate()
}

// VectorOverrides converts the configured season vectors.
func (c *Config) VectorOverrides() (map[palette.Season]metrics.Vector, error) {
	out := make(map[palette.Season]metrics.Vector, len(c.Palettes.Vectors))
	for name, values := range c.Palettes.Vectors {
		season, err := palette.ParseSeason(name)
		if err != nil {
			return nil, err
		}
		if len(values) != 4 {
			return nil, fmt.Errorf("vector for %s must have 4 components, got %d", season, len(values))
		}
		v, err := metrics.FromArray([4]float64(values))
		if err != nil {
			return nil, fmt.Errorf("vector for %s: %w", season, err)
		}
		out[season] = v
	}
	return out, nil
}

// LoadPalettes loads the configured palette catalog.
func (c *Config) LoadPalettes(logger hclog.Logger) (*palette.Catalog, error) {
	vectors, err := c.VectorOverrides()
	if err != nil {
		return nil, err
	}
	if c.Palettes.Dir == "" && len(vectors) == 0 {
		return palette.Default(logger)
	}
	if c.Palettes.Dir == "" {
		return palette.DefaultWith(palette.LoadOptions{Vectors: vectors, Logger: logger})
	}
	return palette.Load(os.DirFS(c.Palettes.Dir), palette.LoadOptions{Vectors: vectors, Logger: logger})
}

// Cutoff returns the configured match cutoff.
func (c *Config) Cutoff() float64 {
	if c.Match.Cutoff == nil {
		return match.DefaultCutoff
	}
	return *c.Match.Cutoff
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - Config path is user-specified
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
