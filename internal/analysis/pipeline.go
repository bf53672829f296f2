// Package analysis runs the full season analysis of one portrait: resize,
// region sampling, metrics and classification.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/seasonal/internal/classify"
	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/metrics"
	"github.com/jmylchreest/seasonal/internal/palette"
	"github.com/jmylchreest/seasonal/internal/sampler"
)

// ErrNoSegmenter is returned by AnalyzeImage when the pipeline has no segmenter.
var ErrNoSegmenter = errors.New("no segmenter configured")

// Segmenter produces region masks for an image.
type Segmenter interface {
	Segment(ctx context.Context, img image.Image) (sampler.Masks, error)
}

// Config controls the analysis pipeline.
type Config struct {
	// MaxSide is the longest image side analysed. Zero or less disables resizing.
	MaxSide int

	Sampler    sampler.Config
	Contrast   metrics.ContrastMode
	Thresholds metrics.Thresholds
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxSide:    DefaultMaxSide,
		Sampler:    sampler.DefaultConfig(),
		Contrast:   metrics.DefaultContrastMode,
		Thresholds: metrics.DefaultThresholds(),
	}
}

// Validate validates the pipeline configuration.
func (c Config) Validate() error {
	if err := c.Sampler.Validate(); err != nil {
		return err
	}
	if _, err := metrics.ParseContrastMode(string(c.Contrast)); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}

// Timings records how long each stage took.
type Timings struct {
	Resize   time.Duration `json:"resize"`
	Segment  time.Duration `json:"segment,omitempty"`
	Analyze  time.Duration `json:"analyze"`
	Classify time.Duration `json:"classify"`
}

// Report is a classification together with the data it was derived from.
type Report struct {
	Result  classify.Result               `json:"result"`
	Colours map[sampler.Region]colour.RGB `json:"colours"`
	Ranking []classify.Ranked             `json:"ranking"`
	Size    image.Point                   `json:"size"`
	Timings Timings                       `json:"timings"`
}

// Pipeline is the analysis context shared by all requests. It is immutable
// after New and safe for concurrent use.
type Pipeline struct {
	cfg        Config
	classifier *classify.Classifier
	sampler    *sampler.Sampler
	segmenter  Segmenter
	logger     hclog.Logger
}

// New builds a pipeline over the palettes of cat. seg may be nil when only
// Analyze with explicit masks is used.
func New(cat *palette.Catalog, seg Segmenter, cfg Config, logger hclog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis configuration: %w", err)
	}

	classifier, err := classify.New(cat, classify.WithThresholds(cfg.Thresholds))
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		sampler:    sampler.New(),
		segmenter:  seg,
		logger:     logger.Named("analysis"),
	}, nil
}

// Analyze classifies img using masks aligned with it.
func (p *Pipeline) Analyze(ctx context.Context, img image.Image, masks sampler.Masks) (classify.Result, error) {
	report, err := p.AnalyzeReport(ctx, img, masks)
	if err != nil {
		return classify.Result{}, err
	}
	return report.Result, nil
}

// AnalyzeReport is Analyze returning the full report.
func (p *Pipeline) AnalyzeReport(ctx context.Context, img image.Image, masks sampler.Masks) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ib := img.Bounds()
	for r, m := range masks {
		if m == nil || m.Gray == nil {
			continue
		}
		if mb := m.Bounds(); mb.Dx() != ib.Dx() || mb.Dy() != ib.Dy() {
			return nil, fmt.Errorf("region %s: %w: image %dx%d, mask %dx%d",
				r, sampler.ErrMaskShape, ib.Dx(), ib.Dy(), mb.Dx(), mb.Dy())
		}
	}

	var timings Timings
	start := time.Now()
	small := Downsample(img, p.cfg.MaxSide)
	w, h := small.Bounds().Dx(), small.Bounds().Dy()
	masks = DownsampleMasks(masks, w, h)
	timings.Resize = time.Since(start)

	return p.analyze(ctx, small, masks, timings)
}

// AnalyzeImage resizes img, obtains masks from the segmenter and classifies it.
func (p *Pipeline) AnalyzeImage(ctx context.Context, img image.Image) (*Report, error) {
	if p.segmenter == nil {
		return nil, ErrNoSegmenter
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var timings Timings
	start := time.Now()
	small := Downsample(img, p.cfg.MaxSide)
	timings.Resize = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	masks, err := p.segmenter.Segment(ctx, small)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	timings.Segment = time.Since(start)

	return p.analyze(ctx, small, masks, timings)
}

func (p *Pipeline) analyze(ctx context.Context, img image.Image, masks sampler.Masks, timings Timings) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	colours, err := p.sampler.SampleRegions(img, masks, p.cfg.Sampler)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector, err := metrics.Compute(colours, p.cfg.Contrast)
	if err != nil {
		return nil, err
	}
	timings.Analyze = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	result := p.classifier.Classify(vector)
	ranking := p.classifier.Rank(vector)
	timings.Classify = time.Since(start)

	p.logger.Debug("analysis complete",
		"season", result.Season,
		"vector", vector.String(),
		"distance", result.Distance,
		"resize", timings.Resize,
		"segment", timings.Segment,
		"analyze", timings.Analyze,
	)

	return &Report{
		Result:  result,
		Colours: colours,
		Ranking: ranking,
		Size:    image.Pt(img.Bounds().Dx(), img.Bounds().Dy()),
		Timings: timings,
	}, nil
}
