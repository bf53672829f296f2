// Package sampler reduces the pixels of each segmented region to a single
// representative colour.
package sampler

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/jmylchreest/seasonal/internal/colour"
)

var (
	// ErrEmptyRegion is returned when a region has no usable pixels.
	ErrEmptyRegion = errors.New("empty region")

	// ErrInvalidRegion is returned for a region name outside the fixed set.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrMaskShape is returned when a mask does not match the image dimensions.
	ErrMaskShape = errors.New("mask shape does not match image")
)

// DefaultCandidates is the number of candidate colours kept per region.
const DefaultCandidates = 3

// medoidEpsilon absorbs floating point noise when comparing medoid costs.
const medoidEpsilon = 1e-9

// CandidateSet is the multiset of pixel colours of one region in one image.
type CandidateSet []colour.RGB

// Config controls how regions are reduced.
type Config struct {
	// Candidates is the number of candidate colours per region.
	// Regions without an entry use DefaultCandidates.
	Candidates map[Region]int

	// Metric consolidates the candidates into one representative.
	Metric colour.Metric
}

// DefaultConfig returns the configuration used by the analysis pipeline:
// three candidates per region consolidated with RMSE.
func DefaultConfig() Config {
	return Config{
		Candidates: map[Region]int{
			RegionSkin: DefaultCandidates,
			RegionHair: DefaultCandidates,
			RegionLips: DefaultCandidates,
			RegionEyes: DefaultCandidates,
		},
		Metric: colour.MetricRMSE,
	}
}

// CandidatesFor returns the candidate count for a region.
func (c Config) CandidatesFor(r Region) int {
	if k, ok := c.Candidates[r]; ok {
		return k
	}
	return DefaultCandidates
}

// Validate validates the sampler configuration.
func (c Config) Validate() error {
	if !c.Metric.IsValid() {
		return fmt.Errorf("%w: %s", colour.ErrUnknownMetric, c.Metric)
	}
	for r, k := range c.Candidates {
		if _, err := ParseRegion(string(r)); err != nil {
			return err
		}
		if k < 1 {
			return fmt.Errorf("candidate count for %s must be at least 1, got %d", r, k)
		}
	}
	return nil
}

// Sampler extracts representative colours from image regions.
type Sampler struct {
	kmeans *colour.KMeans
}

// New creates a Sampler.
func New() *Sampler {
	return &Sampler{kmeans: colour.NewKMeans()}
}

// Sample selects up to k candidate colours from the set by clustering and
// returns the weighted medoid of those candidates under metric: the candidate
// with the smallest weighted distance to all others. Ties go to the heavier
// candidate. An empty set is an error, never a default colour.
func (s *Sampler) Sample(candidates CandidateSet, k int, metric colour.Metric) (colour.RGB, error) {
	if len(candidates) == 0 {
		return colour.RGB{}, ErrEmptyRegion
	}
	if k < 1 {
		return colour.RGB{}, fmt.Errorf("candidate count must be at least 1, got %d", k)
	}
	if !metric.IsValid() {
		return colour.RGB{}, fmt.Errorf("%w: %s", colour.ErrUnknownMetric, metric)
	}

	clusters := s.kmeans.Cluster(candidates, k, contentSeed(candidates))
	return medoid(clusters, metric), nil
}

func medoid(clusters []colour.Cluster, metric colour.Metric) colour.RGB {
	best := 0
	bestCost := math.MaxFloat64
	for i := range clusters {
		cost := 0.0
		for j := range clusters {
			cost += clusters[j].Weight * metric.Distance(clusters[i].Centroid, clusters[j].Centroid)
		}
		if cost < bestCost-medoidEpsilon {
			best = i
			bestCost = cost
		}
	}
	return clusters[best].Centroid
}

// Candidates collects the colours of the pixels selected by mask.
// The mask must have the same width and height as the image.
func Candidates(img image.Image, mask *Mask) (CandidateSet, error) {
	if mask == nil || mask.Gray == nil {
		return nil, ErrEmptyRegion
	}

	ib := img.Bounds()
	mb := mask.Bounds()
	if ib.Dx() != mb.Dx() || ib.Dy() != mb.Dy() {
		return nil, fmt.Errorf("%w: image %dx%d, mask %dx%d", ErrMaskShape, ib.Dx(), ib.Dy(), mb.Dx(), mb.Dy())
	}

	var set CandidateSet
	for dy := 0; dy < ib.Dy(); dy++ {
		for dx := 0; dx < ib.Dx(); dx++ {
			if mask.Selected(dx, dy) {
				set = append(set, colour.ToRGB(img.At(ib.Min.X+dx, ib.Min.Y+dy)))
			}
		}
	}

	if len(set) == 0 {
		return nil, ErrEmptyRegion
	}
	return set, nil
}

// SampleRegions reduces every fixed region of the image to its representative
// colour. A missing or empty mask fails the whole call with ErrEmptyRegion.
func (s *Sampler) SampleRegions(img image.Image, masks Masks, cfg Config) (map[Region]colour.RGB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampler configuration: %w", err)
	}

	for r := range masks {
		if _, err := ParseRegion(string(r)); err != nil {
			return nil, err
		}
	}

	dominants := make(map[Region]colour.RGB, len(Regions()))
	for _, r := range Regions() {
		candidates, err := Candidates(img, masks[r])
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", r, err)
		}

		rep, err := s.Sample(candidates, cfg.CandidatesFor(r), cfg.Metric)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", r, err)
		}
		dominants[r] = rep
	}

	return dominants, nil
}
