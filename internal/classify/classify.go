// Package classify assigns a metrics vector to the nearest seasonal palette.
package classify

import (
	"math"
	"sort"

	"github.com/jmylchreest/seasonal/internal/metrics"
	"github.com/jmylchreest/seasonal/internal/palette"
)

// Epsilon is the distance difference below which two seasons are tied.
const Epsilon = 1e-9

// Result is the outcome of classifying one vector.
type Result struct {
	Season   palette.Season  `json:"season"`
	Subtone  metrics.Subtone `json:"subtone"`
	Vector   metrics.Vector  `json:"vector"`
	Distance float64         `json:"distance"`
	Profile  metrics.Profile `json:"profile"`
}

// Ranked is the distance from a vector to one season.
type Ranked struct {
	Season   palette.Season `json:"season"`
	Distance float64        `json:"distance"`
}

// Classifier compares vectors against the palettes of a catalog.
// It is safe for concurrent use.
type Classifier struct {
	refs       []palette.Reference
	thresholds metrics.Thresholds
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithThresholds sets the thresholds used to describe classified vectors.
func WithThresholds(t metrics.Thresholds) Option {
	return func(c *Classifier) {
		c.thresholds = t
	}
}

// New creates a classifier over the palettes of cat.
func New(cat *palette.Catalog, opts ...Option) (*Classifier, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, palette.ErrEmptyCatalog
	}

	c := &Classifier{
		refs:       cat.All(),
		thresholds: metrics.DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Distance returns the Euclidean distance between two vectors, with the
// subtone encoded as 0 or 1.
func Distance(a, b metrics.Vector) float64 {
	av, bv := a.Array(), b.Array()
	var sum float64
	for i := range av {
		d := av[i] - bv[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Classify returns the season whose canonical vector is closest to v.
// Seasons within Epsilon of the closest distance are tied and the tie goes
// to the season that comes first in canonical order.
func (c *Classifier) Classify(v metrics.Vector) Result {
	best := c.Rank(v)[0]
	return Result{
		Season:   best.Season,
		Subtone:  v.Subtone,
		Vector:   v,
		Distance: best.Distance,
		Profile:  metrics.Describe(v, c.thresholds),
	}
}

// Rank returns every loaded season ordered by distance to v. The seasons
// tied with the closest one lead in canonical order, so the first entry is
// always the season Classify picks.
func (c *Classifier) Rank(v metrics.Vector) []Ranked {
	ranked := make([]Ranked, len(c.refs))
	for i, ref := range c.refs {
		ranked[i] = Ranked{Season: ref.Season, Distance: Distance(v, ref.Vector)}
	}

	// refs are in canonical order, so a stable sort keeps it among equal distances.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	tied := 1
	for tied < len(ranked) && ranked[tied].Distance-ranked[0].Distance <= Epsilon {
		tied++
	}
	sort.SliceStable(ranked[:tied], func(i, j int) bool {
		return canonical[ranked[i].Season] < canonical[ranked[j].Season]
	})
	return ranked
}

var canonical = func() map[palette.Season]int {
	m := make(map[palette.Season]int)
	for i, s := range palette.Seasons() {
		m[s] = i
	}
	return m
}()
