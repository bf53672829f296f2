// Package match finds reference colours close to a query colour.
package match

import (
	"errors"

	"github.com/jmylchreest/seasonal/internal/colour"
)

// ErrEmptyCandidateSet is returned when there are no references to match against.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// DefaultCutoff is the largest RGB distance at which two colours are
// considered a match.
const DefaultCutoff = 50.0

// Reference is a catalog colour that queries are matched against.
type Reference struct {
	ID    string     `json:"id"`
	Color colour.RGB `json:"color"`
}

// Result pairs a query with one matching reference.
type Result struct {
	Query    colour.RGB `json:"query"`
	Color    colour.RGB `json:"color"`
	Distance float64    `json:"distance"`
	ID       string     `json:"id,omitempty"`
}

// Distance is the Euclidean distance between two colours in RGB space.
func Distance(a, b colour.RGB) float64 {
	return colour.Euclidean(a, b)
}

// Nearest returns the reference closest to q. When several references are
// equally close the first one wins.
func Nearest(q colour.RGB, refs []Reference) (Result, error) {
	if len(refs) == 0 {
		return Result{}, ErrEmptyCandidateSet
	}

	best := Result{Query: q, Color: refs[0].Color, ID: refs[0].ID, Distance: Distance(q, refs[0].Color)}
	for _, ref := range refs[1:] {
		if d := Distance(q, ref.Color); d < best.Distance {
			best = Result{Query: q, Color: ref.Color, ID: ref.ID, Distance: d}
		}
	}
	return best, nil
}

// WithinRadius returns every reference whose distance to q is at most cutoff,
// in reference order. The result is empty, never nil, when nothing matches.
func WithinRadius(q colour.RGB, refs []Reference, cutoff float64) []Result {
	results := make([]Result, 0)
	if cutoff < 0 {
		return results
	}

	for _, ref := range refs {
		if d := Distance(q, ref.Color); d <= cutoff {
			results = append(results, Result{Query: q, Color: ref.Color, ID: ref.ID, Distance: d})
		}
	}
	return results
}

// References wraps plain colours as references identified by their code.
func References(colors []colour.RGB) []Reference {
	refs := make([]Reference, len(colors))
	for i, c := range colors {
		refs[i] = Reference{ID: c.String(), Color: c}
	}
	return refs
}
