package match

import (
	"context"
	"fmt"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/palette"
)

// Item is a catalog product with the colours it is available in.
type Item struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	URL    string       `json:"url,omitempty"`
	Price  string       `json:"price,omitempty"`
	Colors []colour.RGB `json:"colors"`
}

// FilterItems returns the items having at least one colour within cutoff of
// query, preserving the order of items.
func FilterItems(ctx context.Context, query colour.RGB, items []Item, cutoff float64, workers int) ([]Item, error) {
	return filter(ctx, []Reference{{ID: query.String(), Color: query}}, items, cutoff, workers)
}

// FilterBySeason returns the items having at least one colour within cutoff
// of any swatch of the palette, preserving the order of items.
func FilterBySeason(ctx context.Context, ref palette.Reference, items []Item, cutoff float64, workers int) ([]Item, error) {
	return filter(ctx, References(ref.Swatches), items, cutoff, workers)
}

func filter(ctx context.Context, targets []Reference, items []Item, cutoff float64, workers int) ([]Item, error) {
	keep := make([]bool, len(items))
	err := forEach(ctx, len(items), workers, func(i int) {
		for _, c := range items[i].Colors {
			if len(WithinRadius(c, targets, cutoff)) > 0 {
				keep[i] = true
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0)
	for i, item := range items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out, nil
}

// CatalogReferences exposes the swatches of the given seasons as references
// identified as "<season>:<code>". With no seasons, every loaded palette is used.
func CatalogReferences(cat *palette.Catalog, seasons ...palette.Season) []Reference {
	var refs []Reference
	add := func(r palette.Reference) {
		for _, c := range r.Swatches {
			refs = append(refs, Reference{ID: fmt.Sprintf("%s:%s", r.Season, c), Color: c})
		}
	}

	if len(seasons) == 0 {
		for _, r := range cat.All() {
			add(r)
		}
		return refs
	}

	for _, s := range seasons {
		if r, ok := cat.Get(s); ok {
			add(r)
		}
	}
	return refs
}
