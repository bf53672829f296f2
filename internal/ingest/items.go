package ingest

import (
	"slices"
	"strconv"

	"github.com/jmylchreest/seasonal/internal/match"
)

// productKey groups listings of one product. Rows without a product URL are
// their own product.
func productKey(row Row) string {
	if row.ProductURL != "" {
		return row.ProductURL
	}
	return row.ItemURL
}

// Items groups parseable rows into products in first-seen order. Each item
// takes its name and price from the first row of the product and lists the
// product's distinct colours.
func Items(rows []Row) []match.Item {
	index := make(map[string]int)
	items := make([]match.Item, 0)

	for _, row := range rows {
		if row.Err != nil {
			continue
		}
		key := productKey(row)
		i, ok := index[key]
		if !ok {
			i = len(items)
			index[key] = i
			items = append(items, match.Item{
				ID:    key,
				Name:  row.Item,
				URL:   key,
				Price: strconv.FormatFloat(row.Price, 'f', 2, 64),
			})
		}
		if !slices.Contains(items[i].Colors, row.Color) {
			items[i].Colors = append(items[i].Colors, row.Color)
		}
	}
	return items
}
