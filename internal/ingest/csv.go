// Package ingest reads scraped retail item listings, cleans them and tags
// each item colour against the reference catalog.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/compression"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidCost marks a row whose cost holds no dollar amount.
	ErrInvalidCost = errors.New("no price in cost")
)

// Column headers of the scraper output.
const (
	ColumnItem       = "Item"
	ColumnCost       = "Cost"
	ColumnItemURL    = "Item Url"
	ColumnRGB        = "RGB"
	ColumnProductURL = "Product Url"
)

var requiredColumns = []string{ColumnItem, ColumnCost, ColumnItemURL, ColumnRGB}

var costPattern = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)

// Row is one scraped listing. Rows that fail to parse keep their raw fields
// and carry the failure in Err.
type Row struct {
	Source     string     `json:"source"`
	Line       int        `json:"line"`
	Item       string     `json:"item"`
	Cost       string     `json:"cost"`
	Price      float64    `json:"price"`
	ItemURL    string     `json:"item_url"`
	ProductURL string     `json:"product_url,omitempty"`
	RGB        string     `json:"rgb"`
	Color      colour.RGB `json:"color"`
	Err        error      `json:"-"`
}

// ParseCost extracts the first dollar amount from a cost cell such as
// "Now $39.50 (was $59)".
func ParseCost(s string) (float64, error) {
	m := costPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCost, s)
	}
	return strconv.ParseFloat(m[1], 64)
}

// Read parses a scraper CSV with a header row.
func Read(r io.Reader, name string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", name)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: %w: %q", name, ErrMissingColumn, col)
		}
	}
	productCol, hasProduct := index[ColumnProductURL]

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	rows := make([]Row, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		line, _ := cr.FieldPos(0)
		row := Row{
			Source:  name,
			Line:    line,
			Item:    field(rec, index[ColumnItem]),
			Cost:    field(rec, index[ColumnCost]),
			ItemURL: field(rec, index[ColumnItemURL]),
			RGB:     field(rec, index[ColumnRGB]),
		}
		if hasProduct {
			row.ProductURL = field(rec, productCol)
		}

		if row.Color, err = colour.ParseRGB(row.RGB); err != nil {
			row.Err = err
		} else if row.Price, err = ParseCost(row.Cost); err != nil {
			row.Err = err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFiles reads and concatenates scraper CSVs in order. Compressed files
// are decompressed by extension.
func ReadFiles(paths ...string) ([]Row, error) {
	var rows []Row
	for _, path := range paths {
		rc, err := compression.Open(path)
		if err != nil {
			return nil, err
		}
		part, err := Read(rc, path)
		rc.Close()
		if err != nil {
			return nil, err
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

// Dedupe drops rows repeating an earlier (Item, Item Url) pair and returns
// the kept rows in their original order with the number removed.
func Dedupe(rows []Row) ([]Row, int) {
	type key struct{ item, url string }
	seen := make(map[key]struct{}, len(rows))
	kept := make([]Row, 0, len(rows))
	for _, row := range rows {
		k := key{row.Item, row.ItemURL}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}
