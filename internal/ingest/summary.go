package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/seasonal/internal/colour"
)

// ProductColours lists the distinct colours of one product.
type ProductColours struct {
	Product string       `json:"product"`
	Colours []colour.RGB `json:"colours"`
}

// Summary describes how many distinct colours products come in.
type Summary struct {
	Rows     int `json:"rows"`
	Products int `json:"products"`

	// Histogram maps a distinct colour count to the number of products with it.
	Histogram map[int]int      `json:"histogram"`
	TwoColour []ProductColours `json:"two_colour_products"`
}

// Counts returns the histogram keys in ascending order.
func (s Summary) Counts() []int {
	keys := make([]int, 0, len(s.Histogram))
	for k := range s.Histogram {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Summarize groups parseable rows into products with Items and counts each
// product's distinct colours.
func Summarize(rows []Row) Summary {
	s := Summary{Histogram: make(map[int]int), TwoColour: []ProductColours{}}
	for _, row := range rows {
		if row.Err == nil {
			s.Rows++
		}
	}

	items := Items(rows)
	s.Products = len(items)
	for _, item := range items {
		n := len(item.Colors)
		s.Histogram[n]++
		if n == 2 {
			s.TwoColour = append(s.TwoColour, ProductColours{Product: item.ID, Colours: item.Colors})
		}
	}
	return s
}

// WriteSummary prints the summary as a table.
func WriteSummary(w io.Writer, s Summary) error {
	header := fmt.Sprintf("%-15s | %-5s", "# unique colors", "count")
	if _, err := fmt.Fprintf(w, "%s\n%s\n", header, strings.Repeat("-", len(header))); err != nil {
		return err
	}
	for _, n := range s.Counts() {
		if _, err := fmt.Fprintf(w, "%-15d | %-5d\n", n, s.Histogram[n]); err != nil {
			return err
		}
	}

	if len(s.TwoColour) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nProducts with exactly 2 unique colours:"); err != nil {
		return err
	}
	for _, p := range s.TwoColour {
		if _, err := fmt.Fprintf(w, "%s: %v %v\n", p.Product, p.Colours[0], p.Colours[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes tagged rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Tagged) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes tagged rows with the cleaned price and the matched
// reference ids separated by spaces.
func WriteCSV(w io.Writer, rows []Tagged) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnItem, "Price", ColumnItemURL, ColumnProductURL, ColumnRGB, "Matches", "Distance", "Error"}); err != nil {
		return err
	}

	for _, row := range rows {
		ids := make([]string, len(row.Matches))
		for i, m := range row.Matches {
			ids[i] = m.ID
		}
		price, distance := "", ""
		if row.Err == nil {
			price = strconv.FormatFloat(row.Price, 'f', 2, 64)
		}
		if len(row.Matches) > 0 {
			distance = strconv.FormatFloat(row.Matches[0].Distance, 'f', 3, 64)
		}
		rgb := row.RGB
		if row.Err == nil {
			rgb = row.Color.String()
		}
		if err := cw.Write([]string{row.Item, price, row.ItemURL, row.ProductURL, rgb, strings.Join(ids, " "), distance, row.Error}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
