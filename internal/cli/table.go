package cli

import (
	"strings"
	"unicode/utf8"
)

// Alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const columnGap = "  "

// Table renders rows as aligned plain-text columns under a dashed header.
type Table struct {
	headers []string
	align   []Alignment
	rows    [][]string
}

// NewTable creates a table with the given headers. Every column is left
// aligned until SetAlign says otherwise.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		align:   make([]Alignment, len(headers)),
	}
}

// SetAlign sets the alignment of one column. Out of range columns are ignored.
func (t *Table) SetAlign(col int, a Alignment) *Table {
	if col >= 0 && col < len(t.align) {
		t.align[col] = a
	}
	return t
}

// AddRow appends a row, padding or truncating it to the number of headers.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render formats the table. Trailing spaces are trimmed from every line.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	t.writeLine(&b, t.headers, widths)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.writeLine(&b, sep, widths)

	for _, row := range t.rows {
		t.writeLine(&b, row, widths)
	}
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(cell, widths[i], t.align[i])
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, columnGap), " "))
	b.WriteByte('\n')
}

func pad(s string, width int, a Alignment) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == AlignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}
