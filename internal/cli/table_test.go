package cli

import (
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Season", "Distance"}).SetAlign(1, AlignRight)
	table.AddRow([]string{"Autumn", "0.0000"})
	table.AddRow([]string{"Winter", "12.5"})

	want := strings.Join([]string{
		"Season  Distance",
		"------  --------",
		"Autumn    0.0000",
		"Winter      12.5",
		"",
	}, "\n")

	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableAddRowNormalisesWidth(t *testing.T) {
	table := NewTable([]string{"A", "B"})
	table.AddRow([]string{"1"})
	table.AddRow([]string{"1", "2", "3"})

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}

	lines := strings.Split(strings.TrimSuffix(table.Render(), "\n"), "\n")
	if lines[2] != "1" {
		t.Errorf("short row rendered as %q, want %q", lines[2], "1")
	}
}

func TestTableWideCells(t *testing.T) {
	table := NewTable([]string{"ID"})
	table.AddRow([]string{"autumn:[179 97 71]"})

	lines := strings.Split(table.Render(), "\n")
	if len(lines[1]) != len("autumn:[179 97 71]") {
		t.Errorf("separator %q does not span widest cell", lines[1])
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() with no headers = %q, want empty", got)
	}

	got := NewTable([]string{"Name"}).Render()
	if got != "Name\n----\n" {
		t.Errorf("Render() with no rows = %q", got)
	}
}

func TestSetAlignOutOfRange(t *testing.T) {
	table := NewTable([]string{"A"})
	table.SetAlign(3, AlignRight).SetAlign(-1, AlignRight)
	if table.align[0] != AlignLeft {
		t.Errorf("column 0 alignment changed to %v", table.align[0])
	}
}
