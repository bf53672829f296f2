package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/match"
)

const listing = `Item,Cost,Item Url,RGB,Product Url
Linen shirt,Now $39.50 (was $59),https://shop/linen?c=1,[59 68 52],https://shop/linen
Linen shirt,Now $39.50 (was $59),https://shop/linen?c=1,[59 68 52],https://shop/linen
Linen shirt,$39.50,https://shop/linen?c=2,[200 10 10],https://shop/linen
Wool coat,$120,https://shop/coat,[10 10 10],https://shop/coat
Scarf,free,https://shop/scarf,[1 2 3],https://shop/scarf
Hat,$15,https://shop/hat,[1 2],https://shop/hat
`

func TestParseCost(t *testing.T) {
	tests := []struct {
		cost    string
		want    float64
		wantErr bool
	}{
		{cost: "$39", want: 39},
		{cost: "$39.50", want: 39.5},
		{cost: "Now $19.99 (was $29.99)", want: 19.99},
		{cost: "USD 12", wantErr: true},
		{cost: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cost, func(t *testing.T) {
			got, err := ParseCost(tt.cost)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCost(%q) error = %v, wantErr %v", tt.cost, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidCost) {
				t.Errorf("error = %v, want ErrInvalidCost", err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCost(%q) = %v, want %v", tt.cost, got, tt.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	rows, err := Read(strings.NewReader(listing), "listing.csv")
	if err != nil {
		t.Fatalf("Read error = %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}

	first := rows[0]
	if first.Item != "Linen shirt" || first.Price != 39.5 || first.Color != (colour.RGB{R: 59, G: 68, B: 52}) {
		t.Errorf("first row = %+v", first)
	}
	if first.ProductURL != "https://shop/linen" || first.Line != 2 || first.Source != "listing.csv" {
		t.Errorf("first row = %+v", first)
	}

	if !errors.Is(rows[4].Err, ErrInvalidCost) {
		t.Errorf("scarf error = %v, want ErrInvalidCost", rows[4].Err)
	}
	if !errors.Is(rows[5].Err, colour.ErrInvalidColorCode) {
		t.Errorf("hat error = %v, want ErrInvalidColorCode", rows[5].Err)
	}
}

func TestReadMissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("Item,Cost,RGB\nShirt,$1,[1 2 3]\n"), "bad.csv")
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Read error = %v, want ErrMissingColumn", err)
	}

	if _, err := Read(strings.NewReader(""), "empty.csv"); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestReadWithoutProductColumn(t *testing.T) {
	rows, err := Read(strings.NewReader("\ufeffItem,Cost,Item Url,RGB\nShirt,$1,https://shop/s,[1 2 3]\n"), "plain.csv")
	if err != nil {
		t.Fatalf("Read error = %v", err)
	}
	if len(rows) != 1 || rows[0].ProductURL != "" || rows[0].Err != nil {
		t.Errorf("rows = %+v", rows)
	}
}

func TestReadFilesCompressed(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(plain, []byte(listing), 0o600); err != nil {
		t.Fatal(err)
	}

	packed := filepath.Join(dir, "b.csv.xz")
	f, err := os.Create(packed)
	if err != nil {
		t.Fatal(err)
	}
	xw, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := xw.Write([]byte("Item,Cost,Item Url,RGB\nBelt,$9,https://shop/belt,[5 5 5]\n")); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rows, err := ReadFiles(plain, packed)
	if err != nil {
		t.Fatalf("ReadFiles error = %v", err)
	}
	if len(rows) != 7 || rows[6].Item != "Belt" || rows[6].Source != packed {
		t.Errorf("rows = %d, last = %+v", len(rows), rows[len(rows)-1])
	}
}

func TestDedupe(t *testing.T) {
	rows, _ := Read(strings.NewReader(listing), "listing.csv")
	kept, removed := Dedupe(rows)
	if removed != 1 || len(kept) != 5 {
		t.Fatalf("Dedupe removed %d, kept %d", removed, len(kept))
	}
	if kept[0].Line != 2 || kept[1].ItemURL != "https://shop/linen?c=2" {
		t.Errorf("Dedupe should keep the first occurrence in order: %+v", kept[:2])
	}
}

func TestSummarize(t *testing.T) {
	rows, _ := Read(strings.NewReader(listing), "listing.csv")
	s := Summarize(rows)

	if s.Rows != 4 || s.Products != 2 {
		t.Errorf("Rows = %d, Products = %d", s.Rows, s.Products)
	}
	if s.Histogram[1] != 1 || s.Histogram[2] != 1 {
		t.Errorf("Histogram = %v", s.Histogram)
	}
	if len(s.TwoColour) != 1 || s.TwoColour[0].Product != "https://shop/linen" {
		t.Errorf("TwoColour = %+v", s.TwoColour)
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, s); err != nil {
		t.Fatalf("WriteSummary error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "# unique colors") || !strings.Contains(out, "https://shop/linen: [59 68 52] [200 10 10]") {
		t.Errorf("summary output = %q", out)
	}
}

func TestItems(t *testing.T) {
	rows, _ := Read(strings.NewReader(listing), "listing.csv")
	items := Items(rows)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}

	linen := items[0]
	if linen.ID != "https://shop/linen" || linen.Name != "Linen shirt" || linen.Price != "39.50" {
		t.Errorf("linen = %+v", linen)
	}
	want := []colour.RGB{{R: 59, G: 68, B: 52}, {R: 200, G: 10, B: 10}}
	if len(linen.Colors) != len(want) || linen.Colors[0] != want[0] || linen.Colors[1] != want[1] {
		t.Errorf("linen colours = %v, want %v", linen.Colors, want)
	}

	if coat := items[1]; coat.ID != "https://shop/coat" || coat.Price != "120.00" || len(coat.Colors) != 1 {
		t.Errorf("coat = %+v", coat)
	}

	if got := Items(nil); got == nil || len(got) != 0 {
		t.Errorf("Items(nil) = %#v, want empty", got)
	}
}

func refs() []match.Reference {
	return []match.Reference{
		{ID: "olive", Color: colour.RGB{R: 60, G: 70, B: 50}},
		{ID: "red", Color: colour.RGB{R: 210, G: 0, B: 0}},
		{ID: "black", Color: colour.RGB{}},
	}
}

func TestTagNearest(t *testing.T) {
	rows, _ := Read(strings.NewReader(listing), "listing.csv")
	rows, _ = Dedupe(rows)

	tagger := &Tagger{Refs: refs(), Mode: ModeNearest, Workers: 2}
	tagged, err := tagger.Tag(context.Background(), rows)
	if err != nil {
		t.Fatalf("Tag error = %v", err)
	}
	if len(tagged) != len(rows) {
		t.Fatalf("got %d tagged rows, want %d", len(tagged), len(rows))
	}

	wantIDs := []string{"olive", "red", "black"}
	for i, id := range wantIDs {
		if len(tagged[i].Matches) != 1 || tagged[i].Matches[0].ID != id {
			t.Errorf("row %d matches = %+v, want %s", i, tagged[i].Matches, id)
		}
	}
	for _, i := range []int{3, 4} {
		if tagged[i].Error == "" || len(tagged[i].Matches) != 0 {
			t.Errorf("row %d should carry its parse error: %+v", i, tagged[i])
		}
	}
}

func TestTagRadius(t *testing.T) {
	rows := []Row{
		{Item: "a", Color: colour.RGB{R: 20, G: 20, B: 20}},
		{Item: "b", Color: colour.RGB{R: 128, G: 128, B: 128}},
	}

	tagger := &Tagger{Refs: refs(), Mode: ModeRadius, Cutoff: 50}
	tagged, err := tagger.Tag(context.Background(), rows)
	if err != nil {
		t.Fatalf("Tag error = %v", err)
	}
	if len(tagged[0].Matches) != 1 || tagged[0].Matches[0].ID != "black" {
		t.Errorf("row a matches = %+v", tagged[0].Matches)
	}
	if tagged[1].Matches == nil || len(tagged[1].Matches) != 0 {
		t.Errorf("row b matches = %#v, want empty", tagged[1].Matches)
	}
}

func TestTagEmptyReferences(t *testing.T) {
	rows := []Row{{Item: "a", Color: colour.RGB{R: 1}}}
	tagged, err := (&Tagger{Mode: ModeNearest}).Tag(context.Background(), rows)
	if err != nil {
		t.Fatalf("Tag error = %v", err)
	}
	if !strings.Contains(tagged[0].Error, match.ErrEmptyCandidateSet.Error()) {
		t.Errorf("Error = %q, want empty candidate set", tagged[0].Error)
	}
}

func TestTagCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []Row{{Item: "a"}, {Item: "b"}}
	if _, err := (&Tagger{Refs: refs()}).Tag(ctx, rows); !errors.Is(err, context.Canceled) {
		t.Errorf("Tag error = %v, want context.Canceled", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"nearest", "radius"} {
		if _, err := ParseMode(name); err != nil {
			t.Errorf("ParseMode(%q) error = %v", name, err)
		}
	}
	if _, err := ParseMode("fuzzy"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestWriteOutputs(t *testing.T) {
	rows, _ := Read(strings.NewReader(listing), "listing.csv")
	rows, _ = Dedupe(rows)
	tagged, err := (&Tagger{Refs: refs(), Mode: ModeNearest}).Tag(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := WriteJSON(&js, tagged); err != nil {
		t.Fatalf("WriteJSON error = %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 5 || decoded[0]["item"] != "Linen shirt" || decoded[0]["color"] != "[59 68 52]" {
		t.Errorf("decoded[0] = %v", decoded[0])
	}

	var out bytes.Buffer
	if err := WriteCSV(&out, tagged); err != nil {
		t.Fatalf("WriteCSV error = %v", err)
	}
	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("got %d records, want header + 5", len(records))
	}
	if records[1][1] != "39.50" || records[1][5] != "olive" {
		t.Errorf("first record = %v", records[1])
	}
	if records[4][7] == "" {
		t.Errorf("failed row should carry an error: %v", records[4])
	}
}
