package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    hclog.Level
		wantErr bool
	}{
		{name: "", want: hclog.Info},
		{name: "debug", want: hclog.Debug},
		{name: "WARN", want: hclog.Warn},
		{name: " error ", want: hclog.Error},
		{name: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "file", "autumn.csv")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "file=autumn.csv") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, Name) {
		t.Errorf("logger name missing: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{JSON: true, Output: &buf})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	logger.Named("palette").Info("loaded", "palettes", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["@module"] != Name+".palette" {
		t.Errorf("@module = %v", entry["@module"])
	}
	if entry["palettes"] != float64(4) {
		t.Errorf("palettes = %v", entry["palettes"])
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		want           string
	}{
		{name: "configured", want: "warn"},
		{name: "verbose", verbose: true, want: "debug"},
		{name: "quiet", quiet: true, want: "error"},
		{name: "quiet wins", verbose: true, quiet: true, want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFor("warn", tt.verbose, tt.quiet); got != tt.want {
				t.Errorf("LevelFor = %q, want %q", got, tt.want)
			}
		})
	}
}
