package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{url: "https://example.com/face.jpg", wantExt: ".jpg"},
		{url: "https://example.com/face.PNG?w=200", wantExt: ".png"},
		{url: "https://example.com/face", wantExt: ".img"},
		{url: "https://example.com/face.jpeg#top", wantExt: ".jpeg"},
		{url: "https://example.com/v1.2/face", wantExt: ".img"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Key(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Key(%q) = %q, want extension %q", tt.url, got, tt.wantExt)
			}
			if got != Key(tt.url) {
				t.Error("Key is not deterministic")
			}
		})
	}

	if Key("https://a.example/x.jpg") == Key("https://b.example/x.jpg") {
		t.Error("different URLs should map to different files")
	}
}

func TestGet(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("png data"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "images")
	cache := &Cache{Dir: dir}
	url := srv.URL + "/face.png"

	path, err := cache.Get(context.Background(), url)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("cached at %q, want inside %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png data" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	again, err := cache.Get(context.Background(), url)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if again != path || hits.Load() != 1 {
		t.Errorf("expected cached reuse, got path %q after %d requests", again, hits.Load())
	}

	cache.Refresh = true
	if _, err := cache.Get(context.Background(), url); err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("expected a second download with Refresh, got %d requests", hits.Load())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("cache holds %d files, want 1 (temporary files removed)", len(entries))
	}
}

func TestGetFailedDownloadLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	if _, err := (&Cache{Dir: dir}).Get(context.Background(), srv.URL+"/face.png"); err == nil {
		t.Fatal("expected error for a failed download")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("cache holds %d files after a failed download", len(entries))
	}
}

func TestGetInvalidURL(t *testing.T) {
	if _, err := (&Cache{Dir: t.TempDir()}).Get(context.Background(), "file:///etc/passwd"); err == nil {
		t.Error("expected error for non-HTTP URL")
	}
}
