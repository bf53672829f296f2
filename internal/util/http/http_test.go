package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmylchreest/seasonal/internal/security"
)

func TestFetch(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("image bytes"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.URL, FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("Fetch = %q", data)
	}
	if !strings.HasPrefix(gotAgent, "seasonal/") {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL, FetchOptions{})
	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("Fetch error = %v, want *StatusError", err)
	}
	if status.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want 404", status.Code)
	}
}

func TestFetchMediaType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/face.png" {
			w.Header().Set("Content-Type", "image/png")
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	opts := FetchOptions{MediaType: "image/"}
	if _, err := Fetch(context.Background(), srv.URL+"/face.png", opts); err != nil {
		t.Errorf("Fetch image error = %v", err)
	}
	if _, err := Fetch(context.Background(), srv.URL+"/login", opts); err == nil {
		t.Error("expected error for an HTML response")
	}
}

func TestFetchMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL, FetchOptions{MaxBytes: 10})
	if !errors.Is(err, security.ErrSizeLimit) {
		t.Errorf("Fetch error = %v, want ErrSizeLimit", err)
	}
}
