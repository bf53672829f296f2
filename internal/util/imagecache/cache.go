// Package imagecache keeps downloaded portraits on disk so repeated analyses
// of the same URL fetch it once.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/seasonal/internal/util/http"
)

// Cache stores remote images under Dir, one file per URL.
type Cache struct {
	// Dir is the cache directory. Empty means DefaultDir.
	Dir string

	// Refresh downloads images again even when a cached copy exists.
	Refresh bool

	Fetch httputil.FetchOptions
}

// DefaultDir returns the per-user cache directory for images.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine cache directory: %w", err)
	}
	return filepath.Join(base, "seasonal", "images"), nil
}

// Key returns the cache file name for a URL: a truncated SHA-256 of the
// whole URL followed by the lower-cased extension of its path.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	ext := ".img"
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return hex.EncodeToString(sum[:16]) + ext
}

// Get returns the local path of the image at rawURL, downloading it first
// when it is not cached or Refresh is set.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid image URL %q: must be http or https", rawURL)
	}

	dir := c.Dir
	if dir == "" {
		if dir, err = DefaultDir(); err != nil {
			return "", err
		}
	}

	target := filepath.Join(dir, Key(rawURL))
	if !c.Refresh {
		_, err := os.Stat(target)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to inspect cached image: %w", err)
		}
	}

	data, err := httputil.Fetch(ctx, rawURL, c.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	if err := store(dir, target, data); err != nil {
		return "", err
	}
	return target, nil
}

// store writes data to target through a temporary file so readers never see
// a partial image.
func store(dir, target string, data []byte) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, werr := tmp.Write(data)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("failed to write cached image: %w", werr)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to store cached image: %w", err)
	}
	return nil
}
