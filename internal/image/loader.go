// Package image loads portrait and mask images from files and URLs.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/seasonal/internal/security"
	httputil "github.com/jmylchreest/seasonal/internal/util/http"
	"github.com/jmylchreest/seasonal/internal/util/imagecache"
)

// DefaultMaxBytes limits the encoded size of a loaded image.
const DefaultMaxBytes = 32 * 1024 * 1024

// ErrUnsupportedFormat is returned for data no registered decoder recognises.
var ErrUnsupportedFormat = errors.New("unsupported image format (want JPEG, PNG, GIF or WebP)")

// Loader loads images from local files and HTTP(S) URLs.
type Loader struct {
	// CacheDir enables on-disk caching of remote images when set.
	CacheDir string

	// AllowInsecure permits plain http URLs.
	AllowInsecure bool

	// MaxBytes limits the encoded image size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// NewLoader creates a Loader with default limits and no cache.
func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) maxBytes() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

func (l *Loader) fetchOptions() httputil.FetchOptions {
	return httputil.FetchOptions{MaxBytes: l.maxBytes(), MediaType: "image/"}
}

// IsURL reports whether src is an HTTP(S) URL.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load loads an image from a file path or URL.
// Supported formats: JPEG, PNG, GIF, WebP.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, errors.New("image path cannot be empty")
	}

	if !IsURL(src) {
		return l.loadFile(src)
	}

	if err := security.ValidateHTTPURL(src, l.AllowInsecure); err != nil {
		return nil, err
	}

	if l.CacheDir != "" {
		cache := &imagecache.Cache{Dir: l.CacheDir, Fetch: l.fetchOptions()}
		path, err := cache.Get(ctx, src)
		if err != nil {
			return nil, err
		}
		return l.loadFile(path)
	}

	data, err := httputil.Fetch(ctx, src, l.fetchOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	return decode(bytes.NewReader(data))
}

func (l *Loader) loadFile(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 - the user names the portrait to analyse
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not an image", path)
	}

	img, err := decode(security.NewLimitedReader(f, l.maxBytes()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// extensions are the file extensions treated as images when scanning a
// directory; they match the registered decoders.
var extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func isImageFile(name string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(name)))
}

// ResolveImagePaths expands src into the images to analyse: a URL or file
// yields itself, a directory yields the images directly inside it in lexical
// order. Symlinks to files are followed; subdirectories are not entered.
func ResolveImagePaths(src string) ([]string, error) {
	if IsURL(src) {
		return []string{src}, nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return []string{src}, nil
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !isImageFile(e.Name()) {
			continue
		}
		p := filepath.Join(src, e.Name())
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", src)
	}
	slices.Sort(paths)
	return paths, nil
}
