// Package compression opens plain or compressed data files by extension.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/seasonal/internal/security"
)

// MaxDecompressedSize caps how many bytes a compressed file may expand to.
const MaxDecompressedSize = 512 * 1024 * 1024

// Format is a supported compression format.
type Format string

const (
	FormatNone  Format = ""
	FormatGzip  Format = "gzip"
	FormatXz    Format = "xz"
	FormatBzip2 Format = "bzip2"
)

// DetectFormat returns the compression format implied by a file name.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return FormatGzip
	case ".xz":
		return FormatXz
	case ".bz2":
		return FormatBzip2
	default:
		return FormatNone
	}
}

// BaseName strips a compression extension from name ("items.csv.xz" -> "items.csv").
func BaseName(name string) string {
	if DetectFormat(name) == FormatNone {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// NewReader wraps r with a decompressor chosen from name's extension.
// Decompressed output is limited to MaxDecompressedSize.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	switch DetectFormat(name) {
	case FormatGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return security.NewLimitedReader(gzr, MaxDecompressedSize), nil
	case FormatXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return security.NewLimitedReader(xzr, MaxDecompressedSize), nil
	case FormatBzip2:
		return security.NewLimitedReader(bzip2.NewReader(r), MaxDecompressedSize), nil
	default:
		return r, nil
	}
}

type fileReader struct {
	io.Reader
	f *os.File
}

func (r *fileReader) Close() error {
	return r.f.Close()
}

// Open opens a file and transparently decompresses it.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified data file, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &fileReader{Reader: r, f: f}, nil
}
