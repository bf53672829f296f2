// Package security guards the inputs seasonal reads from outside: remote
// image URLs, paths inside mask directories and untrusted byte streams.
package security

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrSizeLimit is returned when a reader exceeds its byte budget.
var ErrSizeLimit = errors.New("size limit exceeded")

// ValidateHTTPURL checks a URL before an image is fetched from it. Plain http
// is accepted only when allowInsecure is set. Loopback, private and link-local
// hosts are always rejected.
func ValidateHTTPURL(raw string, allowInsecure bool) error {
	if raw == "" {
		return errors.New("empty URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch scheme := strings.ToLower(u.Scheme); {
	case scheme == "https":
	case scheme == "http" && allowInsecure:
	case scheme == "http":
		return fmt.Errorf("insecure URL %q (allow plain http explicitly)", raw)
	default:
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errors.New("URL must have a hostname")
	}
	if internalHost(host) {
		return fmt.Errorf("URL cannot point to local or private hosts: %s", host)
	}
	return nil
}

func internalHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}

// ValidateFilePath checks that name is a relative path that stays inside
// baseDir once joined to it.
func ValidateFilePath(name, baseDir string) error {
	switch {
	case name == "":
		return errors.New("empty file path")
	case filepath.IsAbs(name):
		return fmt.Errorf("absolute file path not allowed: %s", name)
	case !filepath.IsLocal(name):
		return fmt.Errorf("file path %q escapes %s", name, baseDir)
	}
	return nil
}

// LimitedReader reads at most a fixed number of bytes. Unlike io.LimitReader
// it reports ErrSizeLimit when more data follows, so oversized downloads and
// decompression bombs are errors rather than silently truncated input.
type LimitedReader struct {
	r         io.Reader
	remaining int64
}

// NewLimitedReader wraps r with a budget of maxBytes.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{r: r, remaining: maxBytes}
}

func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, ErrSizeLimit
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
