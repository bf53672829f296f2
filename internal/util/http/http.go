// Package http fetches remote images with a timeout, a size limit and the
// seasonal User-Agent.
package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jmylchreest/seasonal/internal/security"
	"github.com/jmylchreest/seasonal/internal/version"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 32 * 1024 * 1024
)

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// FetchOptions configures Fetch. The zero value uses the defaults.
type FetchOptions struct {
	Timeout  time.Duration
	MaxBytes int64

	// MediaType, when set, is a prefix the response Content-Type must carry,
	// such as "image/".
	MediaType string

	// Client overrides the HTTP client.
	Client *http.Client
}

func (o FetchOptions) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Fetch downloads url and returns the body. Bodies over MaxBytes fail with
// security.ErrSizeLimit.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	if opts.MediaType != "" {
		req.Header.Set("Accept", opts.MediaType+"*")
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Status: resp.Status}
	}
	if opts.MediaType != "" {
		mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
		if !strings.HasPrefix(mt, opts.MediaType) {
			return nil, fmt.Errorf("GET %s: unexpected content type %q", url, mt)
		}
	}

	data, err := io.ReadAll(security.NewLimitedReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
