// Package remote fetches configuration documents over HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/types"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTimeout bounds a whole request, body included
	DefaultTimeout = 15 * time.Second

	maxBodySize = 10 << 20
)

// ErrFetch is returned when the document could not be retrieved
var ErrFetch = errors.New("failed to fetch configuration")

// StatusError reports a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Loader fetches documents. Concurrent loads of the same URL share one request.
type Loader struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	group     singleflight.Group
}

// NewLoader creates a loader. A zero timeout uses DefaultTimeout.
func NewLoader(timeout time.Duration, userAgent string, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger.With("component", "remote"),
	}
}

// Fetch retrieves and parses the document at rawURL.
// Transport failures wrap ErrFetch, bad statuses are *StatusError, and a body
// that is not JSON wraps document.ErrInvalidJSON.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (types.Document, error) {
	if err := validateURL(rawURL); err != nil {
		return types.Document{}, err
	}

	// The shared request outlives any single caller; the client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(rawURL, func() (interface{}, error) {
		return l.fetch(shared, rawURL)
	})

	select {
	case <-ctx.Done():
		return types.Document{}, fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return types.Document{}, res.Err
		}
		if res.Shared {
			l.logger.Debug("shared in-flight load", "url", rawURL)
		}
		return res.Val.(types.Document).Clone(), nil
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (types.Document, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("load failed", "url", rawURL, "error", err)
		return types.Document{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Warn("load failed", "url", rawURL, "status", resp.StatusCode)
		return types.Document{}, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: failed to read response: %v", ErrFetch, err)
	}
	if len(body) > maxBodySize {
		return types.Document{}, fmt.Errorf("%w: response larger than %d bytes", ErrFetch, maxBodySize)
	}

	doc, err := document.Parse(string(body))
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}

	l.logger.Info("loaded configuration", "url", rawURL, "bytes", len(body), "duration", time.Since(start))
	return doc, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid URL: %v", ErrFetch, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported URL scheme %q", ErrFetch, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: URL has no host", ErrFetch)
	}
	return nil
}
