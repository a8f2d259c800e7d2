package m3u

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Config holds playlist source configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Source downloads playlist documents over HTTP. A failed request is
// returned to the caller as-is; there is no retry.
type Source struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// New creates a new playlist source.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    logger.With("component", "source"),
	}
}

// Fetch retrieves the document at rawURL. Errors never contain the URL:
// provider URLs usually carry credentials in the query string.
func (s *Source) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", stripURL(err))
	}

	req.Header.Set("Accept", "audio/x-mpegurl, application/vnd.apple.mpegurl, */*")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	s.logger.Debug("fetched playlist",
		"bytes", len(body),
		"duration", time.Since(start),
	)

	return body, nil
}

// stripURL drops the request URL from a *url.Error and keeps the operation
// and the underlying cause.
func stripURL(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
}
