package zkill

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
)

// client implements the Client interface over net/http.
type client struct {
	config Config
	http   *http.Client
	logger logger.Logger
}

// New creates a new killboard list client.
//
// Parameters:
//   - cfg: Client configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Client
//   - Error if base URL or user agent is missing
func New(cfg Config, log logger.Logger) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.UserAgent == "" {
		return nil, ErrMissingUserAgent
	}

	// Set defaults.
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}

	return &client{
		config: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}, nil
}

// FetchPage implements Client.FetchPage.
func (c *client) FetchPage(ctx context.Context, q Query, page int) ([]killmail.Summary, error) {
	url := c.pageURL(q, page)

	var lastErr error
	for attempt := 1; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 1 {
			// Linear backoff: 1s after the first failure, 2s after the second.
			wait := time.Duration(attempt-1) * c.config.RetryBackoff
			c.logger.Warn("retrying list page",
				"url", url,
				"attempt", attempt,
				"wait", wait,
				"error", lastErr)
			c.config.Sleep(wait)
		}

		summaries, err := c.fetchOnce(ctx, url)
		if err == nil {
			return summaries, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
	}

	return nil, fmt.Errorf("%w: page %d of %s: %v", ErrPageFetch, page, q.Partition(), lastErr)
}

// fetchOnce issues a single list request.
func (c *client) fetchOnce(ctx context.Context, url string) ([]killmail.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &transientError{err: err}
		}
		return nil, err
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	return killmail.DecodeSummaries(body)
}

// pageURL builds the killboard list URL:
// {base}/{kind}/corporationID/{id}/[solo/][w-space/]year/{Y}/month/{M}/page/{n}/
func (c *client) pageURL(q Query, page int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s/corporationID/%d/",
		strings.TrimRight(c.config.BaseURL, "/"), q.Kind, q.CorporationID)
	if q.Solo {
		b.WriteString("solo/")
	}
	if q.Wspace {
		b.WriteString("w-space/")
	}
	fmt.Fprintf(&b, "year/%d/month/%d/page/%d/", q.Year, q.Month, page)
	return b.String()
}

// decodeBody reads the response body, gunzipping when the killboard
// honored our Accept-Encoding header. Setting the header by hand
// disables net/http's transparent decompression, so it is done here.
func decodeBody(resp *http.Response) ([]byte, error) {
	reader := resp.Body

	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip reader: %w", err)
		}
		defer gz.Close() // nolint:errcheck
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &transientError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return body, nil
}

// transientError marks failures worth retrying: connect errors,
// truncated bodies, 429, and 5xx responses.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

// retryable reports whether err is worth another attempt.
func retryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
