package esi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
)

// detailClient implements DetailClient over net/http.
type detailClient struct {
	config Config
	http   *http.Client
	logger logger.Logger
}

// NewDetailClient creates a killmail detail client.
//
// Parameters:
//   - cfg: Client configuration
//   - log: Logger instance
//
// Returns:
//   - Configured DetailClient
//   - Error if base URL or user agent is missing
func NewDetailClient(cfg Config, log logger.Logger) (DetailClient, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.UserAgent == "" {
		return nil, ErrMissingUserAgent
	}
	if cfg.DetailTimeout == 0 {
		cfg.DetailTimeout = 30 * time.Second
	}

	return &detailClient{
		config: cfg,
		http: &http.Client{
			Timeout: cfg.DetailTimeout,
		},
		logger: log,
	}, nil
}

// FetchKillmail implements DetailClient.FetchKillmail.
func (c *detailClient) FetchKillmail(ctx context.Context, sum killmail.Summary) (killmail.Killmail, error) {
	url := fmt.Sprintf("%s/killmails/%d/%s/",
		strings.TrimRight(c.config.BaseURL, "/"), sum.ID, sum.Hash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return killmail.Killmail{}, fmt.Errorf("%w: %v", ErrDetailFetch, err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return killmail.Killmail{}, fmt.Errorf("%w: %v", ErrDetailFetch, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return killmail.Killmail{}, fmt.Errorf("%w: killmail %d", ErrNotFound, sum.ID)
	case resp.StatusCode != http.StatusOK:
		return killmail.Killmail{}, fmt.Errorf("%w: killmail %d: unexpected status %d",
			ErrDetailFetch, sum.ID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return killmail.Killmail{}, fmt.Errorf("%w: killmail %d: %v", ErrDetailFetch, sum.ID, err)
	}

	km, err := killmail.DecodeDetail(body, sum)
	if err != nil {
		return killmail.Killmail{}, fmt.Errorf("%w: %v", ErrDetailFetch, err)
	}

	return km, nil
}
