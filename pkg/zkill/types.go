// Package zkill provides the killboard list API client.
//
// The killboard exposes monthly, corporation-scoped kill and loss
// lists as 1-indexed pages. An empty page is the sole end-of-data
// signal; short pages mean nothing because the killboard pads some
// responses. Transient failures (connect errors, 429, 5xx) are
// retried with linear backoff before the page is reported as failed,
// which aborts the whole run.
//
// Example usage:
//
//	client := zkill.New(zkill.Config{
//	    BaseURL:   cfg.Endpoints.ZKillBase,
//	    UserAgent: cfg.Endpoints.UserAgent,
//	}, log)
//	summaries, err := client.FetchPage(ctx, query, 1)
package zkill

import (
	"context"
	"time"

	"github.com/solfarin/killstats/pkg/cache"
	"github.com/solfarin/killstats/pkg/killmail"
)

// Query selects one corporation-month list, mirroring a cache partition.
type Query struct {
	CorporationID int64
	Year          int
	Month         int
	Kind          cache.Kind
	Solo          bool
	Wspace        bool
}

// Partition returns the cache partition this query populates.
func (q Query) Partition() cache.Partition {
	return cache.Partition{
		CorporationID: q.CorporationID,
		Year:          q.Year,
		Month:         q.Month,
		Kind:          q.Kind,
		Solo:          q.Solo,
		Wspace:        q.Wspace,
	}
}

// Client fetches killboard list pages.
type Client interface {
	// FetchPage fetches one 1-indexed list page.
	//
	// Parameters:
	//   - ctx: Context for the request
	//   - q: Corporation-month query
	//   - page: Page number, starting at 1
	//
	// Returns:
	//   - Record summaries in page order; empty means end of pages
	//   - ErrPageFetch (wrapping the cause) once retries are exhausted
	FetchPage(ctx context.Context, q Query, page int) ([]killmail.Summary, error)
}

// Config contains list client configuration.
type Config struct {
	// BaseURL is the killboard API root, e.g. "https://zkillboard.com/api".
	BaseURL string

	// UserAgent is sent on every request. The killboard rejects
	// anonymous clients, so this must be set.
	UserAgent string

	// Timeout bounds each HTTP request.
	// Default: 30s.
	Timeout time.Duration

	// RetryAttempts is the number of tries per page.
	// Default: 3.
	RetryAttempts int

	// RetryBackoff is the backoff step; attempt n sleeps n * RetryBackoff.
	// Default: 1s.
	RetryBackoff time.Duration

	// Sleep suspends between retries. Defaults to time.Sleep;
	// injectable so tests run instantly.
	Sleep func(time.Duration)
}
