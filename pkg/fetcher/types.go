// Package fetcher orchestrates one statistics run's record fetch:
// paginate the killboard list, reconcile each page against the record
// cache, drain cache misses through the detail endpoint, and persist
// page by page.
//
// The run is strictly sequential: one outstanding request at a time,
// with explicit delays between requests, because the upstreams
// rate-limit aggressively. States per run:
//
//	Idle -> Paging -> Draining misses -> Paging -> ... -> Done
//
// An empty list page ends the run. A page-level fetch failure aborts
// the whole run; a single record's detail failure only drops that
// record (it stays uncached and is retried next run).
//
// Example usage:
//
//	f := fetcher.New(fetcher.Config{...}, listClient, detailClient, store, log)
//	records, err := f.Fetch(ctx, query)
package fetcher

import (
	"context"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/zkill"
)

// Fetcher produces the full record stream for one query.
type Fetcher interface {
	// Fetch paginates the list endpoint and reconciles every summary
	// against the cache, fetching details for misses.
	//
	// Parameters:
	//   - ctx: Context for all requests in the run
	//   - q: Corporation-month query
	//
	// Returns:
	//   - Records in (page, position-in-page) order; records whose
	//     detail fetch failed are absent, not retried
	//   - Error if a list page could not be fetched (whole run aborts)
	Fetch(ctx context.Context, q zkill.Query) ([]killmail.Killmail, error)
}

// Progress reports fetch progress to an observer (e.g. a progress bar).
// Any field may be zero on intermediate updates.
type Progress struct {
	// Page is the list page just fetched (1-indexed).
	Page int

	// Summaries is the number of summaries on that page.
	Summaries int

	// Hits is the running count of cache hits.
	Hits int

	// Fetched is the running count of detail fetches that succeeded.
	Fetched int

	// Skipped is the running count of records dropped after a failed
	// detail fetch.
	Skipped int
}

// Config contains fetcher configuration.
type Config struct {
	// PageDelay is the fixed delay before each page after the first.
	// Default: 2s.
	PageDelay time.Duration

	// DetailDelay is the base delay before each detail fetch.
	// Default: 100ms.
	DetailDelay time.Duration

	// DetailJitter is the random extra delay on top of DetailDelay.
	// Default: 100ms.
	DetailJitter time.Duration

	// Sleep suspends the run between requests. Defaults to time.Sleep;
	// injectable so tests run instantly.
	Sleep func(time.Duration)

	// Jitter returns a random duration in [0, d). Defaults to
	// math/rand; injectable for deterministic tests.
	Jitter func(d time.Duration) time.Duration

	// OnProgress, when set, is called after each page is reconciled.
	OnProgress func(Progress)
}
