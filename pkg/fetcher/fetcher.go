package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/solfarin/killstats/pkg/cache"
	"github.com/solfarin/killstats/pkg/esi"
	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
	"github.com/solfarin/killstats/pkg/zkill"
)

// fetcher implements the Fetcher interface.
type fetcher struct {
	config Config
	list   zkill.Client
	detail esi.DetailClient
	store  cache.Store
	logger logger.Logger
}

// New creates a new fetch orchestrator.
//
// Parameters:
//   - cfg: Pacing configuration
//   - list: Killboard list client
//   - detail: Killmail detail client
//   - store: Record cache
//   - log: Logger instance
//
// Returns a configured Fetcher.
func New(cfg Config, list zkill.Client, detail esi.DetailClient, store cache.Store, log logger.Logger) Fetcher {
	// Set defaults.
	if cfg.PageDelay == 0 {
		cfg.PageDelay = 2 * time.Second
	}
	if cfg.DetailDelay == 0 {
		cfg.DetailDelay = 100 * time.Millisecond
	}
	if cfg.DetailJitter == 0 {
		cfg.DetailJitter = 100 * time.Millisecond
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.Jitter == nil {
		cfg.Jitter = func(d time.Duration) time.Duration {
			return time.Duration(rand.Int63n(int64(d)))
		}
	}

	return &fetcher{
		config: cfg,
		list:   list,
		detail: detail,
		store:  store,
		logger: log,
	}
}

// Fetch implements Fetcher.Fetch.
func (f *fetcher) Fetch(ctx context.Context, q zkill.Query) ([]killmail.Killmail, error) {
	partition := q.Partition()
	if err := partition.Validate(); err != nil {
		return nil, err
	}

	cached, err := f.store.Get(partition)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache partition %s: %w", partition, err)
	}

	f.logger.Info("starting fetch",
		"partition", partition.String(),
		"cached", len(cached))

	var (
		records  []killmail.Killmail
		progress Progress
	)

	// IDs already reconciled this run. Page boundaries shift when new
	// kills arrive mid-pagination, so a summary can reappear on a
	// later page; it must enter the result stream only once.
	seen := make(map[int64]bool)

	for page := 1; ; page++ {
		if page > 1 {
			// Fixed inter-page delay, whether or not the previous
			// page had misses.
			f.config.Sleep(f.config.PageDelay)
		}

		summaries, err := f.list.FetchPage(ctx, q, page)
		if err != nil {
			// Pagination integrity is gone; under-reporting would be
			// worse than failing, so the whole run aborts.
			return nil, err
		}

		// An empty page is the sole termination signal. Short pages
		// mean nothing: the killboard pads some responses.
		if len(summaries) == 0 {
			f.logger.Info("fetch complete",
				"partition", partition.String(),
				"pages", page-1,
				"records", len(records),
				"skipped", progress.Skipped)
			break
		}

		pageRecords, fresh := f.drainPage(ctx, summaries, cached, seen, &progress)

		// Persist the page's misses before advancing: a crash from
		// here on loses at most the in-flight page.
		if len(fresh) > 0 {
			if err := f.store.Put(partition, fresh); err != nil {
				return nil, fmt.Errorf("failed to persist cache partition %s: %w", partition, err)
			}
			for id, km := range fresh {
				cached[id] = km
			}
		}

		records = append(records, pageRecords...)

		progress.Page = page
		progress.Summaries = len(summaries)
		if f.config.OnProgress != nil {
			f.config.OnProgress(progress)
		}
	}

	return records, nil
}

// drainPage reconciles one page of summaries against the cache,
// fetching details for misses. Returns the page's records in page
// order and the newly fetched records to persist. Summaries whose ID
// was already reconciled this run are dropped: the record stream must
// carry each ID at most once, or the aggregation double-counts.
func (f *fetcher) drainPage(
	ctx context.Context,
	summaries []killmail.Summary,
	cached map[int64]killmail.Killmail,
	seen map[int64]bool,
	progress *Progress,
) ([]killmail.Killmail, map[int64]killmail.Killmail) {
	records := make([]killmail.Killmail, 0, len(summaries))
	fresh := make(map[int64]killmail.Killmail)

	for _, sum := range summaries {
		if seen[sum.ID] {
			f.logger.Debug("summary repeated across pages", "id", sum.ID)
			continue
		}
		// Marked before the outcome is known: a failed detail fetch
		// is not retried within the same run.
		seen[sum.ID] = true

		if km, ok := cached[sum.ID]; ok {
			records = append(records, km)
			progress.Hits++
			continue
		}

		// Jittered delay before every miss fetch, per the upstream's
		// rate-limit guidance.
		f.config.Sleep(f.config.DetailDelay + f.config.Jitter(f.config.DetailJitter))

		km, err := f.detail.FetchKillmail(ctx, sum)
		if err != nil {
			// Non-fatal: the record stays uncached and is retried on
			// the next run.
			if errors.Is(err, esi.ErrNotFound) {
				f.logger.Warn("killmail not found upstream", "id", sum.ID)
			} else {
				f.logger.Warn("detail fetch failed, skipping record",
					"id", sum.ID,
					"error", err)
			}
			progress.Skipped++
			continue
		}

		records = append(records, km)
		fresh[km.ID] = km
		progress.Fetched++
	}

	return records, fresh
}
