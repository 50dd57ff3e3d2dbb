package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/solfarin/killstats/pkg/logger"
)

// nameEntry mirrors one element of the name batch response.
type nameEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// resolver implements NameResolver with an in-process tier over a
// persisted NameCache.
type resolver struct {
	config Config
	http   *http.Client
	cache  NameCache
	logger logger.Logger

	// memory is the in-process tier; single-goroutine pipeline, no lock.
	memory map[int64]string
}

// NewResolver creates a batched, cached name resolver.
//
// Parameters:
//   - cfg: Client configuration
//   - nameCache: Persisted name cache (bolt-backed in production)
//   - log: Logger instance
//
// Returns:
//   - Configured NameResolver
//   - Error if base URL or user agent is missing
func NewResolver(cfg Config, nameCache NameCache, log logger.Logger) (NameResolver, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.UserAgent == "" {
		return nil, ErrMissingUserAgent
	}

	// Set defaults.
	if cfg.NameTimeout == 0 {
		cfg.NameTimeout = 60 * time.Second
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > 1000 {
		cfg.BatchSize = 1000
	}

	return &resolver{
		config: cfg,
		http: &http.Client{
			Timeout: cfg.NameTimeout,
		},
		cache:  nameCache,
		logger: log,
		memory: make(map[int64]string),
	}, nil
}

// ResolveNames implements NameResolver.ResolveNames.
func (r *resolver) ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	result := make(map[int64]string)

	// Tier 1: in-process cache.
	var missing []int64
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true

		if name, ok := r.memory[id]; ok {
			result[id] = name
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return result, nil
	}

	// Tier 2: persisted cache.
	cached, err := r.cache.Get(missing)
	if err != nil {
		return nil, fmt.Errorf("failed to read name cache: %w", err)
	}
	remaining := missing[:0]
	for _, id := range missing {
		if name, ok := cached[id]; ok {
			result[id] = name
			r.memory[id] = name
		} else {
			remaining = append(remaining, id)
		}
	}

	// Tier 3: upstream, in batches no larger than the ceiling.
	// Sorted so batch composition is deterministic.
	sort.Slice(remaining, func(i, j int) bool { return remaining[i] < remaining[j] })

	for start := 0; start < len(remaining); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(remaining) {
			end = len(remaining)
		}
		batch := remaining[start:end]

		resolved := r.resolveBatch(ctx, batch)
		if len(resolved) == 0 {
			continue
		}

		for id, name := range resolved {
			result[id] = name
			r.memory[id] = name
		}

		// Merge into the persisted cache after every batch, so a
		// failure later in the run does not lose earlier batches.
		if putErr := r.cache.Put(resolved); putErr != nil {
			r.logger.Warn("failed to persist resolved names", "error", putErr)
		}
	}

	return result, nil
}

// resolveBatch issues one name batch call.
//
// Never fails: an upstream error is logged and an empty map returned,
// leaving the batch's IDs unresolved for the caller to synthesize.
func (r *resolver) resolveBatch(ctx context.Context, ids []int64) map[int64]string {
	body, err := json.Marshal(ids)
	if err != nil {
		r.logger.Error("failed to marshal name batch", "error", err)
		return nil
	}

	url := strings.TrimRight(r.config.BaseURL, "/") + "/universe/names/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		r.logger.Error("failed to build name batch request", "error", err)
		return nil
	}
	req.Header.Set("User-Agent", r.config.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Warn("name batch request failed", "ids", len(ids), "error", err)
		return nil
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			r.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("name batch rejected",
			"ids", len(ids),
			"status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logger.Warn("failed to read name batch response", "error", err)
		return nil
	}

	var entries []nameEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("failed to decode name batch response", "error", err)
		return nil
	}

	// Only character entries count; the endpoint also returns
	// corporations, alliances, and types for mixed ID sets.
	names := make(map[int64]string)
	for _, entry := range entries {
		if entry.Category != "character" {
			continue
		}
		names[entry.ID] = entry.Name
	}

	return names
}
