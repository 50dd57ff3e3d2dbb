// Package esi provides the game-data API clients: full killmail
// detail fetches and batched character name resolution.
//
// Name resolution is two-tier cached (in-process map, then a persisted
// bucket) and batched at the upstream ceiling of 1000 IDs per call.
// A failed batch is logged and yields no entries; callers synthesize
// fallback display names for anything left unresolved.
//
// Example usage:
//
//	resolver := esi.NewResolver(esi.Config{...}, nameCache, log)
//	names, _ := resolver.ResolveNames(ctx, ids)
package esi

import (
	"context"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
)

// DetailClient fetches full killmail records.
type DetailClient interface {
	// FetchKillmail fetches the full record for a summary.
	//
	// Parameters:
	//   - ctx: Context for the request
	//   - sum: Record identity (ID + hash) plus killboard metadata
	//
	// Returns:
	//   - The full record with summary metadata attached
	//   - ErrNotFound if the upstream reports no such record (404)
	FetchKillmail(ctx context.Context, sum killmail.Summary) (killmail.Killmail, error)
}

// NameResolver translates character IDs to display names.
type NameResolver interface {
	// ResolveNames resolves character names for a set of IDs.
	//
	// IDs found in neither cache tier are batched into groups no
	// larger than the configured batch size and resolved upstream.
	// Only entries whose category is "character" are kept; a failed
	// batch contributes nothing. IDs that remain unresolved are
	// simply absent from the result, never an error.
	//
	// Parameters:
	//   - ctx: Context for upstream requests
	//   - ids: Character IDs to resolve (duplicates tolerated)
	//
	// Returns:
	//   - Mapping from ID to display name; possibly partial
	//   - Error only on storage failure, never on batch failure
	ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// NameCache persists resolved character names.
//
// Names are immutable enough for this tool's purposes (a rename is
// rare and cosmetic), so entries are never invalidated, and Put merges
// rather than overwriting.
type NameCache interface {
	// Get returns the cached names for the given IDs.
	// IDs with no cached name are absent from the result.
	Get(ids []int64) (map[int64]string, error)

	// Put merges resolved names into the cache.
	Put(names map[int64]string) error
}

// Config contains ESI client configuration, shared by the detail
// client and the name resolver.
type Config struct {
	// BaseURL is the game-data API root, e.g. "https://esi.evetech.net/latest".
	BaseURL string

	// UserAgent is sent on every request.
	UserAgent string

	// DetailTimeout bounds each detail request.
	// Default: 30s.
	DetailTimeout time.Duration

	// NameTimeout bounds each name batch request.
	// Default: 60s.
	NameTimeout time.Duration

	// BatchSize is the maximum IDs per name batch call.
	// Default (and upstream ceiling): 1000.
	BatchSize int
}
