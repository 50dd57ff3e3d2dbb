// Package cache provides the persisted killmail record cache.
//
// Records are immutable by identity (the killboard never rewrites a
// killmail once it has an ID and hash), so a cache hit is always valid
// and entries are never invalidated. The cache is partitioned by
// (corporation, period, filters, kind); a partition is append-only
// during a run.
//
// Example usage:
//
//	store := cache.NewBoltStore(db)
//	p := cache.Partition{CorporationID: 98626718, Year: 2026, Month: 1, Kind: cache.KindKills}
//	records, err := store.Get(p)
package cache

import (
	"fmt"

	"github.com/solfarin/killstats/pkg/killmail"
)

// Kind selects which side of the killboard a partition covers.
type Kind string

const (
	// KindKills covers records where the corporation is an attacker.
	KindKills Kind = "kills"

	// KindLosses covers records where the corporation is the victim.
	KindLosses Kind = "losses"
)

// Partition identifies one cache unit: a corporation, a calendar
// month, the killboard filter flags, and the record kind.
type Partition struct {
	CorporationID int64
	Year          int
	Month         int
	Kind          Kind
	Solo          bool
	Wspace        bool
}

// String returns the canonical partition name used as the storage key,
// e.g. "kills:98626718:2026-01:solo".
func (p Partition) String() string {
	name := fmt.Sprintf("%s:%d:%04d-%02d", p.Kind, p.CorporationID, p.Year, p.Month)
	if p.Solo {
		name += ":solo"
	}
	if p.Wspace {
		name += ":wspace"
	}
	return name
}

// Validate checks partition invariants.
func (p Partition) Validate() error {
	if p.CorporationID <= 0 {
		return ErrInvalidPartition
	}
	if p.Year < 2003 || p.Month < 1 || p.Month > 12 {
		return ErrInvalidPartition
	}
	if p.Kind != KindKills && p.Kind != KindLosses {
		return ErrInvalidPartition
	}
	return nil
}

// Store persists killmail records keyed by partition.
//
// Get never fails on an absent partition: it returns an empty map.
// Put merges the given records into the partition and is durable
// before it returns; existing IDs are never rewritten (records are
// content-addressed by ID, so a rewrite would be a no-op anyway).
type Store interface {
	// Get returns all cached records for a partition.
	//
	// Parameters:
	//   - p: Partition to read
	//
	// Returns:
	//   - Mapping from record ID to record; empty if partition absent
	//   - Error only on storage failure
	Get(p Partition) (map[int64]killmail.Killmail, error)

	// Put merges records into the partition and persists them.
	//
	// Parameters:
	//   - p: Partition to write
	//   - records: Records to merge, keyed by record ID
	//
	// Returns error if the write cannot be made durable.
	Put(p Partition, records map[int64]killmail.Killmail) error
}
