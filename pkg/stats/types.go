// Package stats folds killmail records into per-character and
// per-ship-type running statistics.
//
// Two independent aggregations share one record stream: kill
// aggregation credits the tracked corporation's attackers, loss
// aggregation charges its victims. Records whose victim flew the
// escape pod are excluded from everything.
//
// Aggregation is idempotent only if each record is processed at most
// once per run; there is no de-duplication by record ID here. The
// fetcher guarantees uniqueness, because its record stream is keyed by
// cached record IDs.
//
// Example usage:
//
//	ks := stats.NewKillStats(stats.Config{
//	    CorporationID:   98626718,
//	    EscapePodTypeID: 670,
//	    ShipName:        shipnames.Default(),
//	}, log)
//	for _, km := range records {
//	    ks.ProcessRecord(km)
//	}
//	top := ks.RankParticipants(stats.RankByKills, 10)
package stats

import (
	"time"

	"github.com/solfarin/killstats/pkg/shipnames"
)

// RankKey selects the ordering for participant rankings.
type RankKey string

const (
	// RankByKills orders by cumulative kill count (kill side default).
	RankByKills RankKey = "kills"

	// RankByFinalBlows orders by finishing-blow count.
	RankByFinalBlows RankKey = "finalblows"

	// RankByLosses orders by cumulative loss count (loss side default).
	RankByLosses RankKey = "losses"

	// RankByValue orders by cumulative destroyed value.
	RankByValue RankKey = "value"
)

// ParticipantStats is one character's running kill aggregate.
//
// Mutated only by KillStats.ProcessRecord, monotonically: counts never
// decrease within a run. Lifetime is one aggregation run.
type ParticipantStats struct {
	CharacterID int64
	Name        string

	// Kills is the cumulative kill count.
	Kills int

	// FinalBlows is the cumulative finishing-blow count.
	FinalBlows int

	// Ships maps ship type name to per-type kill count.
	Ships map[string]int

	// Signature is the count of distinct ship types ever used.
	Signature int
}

// ShipTypeStats is one ship type's running kill aggregate.
type ShipTypeStats struct {
	TypeID int64
	Name   string

	// Kills is the cumulative kill count.
	Kills int

	// ByCharacter maps character ID to per-character count.
	ByCharacter map[int64]int
}

// LossParticipantStats is one character's running loss aggregate.
type LossParticipantStats struct {
	CharacterID int64
	Name        string

	// Losses is the cumulative loss count.
	Losses int

	// DestroyedValue is the cumulative estimated value destroyed.
	DestroyedValue float64

	// DamageTaken is the cumulative damage taken.
	DamageTaken int64

	// Ships maps ship type name to per-type loss count.
	Ships map[string]int

	// Signature is the count of distinct ship types ever lost.
	Signature int
}

// LossShipTypeStats is one ship type's running loss aggregate.
type LossShipTypeStats struct {
	TypeID int64
	Name   string

	// Losses is the cumulative loss count.
	Losses int

	// DestroyedValue is the cumulative estimated value destroyed.
	DestroyedValue float64

	// DamageTaken is the cumulative damage taken.
	DamageTaken int64

	// ByCharacter maps character ID to per-character count.
	ByCharacter map[int64]int
}

// ShipBreakdown is one row of a participant's per-ship breakdown.
type ShipBreakdown struct {
	Name  string
	Count int
}

// Summary describes one aggregation run.
type Summary struct {
	// TotalRecords is the count of processed, non-excluded records.
	TotalRecords int

	// Participants is the number of distinct tracked characters seen.
	Participants int

	// ShipTypes is the number of distinct ship types seen.
	ShipTypes int

	// LastActivity is the timestamp of the newest processed record.
	LastActivity time.Time
}

// Config contains aggregation configuration, shared by both sides.
type Config struct {
	// CorporationID is the tracked corporation.
	CorporationID int64

	// EscapePodTypeID is the ship type excluded from all statistics.
	EscapePodTypeID int64

	// Names is the pre-loaded name resolution mapping. May be nil;
	// unresolved participants fall back to the record's embedded name
	// as "<name> (<id>)", then to "Character_<id>".
	Names map[int64]string

	// ShipName translates ship type IDs to display names.
	// Required; typically shipnames.Default().
	ShipName shipnames.Resolver
}
