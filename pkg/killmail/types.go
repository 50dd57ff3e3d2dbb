// Package killmail defines the killmail record model shared by the
// fetch, cache, and statistics layers.
//
// A Killmail is immutable once fetched: the killboard assigns a stable
// (ID, Hash) identity and never rewrites the record, which is what
// makes unbounded caching safe. All downstream consumers treat records
// as read-only.
//
// Example usage:
//
//	km, err := killmail.DecodeDetail(body, id, hash)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("victim ship: %d\n", km.Victim.ShipTypeID)
package killmail

import (
	"time"
)

// Summary is one entry of a killboard list page: the record identity
// needed to fetch (or look up) the full record, plus the killboard's
// economic metadata, which only appears on list rows.
type Summary struct {
	// ID is the killmail ID assigned by the game.
	ID int64

	// Hash is the content hash required by the detail endpoint.
	Hash string

	// TotalValue is the killboard's estimated ISK value of the loss.
	TotalValue float64

	// Solo marks a kill made without assistance.
	Solo bool
}

// Killmail is one destruction event: exactly one victim and zero or
// more attackers, plus killboard economic metadata.
//
// Optional identity fields throughout use 0 / "" to mean absent
// (NPC and structure kills carry no character identity).
//
// Invariant: ID > 0 and Hash non-empty.
// Invariant: Victim.ShipTypeID > 0 (a record always has a victim ship).
type Killmail struct {
	ID            int64      `json:"killmail_id"`
	Hash          string     `json:"hash,omitempty"`
	Time          time.Time  `json:"killmail_time"`
	SolarSystemID int64      `json:"solar_system_id"`
	Victim        Victim     `json:"victim"`
	Attackers     []Attacker `json:"attackers"`

	// Killboard metadata attached from the list row; the detail
	// payload itself carries neither field.
	TotalValue float64 `json:"total_value,omitempty"`
	Solo       bool    `json:"solo,omitempty"`
}

// Victim is the losing side of a killmail.
//
// CharacterID may be 0 for NPC or structure losses; ShipTypeID is
// always set.
type Victim struct {
	CharacterID   int64 `json:"character_id,omitempty"`
	CorporationID int64 `json:"corporation_id,omitempty"`
	AllianceID    int64 `json:"alliance_id,omitempty"`
	ShipTypeID    int64 `json:"ship_type_id"`
	DamageTaken   int64 `json:"damage_taken"`

	// CharacterName is a raw display name occasionally embedded by the
	// killboard; fallback when name resolution yields nothing.
	CharacterName string `json:"character_name,omitempty"`
}

// Attacker is one participant on the winning side.
//
// All identity fields are optional (NPC attackers have no character).
// FinalBlow marks the participant credited with ending the ship; when
// the source data omits the flag for every attacker, position 0 in
// arrival order is treated as the finishing blow (see stats package).
type Attacker struct {
	CharacterID    int64   `json:"character_id,omitempty"`
	CorporationID  int64   `json:"corporation_id,omitempty"`
	AllianceID     int64   `json:"alliance_id,omitempty"`
	ShipTypeID     int64   `json:"ship_type_id,omitempty"`
	WeaponTypeID   int64   `json:"weapon_type_id,omitempty"`
	DamageDone     int64   `json:"damage_done"`
	FinalBlow      bool    `json:"final_blow"`
	SecurityStatus float64 `json:"security_status"`

	// CharacterName is a raw display name occasionally embedded by the
	// killboard; used only as a fallback when batch name resolution
	// comes back empty.
	CharacterName string `json:"character_name,omitempty"`
}

// Validate checks record invariants.
//
// Returns an error if the record identity or victim ship is missing.
func (k *Killmail) Validate() error {
	if k.ID <= 0 {
		return ErrInvalidID
	}
	if k.Hash == "" {
		return ErrMissingHash
	}
	if k.Victim.ShipTypeID <= 0 {
		return ErrMissingVictimShip
	}
	return nil
}

// HasFinalBlow reports whether any attacker carries the final-blow flag.
func (k *Killmail) HasFinalBlow() bool {
	for i := range k.Attackers {
		if k.Attackers[i].FinalBlow {
			return true
		}
	}
	return false
}
