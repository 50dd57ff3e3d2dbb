package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
)

// KillStats folds records into per-character and per-ship kill
// aggregates for one tracked corporation.
//
// Owned by a single goroutine for the duration of one run; no locking.
type KillStats struct {
	config Config
	logger logger.Logger

	totalKills int

	// participants and ships are arenas keyed by stable ID; the order
	// slices record first-seen order for stable ranking tie-breaks.
	participants     map[int64]*ParticipantStats
	participantOrder []int64
	ships            map[int64]*ShipTypeStats
	shipOrder        []int64

	lastActivity time.Time
}

// NewKillStats creates a kill aggregator.
//
// Parameters:
//   - cfg: Aggregation configuration
//   - log: Logger instance
//
// Returns a configured KillStats.
func NewKillStats(cfg Config, log logger.Logger) *KillStats {
	return &KillStats{
		config:       cfg,
		logger:       log,
		participants: make(map[int64]*ParticipantStats),
		ships:        make(map[int64]*ShipTypeStats),
	}
}

// ProcessRecord folds one record into the kill aggregates.
//
// A record whose victim flew the escape pod is excluded entirely: it
// increments nothing, not even the total. Callers must process each
// record at most once per run.
func (s *KillStats) ProcessRecord(km killmail.Killmail) {
	if km.Victim.ShipTypeID == s.config.EscapePodTypeID {
		s.logger.Debug("excluding escape pod record", "id", km.ID)
		return
	}

	s.totalKills++
	if km.Time.After(s.lastActivity) {
		s.lastActivity = km.Time
	}

	escapePodName := s.config.ShipName(s.config.EscapePodTypeID)
	hasFinalBlow := km.HasFinalBlow()

	for i, a := range km.Attackers {
		if a.CorporationID != s.config.CorporationID {
			continue
		}
		if a.CharacterID <= 0 {
			// Corp-owned structures and deployables appear as
			// attackers without a character; nothing to credit.
			continue
		}

		p := s.participant(a)

		// Fallback policy: when the source data omits the flag on
		// every attacker, position 0 in arrival order gets the credit.
		finalBlow := a.FinalBlow || (!hasFinalBlow && i == 0)

		shipName := s.config.ShipName(a.ShipTypeID)
		if shipName == escapePodName {
			// A pod pilot is not credited with the kill, but a
			// finishing blow still counts.
			if finalBlow {
				p.FinalBlows++
			}
			continue
		}

		p.Kills++
		if p.Ships[shipName] == 0 {
			p.Signature++
		}
		p.Ships[shipName]++
		if finalBlow {
			p.FinalBlows++
		}

		st := s.shipType(a.ShipTypeID, shipName)
		st.Kills++
		st.ByCharacter[a.CharacterID]++
	}
}

// participant returns the attacker's aggregate, creating it on first sight.
func (s *KillStats) participant(a killmail.Attacker) *ParticipantStats {
	if p, ok := s.participants[a.CharacterID]; ok {
		return p
	}

	p := &ParticipantStats{
		CharacterID: a.CharacterID,
		Name:        displayName(s.config.Names, a.CharacterID, a.CharacterName),
		Ships:       make(map[string]int),
	}
	s.participants[a.CharacterID] = p
	s.participantOrder = append(s.participantOrder, a.CharacterID)

	return p
}

// shipType returns the ship type's aggregate, creating it on first sight.
func (s *KillStats) shipType(typeID int64, name string) *ShipTypeStats {
	if st, ok := s.ships[typeID]; ok {
		return st
	}

	st := &ShipTypeStats{
		TypeID:      typeID,
		Name:        name,
		ByCharacter: make(map[int64]int),
	}
	s.ships[typeID] = st
	s.shipOrder = append(s.shipOrder, typeID)

	return st
}

// RankParticipants returns participants ranked by the given key,
// descending, truncated to limit (0 = no limit).
//
// Ties keep their first-seen relative order.
func (s *KillStats) RankParticipants(key RankKey, limit int) []ParticipantStats {
	ranked := make([]ParticipantStats, 0, len(s.participantOrder))
	for _, id := range s.participantOrder {
		ranked = append(ranked, copyParticipant(s.participants[id]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		switch key {
		case RankByFinalBlows:
			return ranked[i].FinalBlows > ranked[j].FinalBlows
		default:
			return ranked[i].Kills > ranked[j].Kills
		}
	})

	return truncate(ranked, limit)
}

// RankShips returns ship types ranked by total kill count descending,
// truncated to limit (0 = no limit). Ties keep first-seen order.
func (s *KillStats) RankShips(limit int) []ShipTypeStats {
	ranked := make([]ShipTypeStats, 0, len(s.shipOrder))
	for _, id := range s.shipOrder {
		ranked = append(ranked, copyShipType(s.ships[id]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Kills > ranked[j].Kills
	})

	return truncate(ranked, limit)
}

// ParticipantShips returns one participant's per-ship breakdown,
// sorted by count descending (name ascending on ties).
//
// Returns nil for an unknown participant.
func (s *KillStats) ParticipantShips(characterID int64) []ShipBreakdown {
	p, ok := s.participants[characterID]
	if !ok {
		return nil
	}

	return shipBreakdown(p.Ships)
}

// Summary returns the run's totals.
func (s *KillStats) Summary() Summary {
	return Summary{
		TotalRecords: s.totalKills,
		Participants: len(s.participants),
		ShipTypes:    len(s.ships),
		LastActivity: s.lastActivity,
	}
}

// TotalKills returns the count of processed, non-excluded records.
func (s *KillStats) TotalKills() int {
	return s.totalKills
}

// displayName resolves a participant's display name.
//
// Priority: pre-loaded resolution mapping, then the raw name embedded
// in the record as "<name> (<id>)", then "Character_<id>".
func displayName(names map[int64]string, characterID int64, rawName string) string {
	if name, ok := names[characterID]; ok {
		return name
	}
	if rawName != "" {
		return fmt.Sprintf("%s (%d)", rawName, characterID)
	}
	return fmt.Sprintf("Character_%d", characterID)
}

// shipBreakdown converts a ship count map to sorted rows.
func shipBreakdown(ships map[string]int) []ShipBreakdown {
	rows := make([]ShipBreakdown, 0, len(ships))
	for name, count := range ships {
		rows = append(rows, ShipBreakdown{Name: name, Count: count})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// truncate returns the first limit elements (0 = all).
func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && limit < len(rows) {
		return rows[:limit]
	}
	return rows
}

// copyParticipant returns a detached copy safe for callers to hold.
func copyParticipant(p *ParticipantStats) ParticipantStats {
	c := *p
	c.Ships = make(map[string]int, len(p.Ships))
	for name, count := range p.Ships {
		c.Ships[name] = count
	}
	return c
}

// copyShipType returns a detached copy safe for callers to hold.
func copyShipType(st *ShipTypeStats) ShipTypeStats {
	c := *st
	c.ByCharacter = make(map[int64]int, len(st.ByCharacter))
	for id, count := range st.ByCharacter {
		c.ByCharacter[id] = count
	}
	return c
}
