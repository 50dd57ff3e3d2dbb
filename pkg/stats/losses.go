package stats

import (
	"sort"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
)

// LossStats folds records into per-character and per-ship loss
// aggregates for one tracked corporation. Mirror of KillStats, keyed
// on the victim side and additionally accumulating destroyed value and
// damage taken.
//
// Owned by a single goroutine for the duration of one run; no locking.
type LossStats struct {
	config Config
	logger logger.Logger

	totalLosses int

	participants     map[int64]*LossParticipantStats
	participantOrder []int64
	ships            map[int64]*LossShipTypeStats
	shipOrder        []int64

	lastActivity time.Time
}

// NewLossStats creates a loss aggregator.
//
// Parameters:
//   - cfg: Aggregation configuration
//   - log: Logger instance
//
// Returns a configured LossStats.
func NewLossStats(cfg Config, log logger.Logger) *LossStats {
	return &LossStats{
		config:       cfg,
		logger:       log,
		participants: make(map[int64]*LossParticipantStats),
		ships:        make(map[int64]*LossShipTypeStats),
	}
}

// ProcessRecord folds one record into the loss aggregates.
//
// Only records whose victim belongs to the tracked corporation count.
// A pod loss is excluded entirely. Destroyed value defaults to 0 when
// the killboard reported none. Callers must process each record at
// most once per run.
func (s *LossStats) ProcessRecord(km killmail.Killmail) {
	if km.Victim.CorporationID != s.config.CorporationID {
		return
	}
	if km.Victim.ShipTypeID == s.config.EscapePodTypeID {
		s.logger.Debug("excluding escape pod record", "id", km.ID)
		return
	}

	s.totalLosses++
	if km.Time.After(s.lastActivity) {
		s.lastActivity = km.Time
	}

	shipName := s.config.ShipName(km.Victim.ShipTypeID)

	st := s.shipType(km.Victim.ShipTypeID, shipName)
	st.Losses++
	st.DestroyedValue += km.TotalValue
	st.DamageTaken += km.Victim.DamageTaken

	if km.Victim.CharacterID <= 0 {
		// Structure losses carry no pilot; they still count toward
		// totals and the ship type.
		return
	}

	p := s.participant(km.Victim)
	p.Losses++
	p.DestroyedValue += km.TotalValue
	p.DamageTaken += km.Victim.DamageTaken
	if p.Ships[shipName] == 0 {
		p.Signature++
	}
	p.Ships[shipName]++

	st.ByCharacter[km.Victim.CharacterID]++
}

// participant returns the victim's aggregate, creating it on first sight.
func (s *LossStats) participant(v killmail.Victim) *LossParticipantStats {
	if p, ok := s.participants[v.CharacterID]; ok {
		return p
	}

	p := &LossParticipantStats{
		CharacterID: v.CharacterID,
		Name:        displayName(s.config.Names, v.CharacterID, v.CharacterName),
		Ships:       make(map[string]int),
	}
	s.participants[v.CharacterID] = p
	s.participantOrder = append(s.participantOrder, v.CharacterID)

	return p
}

// shipType returns the ship type's aggregate, creating it on first sight.
func (s *LossStats) shipType(typeID int64, name string) *LossShipTypeStats {
	if st, ok := s.ships[typeID]; ok {
		return st
	}

	st := &LossShipTypeStats{
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
func (s *LossStats) RankParticipants(key RankKey, limit int) []LossParticipantStats {
	ranked := make([]LossParticipantStats, 0, len(s.participantOrder))
	for _, id := range s.participantOrder {
		ranked = append(ranked, copyLossParticipant(s.participants[id]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		switch key {
		case RankByValue:
			return ranked[i].DestroyedValue > ranked[j].DestroyedValue
		default:
			return ranked[i].Losses > ranked[j].Losses
		}
	})

	return truncate(ranked, limit)
}

// RankShips returns ship types ranked by total loss count descending,
// truncated to limit (0 = no limit). Ties keep first-seen order.
func (s *LossStats) RankShips(limit int) []LossShipTypeStats {
	ranked := make([]LossShipTypeStats, 0, len(s.shipOrder))
	for _, id := range s.shipOrder {
		ranked = append(ranked, copyLossShipType(s.ships[id]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Losses > ranked[j].Losses
	})

	return truncate(ranked, limit)
}

// ParticipantShips returns one participant's per-ship breakdown,
// sorted by count descending (name ascending on ties).
//
// Returns nil for an unknown participant.
func (s *LossStats) ParticipantShips(characterID int64) []ShipBreakdown {
	p, ok := s.participants[characterID]
	if !ok {
		return nil
	}

	return shipBreakdown(p.Ships)
}

// Summary returns the run's totals.
func (s *LossStats) Summary() Summary {
	return Summary{
		TotalRecords: s.totalLosses,
		Participants: len(s.participants),
		ShipTypes:    len(s.ships),
		LastActivity: s.lastActivity,
	}
}

// TotalLosses returns the count of processed, non-excluded records.
func (s *LossStats) TotalLosses() int {
	return s.totalLosses
}

// copyLossParticipant returns a detached copy safe for callers to hold.
func copyLossParticipant(p *LossParticipantStats) LossParticipantStats {
	c := *p
	c.Ships = make(map[string]int, len(p.Ships))
	for name, count := range p.Ships {
		c.Ships[name] = count
	}
	return c
}

// copyLossShipType returns a detached copy safe for callers to hold.
func copyLossShipType(st *LossShipTypeStats) LossShipTypeStats {
	c := *st
	c.ByCharacter = make(map[int64]int, len(st.ByCharacter))
	for id, count := range st.ByCharacter {
		c.ByCharacter[id] = count
	}
	return c
}
