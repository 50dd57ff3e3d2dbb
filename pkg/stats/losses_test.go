package stats

import (
	"testing"
	"time"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
)

// loss builds a record where the tracked corporation is the victim.
func loss(id, characterID, shipType int64, value float64, damage int64) killmail.Killmail {
	return killmail.Killmail{
		ID:         id,
		Hash:       "h",
		Time:       time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
		TotalValue: value,
		Victim: killmail.Victim{
			CharacterID:   characterID,
			CorporationID: testCorp,
			ShipTypeID:    shipType,
			DamageTaken:   damage,
		},
		Attackers: []killmail.Attacker{
			{CharacterID: 999, CorporationID: 777, ShipTypeID: stabberType, FinalBlow: true},
		},
	}
}

func TestLossProcessRecord_SingleLoss(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())
	ls.ProcessRecord(loss(1, 111, rifterType, 1_500_000, 4200))

	if got := ls.TotalLosses(); got != 1 {
		t.Errorf("TotalLosses() = %d, want 1", got)
	}

	ranked := ls.RankParticipants(RankByLosses, 0)
	if len(ranked) != 1 {
		t.Fatalf("RankParticipants() returned %d participants, want 1", len(ranked))
	}

	p := ranked[0]
	if p.Losses != 1 {
		t.Errorf("Losses = %d, want 1", p.Losses)
	}
	if p.DestroyedValue != 1_500_000 {
		t.Errorf("DestroyedValue = %v, want 1500000", p.DestroyedValue)
	}
	if p.DamageTaken != 4200 {
		t.Errorf("DamageTaken = %d, want 4200", p.DamageTaken)
	}
	if p.Ships["Rifter"] != 1 {
		t.Errorf("Ships[Rifter] = %d, want 1", p.Ships["Rifter"])
	}
}

func TestLossProcessRecord_ForeignVictimIgnored(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())

	km := loss(1, 111, rifterType, 100, 1)
	km.Victim.CorporationID = 777
	ls.ProcessRecord(km)

	if got := ls.TotalLosses(); got != 0 {
		t.Errorf("TotalLosses() = %d, want 0", got)
	}
}

func TestLossProcessRecord_EscapePodExcluded(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())
	ls.ProcessRecord(loss(1, 111, capsuleType, 10_000, 450))

	if got := ls.TotalLosses(); got != 0 {
		t.Errorf("TotalLosses() = %d, want 0 (pod loss excluded entirely)", got)
	}
	if ranked := ls.RankParticipants(RankByLosses, 0); len(ranked) != 0 {
		t.Errorf("RankParticipants() returned %d participants, want 0", len(ranked))
	}
}

func TestLossProcessRecord_StructureLoss(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())

	// No pilot: counts toward the total and the ship type, but
	// produces no participant row.
	ls.ProcessRecord(loss(1, 0, 35825, 900_000_000, 2_000_000))

	if got := ls.TotalLosses(); got != 1 {
		t.Errorf("TotalLosses() = %d, want 1", got)
	}
	if ranked := ls.RankParticipants(RankByLosses, 0); len(ranked) != 0 {
		t.Errorf("RankParticipants() returned %d participants, want 0", len(ranked))
	}

	ships := ls.RankShips(0)
	if len(ships) != 1 {
		t.Fatalf("RankShips() returned %d types, want 1", len(ships))
	}
	if ships[0].Losses != 1 || ships[0].DestroyedValue != 900_000_000 {
		t.Errorf("ship stats = %+v, want 1 loss worth 900000000", ships[0])
	}
	if len(ships[0].ByCharacter) != 0 {
		t.Errorf("ByCharacter = %v, want empty for structure loss", ships[0].ByCharacter)
	}
}

func TestLossRankParticipants_ByValue(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())
	ls.ProcessRecord(loss(1, 111, rifterType, 100, 1))
	ls.ProcessRecord(loss(2, 111, rifterType, 100, 1))
	ls.ProcessRecord(loss(3, 222, stabberType, 5_000, 1))

	byLosses := ls.RankParticipants(RankByLosses, 0)
	if byLosses[0].CharacterID != 111 {
		t.Errorf("top by losses = %d, want 111", byLosses[0].CharacterID)
	}

	byValue := ls.RankParticipants(RankByValue, 0)
	if byValue[0].CharacterID != 222 {
		t.Errorf("top by value = %d, want 222", byValue[0].CharacterID)
	}
}

func TestLossRankParticipants_StableTieBreak(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())
	ls.ProcessRecord(loss(1, 111, rifterType, 100, 1))
	ls.ProcessRecord(loss(2, 222, rifterType, 100, 1))

	ranked := ls.RankParticipants(RankByLosses, 0)
	if ranked[0].CharacterID != 111 || ranked[1].CharacterID != 222 {
		t.Errorf("tie order = [%d, %d], want first-seen order [111, 222]",
			ranked[0].CharacterID, ranked[1].CharacterID)
	}
}

func TestLossAccumulation(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())
	ls.ProcessRecord(loss(1, 111, rifterType, 1_000, 100))
	ls.ProcessRecord(loss(2, 111, stabberType, 2_000, 250))

	ranked := ls.RankParticipants(RankByLosses, 0)
	p := ranked[0]
	if p.Losses != 2 {
		t.Errorf("Losses = %d, want 2", p.Losses)
	}
	if p.DestroyedValue != 3_000 {
		t.Errorf("DestroyedValue = %v, want 3000", p.DestroyedValue)
	}
	if p.DamageTaken != 350 {
		t.Errorf("DamageTaken = %d, want 350", p.DamageTaken)
	}
	if p.Signature != 2 {
		t.Errorf("Signature = %d, want 2", p.Signature)
	}

	breakdown := ls.ParticipantShips(111)
	if len(breakdown) != 2 {
		t.Fatalf("ParticipantShips() returned %d rows, want 2", len(breakdown))
	}
	// Equal counts sort by name ascending.
	if breakdown[0].Name != "Rifter" || breakdown[1].Name != "Stabber" {
		t.Errorf("breakdown order = [%s, %s], want [Rifter, Stabber]",
			breakdown[0].Name, breakdown[1].Name)
	}
}

func TestLossSummary(t *testing.T) {
	t.Parallel()

	ls := NewLossStats(testConfig(), logger.Noop())
	ls.ProcessRecord(loss(1, 111, rifterType, 100, 1))
	ls.ProcessRecord(loss(5, 222, stabberType, 100, 1))

	sum := ls.Summary()
	if sum.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", sum.TotalRecords)
	}
	if sum.Participants != 2 {
		t.Errorf("Participants = %d, want 2", sum.Participants)
	}

	wantActivity := loss(5, 222, stabberType, 0, 0).Time
	if !sum.LastActivity.Equal(wantActivity) {
		t.Errorf("LastActivity = %v, want %v", sum.LastActivity, wantActivity)
	}
}
