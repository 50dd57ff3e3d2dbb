package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/solfarin/killstats/pkg/killmail"
)

func testPartition() Partition {
	return Partition{
		CorporationID: 98626718,
		Year:          2026,
		Month:         1,
		Kind:          KindKills,
	}
}

func testRecord(id int64) killmail.Killmail {
	return killmail.Killmail{
		ID:            id,
		Hash:          "hash",
		Time:          time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		SolarSystemID: 30000142,
		Victim:        killmail.Victim{ShipTypeID: 587, DamageTaken: 1000},
		Attackers: []killmail.Attacker{
			{CharacterID: 111, CorporationID: 98626718, ShipTypeID: 622, FinalBlow: true},
		},
		TotalValue: 5000000,
	}
}

func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("failed to close test database: %v", closeErr)
		}
	})

	return db
}

func TestPartitionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Partition
		want string
	}{
		{
			name: "kills",
			p:    Partition{CorporationID: 98626718, Year: 2026, Month: 1, Kind: KindKills},
			want: "kills:98626718:2026-01",
		},
		{
			name: "losses",
			p:    Partition{CorporationID: 98626718, Year: 2026, Month: 12, Kind: KindLosses},
			want: "losses:98626718:2026-12",
		},
		{
			name: "solo filter",
			p:    Partition{CorporationID: 42, Year: 2025, Month: 7, Kind: KindKills, Solo: true},
			want: "kills:42:2025-07:solo",
		},
		{
			name: "both filters",
			p:    Partition{CorporationID: 42, Year: 2025, Month: 7, Kind: KindKills, Solo: true, Wspace: true},
			want: "kills:42:2025-07:solo:wspace",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.p.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPartitionValidate(t *testing.T) {
	t.Parallel()

	valid := testPartition()
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	bad := []Partition{
		{Year: 2026, Month: 1, Kind: KindKills},                           // no corporation
		{CorporationID: 1, Year: 1999, Month: 1, Kind: KindKills},         // year before game launch
		{CorporationID: 1, Year: 2026, Month: 13, Kind: KindKills},        // month out of range
		{CorporationID: 1, Year: 2026, Month: 1, Kind: Kind("killboard")}, // unknown kind
	}

	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidPartition) {
			t.Errorf("Validate(%+v) error = %v, want ErrInvalidPartition", p, err)
		}
	}
}

// storeFactories lets every contract test run against both implementations.
var storeFactories = map[string]func(t *testing.T) Store{
	"bolt": func(t *testing.T) Store {
		return NewBoltStore(openTestDB(t))
	},
	"memory": func(t *testing.T) Store {
		return NewMemoryStore()
	},
}

func TestStore_GetAbsentPartition(t *testing.T) {
	for name, factory := range storeFactories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			records, err := store.Get(testPartition())
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(records) != 0 {
				t.Errorf("Get() returned %d records for absent partition, want 0", len(records))
			}
		})
	}
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	for name, factory := range storeFactories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			p := testPartition()

			want := map[int64]killmail.Killmail{
				101: testRecord(101),
				102: testRecord(102),
			}
			if err := store.Put(p, want); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(p)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Get() returned %d records, want 2", len(got))
			}

			for id, wantRec := range want {
				gotRec, ok := got[id]
				if !ok {
					t.Fatalf("record %d missing after round trip", id)
				}
				if gotRec.Hash != wantRec.Hash {
					t.Errorf("record %d Hash = %q, want %q", id, gotRec.Hash, wantRec.Hash)
				}
				if gotRec.TotalValue != wantRec.TotalValue {
					t.Errorf("record %d TotalValue = %f, want %f", id, gotRec.TotalValue, wantRec.TotalValue)
				}
				if len(gotRec.Attackers) != 1 || !gotRec.Attackers[0].FinalBlow {
					t.Errorf("record %d attackers not preserved: %+v", id, gotRec.Attackers)
				}
			}
		})
	}
}

func TestStore_PutMerges(t *testing.T) {
	for name, factory := range storeFactories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			p := testPartition()

			if err := store.Put(p, map[int64]killmail.Killmail{101: testRecord(101)}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := store.Put(p, map[int64]killmail.Killmail{102: testRecord(102)}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(p)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(got) != 2 {
				t.Errorf("Get() returned %d records after two Puts, want 2", len(got))
			}
		})
	}
}

func TestStore_PartitionsAreIsolated(t *testing.T) {
	for name, factory := range storeFactories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			kills := testPartition()
			losses := testPartition()
			losses.Kind = KindLosses

			if err := store.Put(kills, map[int64]killmail.Killmail{101: testRecord(101)}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(losses)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(got) != 0 {
				t.Errorf("losses partition has %d records, want 0", len(got))
			}
		})
	}
}

func TestStore_InvalidPartition(t *testing.T) {
	for name, factory := range storeFactories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			store := factory(t)

			_, err := store.Get(Partition{})
			if !errors.Is(err, ErrInvalidPartition) {
				t.Errorf("Get() error = %v, want ErrInvalidPartition", err)
			}

			err = store.Put(Partition{}, map[int64]killmail.Killmail{101: testRecord(101)})
			if !errors.Is(err, ErrInvalidPartition) {
				t.Errorf("Put() error = %v, want ErrInvalidPartition", err)
			}
		})
	}
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	p := testPartition()

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	store := NewBoltStore(db)
	if err := store.Put(p, map[int64]killmail.Killmail{101: testRecord(101)}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	db, err = bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("failed to close database: %v", closeErr)
		}
	}()

	got, err := NewBoltStore(db).Get(p)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Get() after reopen returned %d records, want 1", len(got))
	}
	if got[101].ID != 101 {
		t.Errorf("record ID = %d, want 101", got[101].ID)
	}
}
