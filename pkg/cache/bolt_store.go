package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/solfarin/killstats/pkg/killmail"
)

// boltStore implements Store using BoltDB: one bucket per partition,
// record ID (big-endian) -> JSON-encoded record.
type boltStore struct {
	db *bolt.DB
	mu sync.RWMutex
}

// NewBoltStore creates a BoltDB-based record store.
//
// Parameters:
//   - db: BoltDB database instance (shared with the name cache)
//
// Returns a configured Store. Buckets are created lazily on first
// write, so an empty database needs no initialization.
func NewBoltStore(db *bolt.DB) Store {
	return &boltStore{
		db: db,
	}
}

// Get implements Store.Get.
func (s *boltStore) Get(p Partition) (map[int64]killmail.Killmail, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[int64]killmail.Killmail)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(p.String()))
		if b == nil {
			// No partition stored yet; an empty result is not an error.
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("malformed record key in partition %s", p)
			}

			var km killmail.Killmail
			if unmarshalErr := json.Unmarshal(v, &km); unmarshalErr != nil {
				return fmt.Errorf("failed to unmarshal record %d: %w",
					int64(binary.BigEndian.Uint64(k)), unmarshalErr)
			}

			records[km.ID] = km
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// Put implements Store.Put.
func (s *boltStore) Put(p Partition, records map[int64]killmail.Killmail) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(p.String()))
		if err != nil {
			return fmt.Errorf("failed to create partition bucket %s: %w", p, err)
		}

		for id, km := range records {
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, uint64(id))

			// Append-only: an ID already in the bucket is left as is.
			if b.Get(key) != nil {
				continue
			}

			data, marshalErr := json.Marshal(km)
			if marshalErr != nil {
				return fmt.Errorf("failed to marshal record %d: %w", id, marshalErr)
			}

			if putErr := b.Put(key, data); putErr != nil {
				return fmt.Errorf("failed to store record %d: %w", id, putErr)
			}
		}

		return nil
	})
}

// memoryStore implements Store using in-memory maps.
// Useful for testing.
type memoryStore struct {
	partitions map[string]map[int64]killmail.Killmail
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory record store.
//
// Returns a configured Store.
// Useful for testing or when persistence is not needed.
func NewMemoryStore() Store {
	return &memoryStore{
		partitions: make(map[string]map[int64]killmail.Killmail),
	}
}

// Get implements Store.Get.
func (s *memoryStore) Get(p Partition) (map[int64]killmail.Killmail, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[int64]killmail.Killmail, len(s.partitions[p.String()]))
	for id, km := range s.partitions[p.String()] {
		records[id] = km
	}

	return records, nil
}

// Put implements Store.Put.
func (s *memoryStore) Put(p Partition, records map[int64]killmail.Killmail) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.partitions[p.String()]
	if !ok {
		existing = make(map[int64]killmail.Killmail, len(records))
		s.partitions[p.String()] = existing
	}

	for id, km := range records {
		if _, present := existing[id]; present {
			continue
		}
		existing[id] = km
	}

	return nil
}
