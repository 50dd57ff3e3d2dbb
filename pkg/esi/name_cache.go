package esi

import (
	"encoding/binary"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketNames = []byte("character_names") // ID -> Name
)

// boltNameCache implements NameCache using BoltDB.
type boltNameCache struct {
	db *bolt.DB
	mu sync.RWMutex
}

// NewBoltNameCache creates a BoltDB-based name cache.
//
// Parameters:
//   - db: BoltDB database instance (shared with the record store)
//
// Returns:
//   - Configured NameCache
//   - Error if initialization fails
func NewBoltNameCache(db *bolt.DB) (NameCache, error) {
	// Initialize bucket.
	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketNames)
		return createErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create names bucket: %w", err)
	}

	return &boltNameCache{
		db: db,
	}, nil
}

// Get implements NameCache.Get.
func (c *boltNameCache) Get(ids []int64) (map[int64]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make(map[int64]string)

	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNames)

		for _, id := range ids {
			data := b.Get(idKey(id))
			if data == nil {
				continue
			}
			names[id] = string(data)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return names, nil
}

// Put implements NameCache.Put.
func (c *boltNameCache) Put(names map[int64]string) error {
	if len(names) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNames)

		for id, name := range names {
			if putErr := b.Put(idKey(id), []byte(name)); putErr != nil {
				return fmt.Errorf("failed to store name for %d: %w", id, putErr)
			}
		}

		return nil
	})
}

// idKey encodes a character ID as a big-endian bucket key.
func idKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// memoryNameCache implements NameCache using an in-memory map.
// Useful for testing.
type memoryNameCache struct {
	names map[int64]string
	mu    sync.RWMutex
}

// NewMemoryNameCache creates an in-memory name cache.
//
// Returns a configured NameCache.
// Useful for testing or when persistence is not needed.
func NewMemoryNameCache() NameCache {
	return &memoryNameCache{
		names: make(map[int64]string),
	}
}

// Get implements NameCache.Get.
func (c *memoryNameCache) Get(ids []int64) (map[int64]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make(map[int64]string)
	for _, id := range ids {
		if name, ok := c.names[id]; ok {
			names[id] = name
		}
	}

	return names, nil
}

// Put implements NameCache.Put.
func (c *memoryNameCache) Put(names map[int64]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, name := range names {
		c.names[id] = name
	}

	return nil
}
