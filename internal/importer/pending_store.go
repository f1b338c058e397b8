package importer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/boltdb/bolt"
)

// PendingStore holds batches between stage and confirm. Implementations
// store copies; callers never share a batch with the store.
type PendingStore interface {
	Get(importID string) (*models.ImportBatch, bool, error)
	Put(batch *models.ImportBatch) error
	Delete(importID string) error
}

type pendingEntry struct {
	batch    *models.ImportBatch
	storedAt time.Time
}

// MemoryPendingStore keeps batches in a map. With a positive TTL, batches
// older than TTL are evicted lazily on access.
type MemoryPendingStore struct {
	mu      sync.Mutex
	batches map[string]pendingEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryPendingStore creates an in-process store; ttl <= 0 disables expiry.
func NewMemoryPendingStore(ttl time.Duration) *MemoryPendingStore {
	return &MemoryPendingStore{
		batches: make(map[string]pendingEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryPendingStore) expired(e pendingEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.storedAt) > s.ttl
}

// Get implements PendingStore.
func (s *MemoryPendingStore) Get(importID string) (*models.ImportBatch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	e, ok := s.batches[importID]
	if !ok {
		return nil, false, nil
	}
	return e.batch.Clone(), true, nil
}

// Put implements PendingStore.
func (s *MemoryPendingStore) Put(batch *models.ImportBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.ImportID] = pendingEntry{batch: batch.Clone(), storedAt: s.now()}
	return nil
}

// Delete implements PendingStore.
func (s *MemoryPendingStore) Delete(importID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, importID)
	return nil
}

// Len returns the number of live batches.
func (s *MemoryPendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	return len(s.batches)
}

func (s *MemoryPendingStore) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.batches {
		if s.expired(e) {
			delete(s.batches, id)
		}
	}
}

var pendingBucket = []byte("pending_imports")

// BoltPendingStore persists batches in a bolt database so that a staged
// import survives process restarts.
type BoltPendingStore struct {
	db *bolt.DB
}

// OpenBoltPendingStore opens or creates the database at path.
func OpenBoltPendingStore(path string) (*BoltPendingStore, error) {
	db, err := bolt.Open(path, models.PermissionConfigFile, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open pending store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pendingBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize pending store: %w", err)
	}
	return &BoltPendingStore{db: db}, nil
}

// Get implements PendingStore.
func (s *BoltPendingStore) Get(importID string) (*models.ImportBatch, bool, error) {
	var batch *models.ImportBatch
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(pendingBucket).Get([]byte(importID))
		if data == nil {
			return nil
		}
		var b models.ImportBatch
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
			return fmt.Errorf("failed to decode batch %s: %w", importID, err)
		}
		batch = &b
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return batch, batch != nil, nil
}

// Put implements PendingStore.
func (s *BoltPendingStore) Put(batch *models.ImportBatch) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(batch); err != nil {
		return fmt.Errorf("failed to encode batch %s: %w", batch.ImportID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Put([]byte(batch.ImportID), buf.Bytes())
	})
}

// Delete implements PendingStore.
func (s *BoltPendingStore) Delete(importID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingBucket).Delete([]byte(importID))
	})
}

// Close releases the database file lock.
func (s *BoltPendingStore) Close() error {
	return s.db.Close()
}
