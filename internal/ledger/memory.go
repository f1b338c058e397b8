package ledger

import (
	"fmt"
	"sync"
	"time"

	"fjacquet/statement-import/internal/models"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.Record
	ids     map[string]struct{}
	now     func() time.Time

	// AppendError, when set, is returned by Append for every record whose
	// description equals FailDescription (or for all records if empty).
	AppendError     error
	FailDescription string
}

// NewMemoryStore creates a store seeded with records. Seed records whose ID
// repeats an earlier one are ignored.
func NewMemoryStore(records ...models.Record) *MemoryStore {
	s := &MemoryStore{ids: make(map[string]struct{}), now: time.Now}
	for _, r := range records {
		r = prepare(r, s.now())
		if _, ok := s.ids[r.ID]; ok {
			continue
		}
		s.ids[r.ID] = struct{}{}
		s.records = append(s.records, r)
	}
	return s
}

// Append implements Store.
func (s *MemoryStore) Append(r models.Record) (string, error) {
	if s.AppendError != nil && (s.FailDescription == "" || s.FailDescription == r.Description) {
		return "", s.AppendError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r = prepare(r, s.now())
	if _, ok := s.ids[r.ID]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	s.ids[r.ID] = struct{}{}
	s.records = append(s.records, r)
	return r.ID, nil
}

// List implements Store.
func (s *MemoryStore) List() ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Record(nil), s.records...), nil
}

// Exists implements Store.
func (s *MemoryStore) Exists(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok, nil
}
