package inventory

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store. It backs tests and local runs where no
// spreadsheet is configured.
type MemStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemStore creates an in-memory store seeded with the given records.
func NewMemStore(records ...Record) *MemStore {
	return &MemStore{records: append([]Record(nil), records...)}
}

// FetchAll returns a copy of the records in insertion order.
func (s *MemStore) FetchAll(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...), nil
}

// Append adds one record at the end.
func (s *MemStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}
