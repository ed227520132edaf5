package database

import (
	"fmt"
	"sync"
	"time"

	"lab-go/internal/lab"
)

// MemoryStore is a map-backed Store. Nothing survives Close.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[lab.Collection][]byte
	ops         []*Operation
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[lab.Collection][]byte)}
}

func (m *MemoryStore) Load(c lab.Collection) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collections[c]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStore) Save(c lab.Collection, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[c] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections = make(map[lab.Collection][]byte)
	return nil
}

func (m *MemoryStore) CreateOperation(operation, parameters string) (*Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op := &Operation{
		ID:         int64(len(m.ops) + 1),
		Operation:  operation,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  time.Now().UTC(),
	}
	m.ops = append(m.ops, op)
	cp := *op
	return &cp, nil
}

func (m *MemoryStore) FinishOperation(id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > int64(len(m.ops)) {
		return fmt.Errorf("operation %d: %w", id, lab.ErrNotFound)
	}
	now := time.Now().UTC()
	m.ops[id-1].Status = status
	m.ops[id-1].FinishedAt = &now
	return nil
}

func (m *MemoryStore) ListOperations(limit int) ([]*Operation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Operation
	for i := len(m.ops) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.ops[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) CheckMigrations() error { return nil }

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
