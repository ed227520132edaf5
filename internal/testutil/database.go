package testutil

import (
	"fmt"
	"sync"
	"testing"

	"lab-go/internal/database"
	"lab-go/internal/lab"
)

// NewTestStore creates an in-memory SQLite store with the schema applied.
// The store is closed when the test completes.
func NewTestStore(t *testing.T) *database.SQLiteStore {
	t.Helper()

	s, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// RecordingStore wraps a lab.Store, counting saves and optionally failing
// the save of one collection.
type RecordingStore struct {
	lab.Store

	mu     sync.Mutex
	saves  []lab.Collection
	failOn lab.Collection
}

// NewRecordingStore wraps inner.
func NewRecordingStore(inner lab.Store) *RecordingStore {
	return &RecordingStore{Store: inner}
}

// FailSavesOf makes every later Save of c fail. An empty c disables failures.
func (r *RecordingStore) FailSavesOf(c lab.Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = c
}

func (r *RecordingStore) Save(c lab.Collection, data []byte) error {
	r.mu.Lock()
	fail := r.failOn != "" && r.failOn == c
	if !fail {
		r.saves = append(r.saves, c)
	}
	r.mu.Unlock()

	if fail {
		return fmt.Errorf("injected save failure for %s", c)
	}
	return r.Store.Save(c, data)
}

// Saves returns the collections saved so far, in order.
func (r *RecordingStore) Saves() []lab.Collection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]lab.Collection(nil), r.saves...)
}

// Reset forgets recorded saves.
func (r *RecordingStore) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = nil
}
