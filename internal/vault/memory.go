package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"lab-go/internal/lab"
)

// MemoryVault keeps snapshots in memory. It is safe for concurrent use and
// is mostly useful in tests.
type MemoryVault struct {
	name     string
	data     map[string][]byte // labID -> sealed snapshot
	versions map[string]int64  // labID -> version
	mu       sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:     name,
		data:     make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

// PutSnapshot replaces the snapshot stored for labID.
func (m *MemoryVault) PutSnapshot(labID string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[labID] = data
	m.versions[labID] = version
	return nil
}

// GetSnapshot writes the snapshot stored for labID to w.
func (m *MemoryVault) GetSnapshot(labID string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.data[labID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("snapshot for lab %s: %w", labID, lab.ErrNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion returns 0 if nothing has been stored for labID.
func (m *MemoryVault) GetSnapshotVersion(labID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[labID], nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ lab.Vault = (*MemoryVault)(nil)
