package lab

import "io"

// Vault stores encrypted lab snapshots off the local machine.
// Snapshots are keyed by lab id; only the latest snapshot per lab is kept.
type Vault interface {
	// PutSnapshot stores the snapshot read from r for labID.
	// size is the number of bytes that will be read from r.
	// version is stored alongside the snapshot so a later pull can report it.
	PutSnapshot(labID string, r io.Reader, size int64, version int64) error

	// GetSnapshot writes the stored snapshot for labID to w.
	GetSnapshot(labID string, w io.Writer) error

	// GetSnapshotVersion returns the version of the stored snapshot.
	// Returns 0 if nothing has been stored for labID.
	GetSnapshotVersion(labID string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
