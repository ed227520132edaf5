package lab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Snapshot is the plaintext form of a backup: every collection as stored.
type Snapshot struct {
	Version     int64                      `json:"version"`
	TakenAt     time.Time                  `json:"takenAt"`
	LabID       string                     `json:"labId"`
	Collections map[string]json.RawMessage `json:"collections"`
}

func (s *LabService) backupReady() error {
	if s.vault == nil || s.encryptor == nil {
		return ErrBackupNotConfigured
	}
	if !s.encryptor.IsConfigured() {
		return fmt.Errorf("%w: encryption keys have not been generated", ErrBackupNotConfigured)
	}
	return nil
}

// TakeSnapshot reads every collection into a Snapshot. Collections that were
// never written are omitted.
func (s *LabService) TakeSnapshot() (*Snapshot, error) {
	now := s.clock.Now()
	snap := &Snapshot{
		Version:     now.Unix(),
		TakenAt:     now,
		LabID:       s.settings.LabID,
		Collections: make(map[string]json.RawMessage),
	}
	for _, c := range Collections() {
		data, ok, err := s.store.Load(c)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", c, err)
		}
		if !ok {
			continue
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("collection %s holds invalid JSON", c)
		}
		snap.Collections[string(c)] = json.RawMessage(data)
	}
	return snap, nil
}

// PushSnapshot encrypts the current state and uploads it to the vault,
// replacing any earlier snapshot of this lab. It returns the pushed version.
func (s *LabService) PushSnapshot() (int64, error) {
	if err := s.backupReady(); err != nil {
		return 0, err
	}

	snap, err := s.TakeSnapshot()
	if err != nil {
		return 0, err
	}
	plain, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encoding snapshot: %w", err)
	}

	var sealed bytes.Buffer
	if err := s.encryptor.Encrypt(bytes.NewReader(plain), &sealed); err != nil {
		return 0, fmt.Errorf("encrypting snapshot: %w", err)
	}

	size := int64(sealed.Len())
	if err := s.vault.PutSnapshot(s.settings.LabID, &sealed, size, snap.Version); err != nil {
		return 0, fmt.Errorf("uploading snapshot: %w", err)
	}

	s.logger.Info("snapshot pushed", "lab", s.settings.LabID, "version", snap.Version, "size", size, "collections", len(snap.Collections))
	return snap.Version, nil
}

// SnapshotVersion returns the version of the lab's snapshot in the vault, or 0.
func (s *LabService) SnapshotVersion() (int64, error) {
	if s.vault == nil {
		return 0, ErrBackupNotConfigured
	}
	return s.vault.GetSnapshotVersion(s.settings.LabID)
}

// PullSnapshot downloads and decrypts the lab's snapshot and overwrites local
// state with it. Collections missing from the snapshot are cleared.
func (s *LabService) PullSnapshot(dctx DecryptionContext) (*Snapshot, error) {
	if err := s.backupReady(); err != nil {
		return nil, err
	}
	if dctx == nil {
		return nil, fmt.Errorf("%w: snapshot is encrypted but no passphrase was provided", ErrInvalidInput)
	}

	version, err := s.vault.GetSnapshotVersion(s.settings.LabID)
	if err != nil {
		return nil, fmt.Errorf("checking snapshot version: %w", err)
	}
	if version == 0 {
		return nil, fmt.Errorf("snapshot for lab %s: %w", s.settings.LabID, ErrNotFound)
	}

	pr, pw := io.Pipe()
	vaultErrCh := make(chan error, 1)
	go func() {
		err := s.vault.GetSnapshot(s.settings.LabID, pw)
		pw.CloseWithError(err)
		vaultErrCh <- err
	}()

	var plain bytes.Buffer
	decryptErr := dctx.Decrypt(pr, &plain)
	pr.CloseWithError(decryptErr)
	vaultErr := <-vaultErrCh

	if vaultErr != nil {
		return nil, fmt.Errorf("downloading snapshot: %w", vaultErr)
	}
	if decryptErr != nil {
		return nil, fmt.Errorf("decrypting snapshot: %w", decryptErr)
	}

	var snap Snapshot
	if err := json.Unmarshal(plain.Bytes(), &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := s.restoreSnapshot(&snap); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot pulled", "lab", s.settings.LabID, "version", snap.Version, "collections", len(snap.Collections))
	return &snap, nil
}

func (s *LabService) restoreSnapshot(snap *Snapshot) error {
	known := make(map[string]bool)
	for _, c := range Collections() {
		known[string(c)] = true
	}
	for name := range snap.Collections {
		if !known[name] {
			return fmt.Errorf("%w: snapshot holds unknown collection %q", ErrInvalidInput, name)
		}
	}

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	for _, c := range Collections() {
		data, ok := snap.Collections[string(c)]
		if !ok {
			continue
		}
		if err := s.store.Save(c, data); err != nil {
			return fmt.Errorf("restoring %s: %w", c, err)
		}
	}
	return nil
}
