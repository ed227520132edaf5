package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lab-go/internal/lab"
)

// FileSystemVault stores snapshots as files, typically on a mounted share:
//
//	<root>/
//	  snapshots/
//	    <labID>.snap     (sealed snapshot)
//	    <labID>.version  (version of the snapshot)
type FileSystemVault struct {
	name         string
	root         string
	snapshotsDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	snapshotsDir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(snapshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}
	return &FileSystemVault{name: name, root: root, snapshotsDir: snapshotsDir}, nil
}

// PutSnapshot writes the snapshot atomically, then its version file.
func (v *FileSystemVault) PutSnapshot(labID string, r io.Reader, size int64, version int64) error {
	if err := v.writeFile(v.snapshotPath(labID), r, size); err != nil {
		return err
	}
	versionData := strconv.FormatInt(version, 10)
	if err := os.WriteFile(v.versionPath(labID), []byte(versionData), 0644); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

// GetSnapshot writes the stored snapshot for labID to w.
func (v *FileSystemVault) GetSnapshot(labID string, w io.Writer) error {
	f, err := os.Open(v.snapshotPath(labID))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot for lab %s: %w", labID, lab.ErrNotFound)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion returns 0 if no version file exists.
func (v *FileSystemVault) GetSnapshotVersion(labID string) (int64, error) {
	data, err := os.ReadFile(v.versionPath(labID))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.snapshotsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

func (v *FileSystemVault) snapshotPath(labID string) string {
	return filepath.Join(v.snapshotsDir, labID+".snap")
}

func (v *FileSystemVault) versionPath(labID string) string {
	return filepath.Join(v.snapshotsDir, labID+".version")
}

// writeFile writes r to destPath through a temp file and rename.
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ lab.Vault = (*FileSystemVault)(nil)
