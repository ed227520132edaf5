package vault

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lab-go/internal/lab"
)

func TestMemoryVault_PutAndGetSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		content string
		size    int64
		wantErr bool
	}{
		{name: "store and retrieve", content: "sealed snapshot", size: 15},
		{name: "empty snapshot", content: "", size: 0},
		{name: "large snapshot", content: strings.Repeat("x", 10000), size: 10000},
		{name: "size mismatch", content: "abc", size: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewMemoryVault("test-vault")

			err := v.PutSnapshot("lab-1", strings.NewReader(tt.content), tt.size, 42)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if ver, _ := v.GetSnapshotVersion("lab-1"); ver != 0 {
					t.Errorf("version after failed put = %d, want 0", ver)
				}
				return
			}

			var buf bytes.Buffer
			if err := v.GetSnapshot("lab-1", &buf); err != nil {
				t.Fatalf("GetSnapshot() error = %v", err)
			}
			if buf.String() != tt.content {
				t.Errorf("GetSnapshot() = %q, want %q", buf.String(), tt.content)
			}
		})
	}
}

func TestMemoryVault_Versions(t *testing.T) {
	v := NewMemoryVault("test-vault")

	if ver, err := v.GetSnapshotVersion("lab-1"); err != nil || ver != 0 {
		t.Fatalf("GetSnapshotVersion() = %d, %v; want 0, nil", ver, err)
	}

	for _, ver := range []int64{100, 200} {
		if err := v.PutSnapshot("lab-1", strings.NewReader("x"), 1, ver); err != nil {
			t.Fatalf("PutSnapshot() error = %v", err)
		}
	}
	if ver, _ := v.GetSnapshotVersion("lab-1"); ver != 200 {
		t.Errorf("GetSnapshotVersion() = %d, want 200", ver)
	}
	if ver, _ := v.GetSnapshotVersion("lab-2"); ver != 0 {
		t.Errorf("GetSnapshotVersion(other lab) = %d, want 0", ver)
	}
}

func TestMemoryVault_GetSnapshotMissing(t *testing.T) {
	v := NewMemoryVault("test-vault")

	err := v.GetSnapshot("nope", &bytes.Buffer{})
	if !errors.Is(err, lab.ErrNotFound) {
		t.Errorf("GetSnapshot() error = %v, want ErrNotFound", err)
	}
}
