package testutil

import (
	"testing"
	"time"

	"lab-go/internal/lab"
	"lab-go/internal/vault"
)

// TestLab bundles a LabService with the doubles behind it.
type TestLab struct {
	Service   *lab.LabService
	Store     *RecordingStore
	Vault     *vault.MemoryVault
	Encryptor lab.Encryptor
	Clock     *StubClock
	IDs       *StubIDGenerator
}

// LabOption adjusts the settings used by NewTestLab.
type LabOption func(*lab.Settings)

// WithSeed replaces the seed policy.
func WithSeed(p lab.SeedPolicy) LabOption {
	return func(s *lab.Settings) { s.Seed = p }
}

// WithLocation sets the calendar used for "today".
func WithLocation(loc *time.Location) LabOption {
	return func(s *lab.Settings) { s.Location = loc }
}

// NewTestLab creates an initialised LabService over an in-memory SQLite store,
// a memory vault and the test encryptor. The default seed is the stock room.
func NewTestLab(t *testing.T, opts ...LabOption) *TestLab {
	t.Helper()

	settings := lab.Settings{
		LabID:       "lab-test",
		TeacherName: "Cô Lan",
		Seed:        lab.DefaultSeedPolicy(),
		Location:    time.UTC,
	}
	for _, o := range opts {
		o(&settings)
	}

	tl := &TestLab{
		Store:     NewRecordingStore(NewTestStore(t)),
		Vault:     NewTestVault(),
		Encryptor: NewTestEncryptor(),
		Clock:     FixedClock(),
		IDs:       NewStubIDGenerator(),
	}
	tl.Service = lab.NewLabService(tl.Store, tl.Vault, tl.Encryptor, lab.NewNopLogger(), tl.Clock, tl.IDs, settings)

	if err := tl.Service.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	tl.Store.Reset()
	return tl
}
