package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lab-go/internal/config"
	"lab-go/internal/database"
	"lab-go/internal/encryption"
	"lab-go/internal/lab"
	"lab-go/internal/spreadsheet"
	"lab-go/internal/vault"
)

// LabApp is the application layer between the CLI and LabService.
// It constructs all dependencies from config, journals commands that change
// data, and manages the store lifecycle on Close.
type LabApp struct {
	cfg       *config.Config
	store     database.Store
	vault     lab.Vault
	encryptor lab.Encryptor
	service   *lab.LabService
	clock     lab.Clock
	op        *Operation
	logFile   *os.File
}

// NewLabApp creates a fully wired LabApp from the given config.
// operation identifies the CLI command being run (e.g. "Activate", "ImportRoster").
// The caller must call Close when done.
func NewLabApp(cfg *config.Config, operation string) (*LabApp, error) {
	if cfg.LabID == "" {
		return nil, fmt.Errorf("lab_id is not set")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// A lab without vaults still works; only backup commands need one.
	var v lab.Vault
	if len(cfg.Vaults) > 0 {
		v, err = vault.NewVaultFromConfig(cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	store, err := database.NewStoreFromConfig(cfg.Database, cfg.LabID)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, level)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	clock := lab.RealClock{}
	svc := lab.NewLabService(store, v, enc, &slogAdapter{l: logger}, clock, lab.UUIDGenerator{}, lab.Settings{
		LabID:       cfg.LabID,
		TeacherName: cfg.TeacherName,
		Seed:        cfg.SeedPolicy(),
		Location:    loc,
	})

	if err := svc.Init(); err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("initializing lab: %w", err)
	}

	return &LabApp{
		cfg:       cfg,
		store:     store,
		vault:     v,
		encryptor: enc,
		service:   svc,
		clock:     clock,
		op:        NewOperation(operation),
		logFile:   logFile,
	}, nil
}

// persistOperation journals the current command, giving it an id.
// This should only be called for commands that change data.
func (a *LabApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	rec, err := a.store.CreateOperation(a.op.Name, parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

// mutate journals the command and runs fn, marking the operation failed when
// fn returns an error.
func (a *LabApp) mutate(parameters string, fn func() error) error {
	if err := a.persistOperation(parameters); err != nil {
		return err
	}
	if err := fn(); err != nil {
		a.op.Fail()
		return err
	}
	return nil
}

// Config returns the configuration the app was built from.
func (a *LabApp) Config() *config.Config {
	return a.cfg
}

// Machines

func (a *LabApp) ListMachines() ([]lab.Machine, error) {
	return a.service.ListMachines()
}

func (a *LabApp) GetMachine(id string) (*lab.Machine, error) {
	return a.service.GetMachine(id)
}

func (a *LabApp) AddMachine(in lab.MachineInput) (*lab.Machine, error) {
	var m *lab.Machine
	err := a.mutate(in.ID, func() (err error) {
		m, err = a.service.AddMachine(in)
		return err
	})
	return m, err
}

func (a *LabApp) UpdateMachine(id string, in lab.MachineInput) (*lab.Machine, error) {
	var m *lab.Machine
	err := a.mutate(id, func() (err error) {
		m, err = a.service.UpdateMachine(id, in)
		return err
	})
	return m, err
}

func (a *LabApp) SetMachineStatus(id string, status lab.MachineStatus) error {
	return a.mutate(id+" "+string(status), func() error {
		return a.service.SetMachineStatus(id, status)
	})
}

func (a *LabApp) DeleteMachine(id string) error {
	return a.mutate(id, func() error {
		return a.service.DeleteMachine(id)
	})
}

func (a *LabApp) ClearMachineSeat(id string) error {
	return a.mutate(id, func() error {
		return a.service.ClearMachineSeat(id)
	})
}

// ResolveScanCode returns the machine a scanned label refers to.
func (a *LabApp) ResolveScanCode(code string) (*lab.Machine, error) {
	return a.service.ResolveScanCode(code)
}

// Classes and students

func (a *LabApp) ListClasses() ([]lab.Class, error) {
	return a.service.ListClasses()
}

// ResolveClass finds a class by id, then by name.
func (a *LabApp) ResolveClass(ref string) (*lab.Class, error) {
	c, err := a.service.GetClass(ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, lab.ErrNotFound) {
		return nil, err
	}
	return a.service.FindClassByName(ref)
}

func (a *LabApp) AddClass(in lab.ClassInput) (*lab.Class, error) {
	var c *lab.Class
	err := a.mutate(in.Name, func() (err error) {
		c, err = a.service.AddClass(in)
		return err
	})
	return c, err
}

func (a *LabApp) UpdateClass(ref string, in lab.ClassInput) (*lab.Class, error) {
	existing, err := a.ResolveClass(ref)
	if err != nil {
		return nil, err
	}
	var c *lab.Class
	err = a.mutate(existing.Name+" -> "+in.Name, func() (err error) {
		c, err = a.service.UpdateClass(existing.ID, in)
		return err
	})
	return c, err
}

// DeleteClass removes the class named or identified by ref and its students.
// It reports false when ref matches nothing.
func (a *LabApp) DeleteClass(ref string) (bool, error) {
	existing, err := a.ResolveClass(ref)
	if errors.Is(err, lab.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var deleted bool
	err = a.mutate(existing.Name, func() (err error) {
		deleted, err = a.service.DeleteClass(existing.ID)
		return err
	})
	return deleted, err
}

func (a *LabApp) Activate(className string) (*lab.SeatPlan, error) {
	var plan *lab.SeatPlan
	err := a.mutate(className, func() (err error) {
		plan, err = a.service.Activate(className)
		return err
	})
	return plan, err
}

func (a *LabApp) ClearSeats() error {
	return a.mutate("", a.service.ClearSeats)
}

func (a *LabApp) ActiveClass() (string, error) {
	return a.service.ActiveClass()
}

// ImportRoster reads the first sheet of the workbook at path and replaces the
// roster of className with it. A workbook without data rows changes nothing.
func (a *LabApp) ImportRoster(path, className string) (*lab.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	rows, err := spreadsheet.ReadRoster(f)
	if err != nil {
		return nil, err
	}

	var res *lab.ImportResult
	err = a.mutate(className+" "+filepath.Base(path), func() (err error) {
		res, err = a.service.ImportRoster(rows, className)
		return err
	})
	return res, err
}

func (a *LabApp) ListStudents(className string) ([]lab.Student, error) {
	return a.service.ListStudents(className)
}

func (a *LabApp) ClassStatistics(className string) (*lab.ClassStats, error) {
	return a.service.ClassStatistics(className)
}

// Violations and teaching log

func (a *LabApp) ReportViolation(in lab.ViolationInput) (*lab.ViolationRecord, error) {
	var rec *lab.ViolationRecord
	err := a.mutate(in.Student+" "+string(in.Type), func() (err error) {
		rec, err = a.service.ReportViolation(in)
		return err
	})
	return rec, err
}

func (a *LabApp) ReportMachineViolation(machineID string, vt lab.ViolationType, note string) (*lab.ViolationRecord, error) {
	var rec *lab.ViolationRecord
	err := a.mutate(machineID+" "+string(vt), func() (err error) {
		rec, err = a.service.ReportMachineViolation(machineID, vt, note)
		return err
	})
	return rec, err
}

func (a *LabApp) ListViolations() ([]lab.ViolationRecord, error) {
	return a.service.ListViolations()
}

func (a *LabApp) AddTeacherLog(in lab.TeacherLogInput) (*lab.TeacherLog, error) {
	var entry *lab.TeacherLog
	err := a.mutate(in.Class+" "+in.Date, func() (err error) {
		entry, err = a.service.AddTeacherLog(in)
		return err
	})
	return entry, err
}

func (a *LabApp) ListTeacherLogs() ([]lab.TeacherLog, error) {
	return a.service.ListTeacherLogs()
}

// Reporting

func (a *LabApp) Dashboard() (*lab.DashboardStats, error) {
	return a.service.Dashboard()
}

// ExportStatistics writes the statistics workbook into dir and returns its path.
func (a *LabApp) ExportStatistics(dir string) (string, error) {
	st := spreadsheet.Statistics{Location: a.location()}
	var err error
	if st.Violations, err = a.service.ListViolations(); err != nil {
		return "", err
	}
	if st.Machines, err = a.service.ListMachines(); err != nil {
		return "", err
	}
	if st.Logs, err = a.service.ListTeacherLogs(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, spreadsheet.ExportFilename(a.clock.Now().In(st.Location)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := spreadsheet.ExportStatistics(f, st); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return path, nil
}

func (a *LabApp) location() *time.Location {
	loc, err := a.cfg.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// Reset wipes every collection and seeds the room again.
func (a *LabApp) Reset() error {
	return a.mutate("", a.service.Reset)
}

// History returns the most recent journaled operations.
func (a *LabApp) History(limit int) ([]*database.Operation, error) {
	return a.store.ListOperations(limit)
}

// Backups

// SetupKeys generates the snapshot key pair protected by passphrase.
func (a *LabApp) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// PublicKey returns the recipient string of the configured key pair, if the
// encryptor exposes one.
func (a *LabApp) PublicKey() (string, error) {
	r, ok := a.encryptor.(interface{ Recipient() (string, error) })
	if !ok {
		return "", fmt.Errorf("encryptor %q has no public key", a.cfg.Encryption.Type)
	}
	return r.Recipient()
}

// ValidateVault checks that the configured vault is reachable.
func (a *LabApp) ValidateVault() error {
	if a.vault == nil {
		return lab.ErrBackupNotConfigured
	}
	return a.vault.ValidateSetup()
}

// PushSnapshot uploads the current state to the vault.
func (a *LabApp) PushSnapshot() (int64, error) {
	return a.service.PushSnapshot()
}

// BackupStatus describes the remote snapshot and local state.
type BackupStatus struct {
	Configured    bool
	RemoteVersion int64     // 0 when nothing has been pushed
	RemoteTakenAt time.Time // derived from RemoteVersion
	LocalUpdated  time.Time // latest local write, zero when unknown
}

// BackupStatus reports the vault's snapshot version and when local data last
// changed.
func (a *LabApp) BackupStatus() (*BackupStatus, error) {
	st := &BackupStatus{Configured: a.vault != nil && a.encryptor.IsConfigured()}

	if a.vault != nil {
		version, err := a.service.SnapshotVersion()
		if err != nil {
			return nil, err
		}
		st.RemoteVersion = version
		if version > 0 {
			st.RemoteTakenAt = time.Unix(version, 0)
		}
	}

	if u, ok := a.store.(interface {
		UpdatedAt(lab.Collection) (time.Time, bool, error)
	}); ok {
		for _, c := range lab.Collections() {
			t, found, err := u.UpdatedAt(c)
			if err != nil {
				return nil, err
			}
			if found && t.After(st.LocalUpdated) {
				st.LocalUpdated = t
			}
		}
	}
	return st, nil
}

// PullSnapshot unlocks the private key with passphrase and replaces local
// state with the vault's snapshot.
func (a *LabApp) PullSnapshot(passphrase string) (*lab.Snapshot, error) {
	dctx, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key: %w", err)
	}
	var snap *lab.Snapshot
	err = a.mutate("", func() (err error) {
		snap, err = a.service.PullSnapshot(dctx)
		return err
	})
	return snap, err
}

// BackupLocal copies the store to dest. Only file-backed stores support it.
func (a *LabApp) BackupLocal(dest string) error {
	b, ok := a.store.(interface{ BackupTo(string) error })
	if !ok {
		return fmt.Errorf("%s store cannot be copied", a.cfg.Database.Type)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s already exists", dest)
	}
	return b.BackupTo(dest)
}

// Close finalizes the operation and closes all resources.
// For a persisted operation it records the final status and, when
// backup.auto_push is set and a vault is configured, pushes a snapshot.
func (a *LabApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if a.cfg.Backup.AutoPush && a.op.Succeeded() && a.vault != nil && a.encryptor.IsConfigured() {
			if _, err := a.service.PushSnapshot(); err != nil {
				a.op.Fail()
				firstErr = fmt.Errorf("pushing snapshot: %w", err)
			}
		}

		if err := a.store.FinishOperation(a.op.ID, a.op.Status); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.store.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

