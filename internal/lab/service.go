package lab

import (
	"fmt"
	"time"
)

// Settings carries the per-lab values the service needs besides its collaborators.
type Settings struct {
	LabID       string
	TeacherName string
	Seed        SeedPolicy
	Location    *time.Location // calendar used for "today"; defaults to time.Local
}

// LabService is the orchestration layer over the store. Every operation reads
// whole collections, applies the change and writes whole collections back.
// It assumes a single writer.
type LabService struct {
	store     Store
	vault     Vault
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	settings  Settings
}

// NewLabService creates a LabService with the provided dependencies.
// vault and encryptor may be nil when backups are not configured.
func NewLabService(store Store, vault Vault, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator, settings Settings) *LabService {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.TeacherName == "" {
		settings.TeacherName = "Admin"
	}
	return &LabService{
		store:     store,
		vault:     vault,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		settings:  settings,
	}
}

// Init seeds any collection that has never been written.
// Machines and classes get the seed policy's data; students get an empty list.
// Collections that already exist are left alone, even when empty.
func (s *LabService) Init() error {
	if err := s.settings.Seed.Validate(); err != nil {
		return fmt.Errorf("seed policy: %w", err)
	}

	ok, err := exists(s.store, CollectionMachines)
	if err != nil {
		return err
	}
	if !ok {
		machines := s.settings.Seed.machines()
		if err := saveList(s.store, CollectionMachines, machines); err != nil {
			return err
		}
		s.logger.Info("machines seeded", "count", len(machines))
	}

	ok, err = exists(s.store, CollectionStudents)
	if err != nil {
		return err
	}
	if !ok {
		if err := saveList(s.store, CollectionStudents, []Student{}); err != nil {
			return err
		}
	}

	ok, err = exists(s.store, CollectionClasses)
	if err != nil {
		return err
	}
	if !ok {
		classes := s.settings.Seed.classes()
		if err := saveList(s.store, CollectionClasses, classes); err != nil {
			return err
		}
		s.logger.Info("classes seeded", "count", len(classes))
	}

	return nil
}

// Reset clears every collection and seeds again. It does not ask for
// confirmation; callers gate it.
func (s *LabService) Reset() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	s.logger.Warn("all collections cleared")
	return s.Init()
}

// TeacherName returns the name recorded on ledger entries and teaching logs.
func (s *LabService) TeacherName() string {
	return s.settings.TeacherName
}
