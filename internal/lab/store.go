package lab

import (
	"encoding/json"
	"fmt"
)

// Collection names one of the independently persisted lists.
type Collection string

const (
	CollectionMachines    Collection = "labmanager_machines"
	CollectionStudents    Collection = "labmanager_students"
	CollectionClasses     Collection = "labmanager_classes"
	CollectionViolations  Collection = "labmanager_violations"
	CollectionTeacherLogs Collection = "labmanager_teacher_logs"
)

// Collections lists every collection in a stable order.
func Collections() []Collection {
	return []Collection{
		CollectionMachines,
		CollectionStudents,
		CollectionClasses,
		CollectionViolations,
		CollectionTeacherLogs,
	}
}

// Store persists whole collections as serialized lists.
// There are no transactions spanning collections: a caller updating two
// collections issues two Saves, and readers must tolerate the state between them.
type Store interface {
	// Load returns the serialized list stored under c.
	// ok is false when nothing has ever been saved for c.
	Load(c Collection) (data []byte, ok bool, err error)

	// Save replaces the list stored under c. Each Save is all-or-nothing.
	Save(c Collection, data []byte) error

	// Clear removes every collection.
	Clear() error

	// Close releases the underlying resources.
	Close() error
}

// loadList reads and decodes a collection. A missing collection is an empty list.
func loadList[T any](s Store, c Collection) ([]T, error) {
	data, ok, err := s.Load(c)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c, err)
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveList encodes items and replaces the collection.
func saveList[T any](s Store, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c, err)
	}
	if err := s.Save(c, data); err != nil {
		return fmt.Errorf("saving %s: %w", c, err)
	}
	return nil
}

// exists reports whether c has been saved before.
func exists(s Store, c Collection) (bool, error) {
	_, ok, err := s.Load(c)
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", c, err)
	}
	return ok, nil
}
