package database

import (
	"time"

	"lab-go/internal/lab"
)

// Operation is one journaled CLI command.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // running, success or error
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Store is a lab.Store that also keeps the operation journal and knows its
// schema state.
type Store interface {
	lab.Store

	// CreateOperation journals the start of a command and returns its id.
	CreateOperation(operation, parameters string) (*Operation, error)

	// FinishOperation records the final status of a journaled command.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*Operation, error)

	// CheckMigrations verifies the schema is up to date.
	CheckMigrations() error
}
