package lab

import "errors"

var (
	// ErrNotFound means a referenced student, machine or class id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a required field was empty or malformed. Nothing was mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCode means a scanned or typed code is not a lab machine code.
	ErrInvalidCode = errors.New("invalid machine code")

	// ErrNoData means an import source produced no rows.
	ErrNoData = errors.New("no data")
)

// ErrBackupNotConfigured means a snapshot operation was requested without a
// vault or encryptor.
var ErrBackupNotConfigured = errors.New("backup not configured")

// ErrConfirmationRequired means a destructive action was not confirmed.
var ErrConfirmationRequired = errors.New("confirmation required")
