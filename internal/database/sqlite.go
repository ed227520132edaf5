package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lab-go/internal/database/migrations"
	"lab-go/internal/lab"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps each collection as one row of the collections table.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore opens the database at path and applies pending migrations.
// path can be a file path or ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Collections

func (s *SQLiteStore) Load(c lab.Collection) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM collections WHERE key = ?", string(c)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading collection %s: %w", c, err)
	}
	return []byte(value), true, nil
}

func (s *SQLiteStore) Save(c lab.Collection, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(c), string(data), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing collection %s: %w", c, err)
	}
	return nil
}

// Clear removes every collection. The operation journal is kept.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM collections"); err != nil {
		return fmt.Errorf("clearing collections: %w", err)
	}
	return nil
}

// UpdatedAt returns when c was last saved; ok is false if it never was.
func (s *SQLiteStore) UpdatedAt(c lab.Collection) (t time.Time, ok bool, err error) {
	err = s.db.QueryRow("SELECT updated_at FROM collections WHERE key = ?", string(c)).Scan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("reading collection %s: %w", c, err)
	}
	return t, true, nil
}

// Operation journal

func (s *SQLiteStore) CreateOperation(operation, parameters string) (*Operation, error) {
	started := s.now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO operations (operation, parameters, status, started_at) VALUES (?, ?, 'running', ?)",
		operation, parameters, started,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return &Operation{ID: id, Operation: operation, Parameters: parameters, Status: "running", StartedAt: started}, nil
}

func (s *SQLiteStore) FinishOperation(id int64, status string) error {
	res, err := s.db.Exec("UPDATE operations SET status = ?, finished_at = ? WHERE id = ?", status, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("operation %d: %w", id, lab.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListOperations(limit int) ([]*Operation, error) {
	rows, err := s.db.Query(
		"SELECT id, operation, parameters, status, started_at, finished_at FROM operations ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// BackupTo writes a consistent copy of the database to destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
