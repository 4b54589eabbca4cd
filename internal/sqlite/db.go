// Package sqlite stores table snapshots in a SQLite file. Each snapshot is a
// named copy of a table's rows and cells, so several tables can share one
// file and be read back exactly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// DB is an open snapshot file.
type DB struct {
	path string
	db   *sql.DB
}

// Snapshot describes one stored table.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens or creates the SQLite file at path and applies the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection keeps the file single-writer.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema to %s: %w", path, err)
		}
	}

	slog.Debug("sqlite opened", "path", path)
	return &DB{path: path, db: db}, nil
}

// OpenExisting opens path like Open but returns an error wrapping
// types.ErrNotFound instead of creating a missing file.
func OpenExisting(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("opening %s: %w", path, types.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Open(path)
}

// Close releases the underlying connection. Close is idempotent.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Path returns the file the DB was opened from.
func (d *DB) Path() string {
	return d.path
}

// newUUID generates a UUID v7 string, falling back to v4.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
