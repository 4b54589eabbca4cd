// Package storage reads and writes tables on disk. The format is chosen from
// the file extension: comma-separated text by default, JSON lines for .jsonl,
// and a SQLite snapshot file for .db and .sqlite.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/csvdesk/internal/sqlite"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// Format identifies an on-disk table encoding.
type Format string

// Supported formats.
const (
	FormatCSV    Format = "csv"
	FormatJSONL  Format = "jsonl"
	FormatSQLite Format = "sqlite"
)

// Options carries format-specific settings.
type Options struct {
	// Table names the snapshot inside a SQLite file.
	Table string
	// Source is recorded alongside a SQLite snapshot.
	Source string
}

func (o Options) table() string {
	if o.Table == "" {
		return types.DefaultSQLiteTable
	}
	return o.Table
}

// FormatOf maps a path to its format by extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatCSV, FormatJSONL, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", name, types.ErrUnknownFormat)
	}
}

// Open reads the table stored at path.
func Open(path string, opts Options) (types.Table, error) {
	return OpenAs(path, FormatOf(path), opts)
}

// OpenAs reads path using an explicit format.
func OpenAs(path string, format Format, opts Options) (types.Table, error) {
	switch format {
	case FormatCSV:
		return ReadDelimited(path)
	case FormatJSONL:
		return ReadJSONL(path)
	case FormatSQLite:
		return openSQLite(path, opts)
	default:
		return types.Table{}, fmt.Errorf("%q: %w", format, types.ErrUnknownFormat)
	}
}

// Save writes t to path, replacing existing content.
func Save(path string, t types.Table, opts Options) error {
	return SaveAs(path, FormatOf(path), t, opts)
}

// SaveAs writes t to path using an explicit format.
func SaveAs(path string, format Format, t types.Table, opts Options) error {
	switch format {
	case FormatCSV:
		return WriteDelimited(path, t.Rows)
	case FormatJSONL:
		return WriteJSONL(path, t.Rows)
	case FormatSQLite:
		return saveSQLite(path, t, opts)
	default:
		return fmt.Errorf("%q: %w", format, types.ErrUnknownFormat)
	}
}

func openSQLite(path string, opts Options) (types.Table, error) {
	db, err := sqlite.OpenExisting(path)
	if err != nil {
		return types.Table{}, err
	}
	defer db.Close()

	t, err := db.LoadTable(opts.table())
	if errors.Is(err, types.ErrNotFound) {
		if names, nerr := db.TableNames(); nerr == nil && len(names) > 0 {
			return types.Table{}, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
		}
	}
	return t, err
}

func saveSQLite(path string, t types.Table, opts Options) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	if _, err := db.SaveTable(opts.table(), opts.Source, t); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}
