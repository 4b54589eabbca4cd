// Package tables holds the in-memory table registry and the operations that
// derive new tables from it: merging several tables and sorting one by a
// column. Stored tables are never modified; every operation returns a copy.
package tables

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// Entry is one registered table.
type Entry struct {
	ID       string
	Key      string
	Source   string
	LoadedAt time.Time
	Table    types.Table
}

// Source gives read access to registered tables by key.
type Source interface {
	// Lookup returns the table stored under key and whether it exists.
	Lookup(key string) (types.Table, bool)
}

// Store owns the set of loaded tables, keyed by source identifier. Keys keep
// the order in which they were first loaded.
type Store struct {
	entries map[string]*Entry
	order   []string
	opts    storage.Options
}

// NewStore creates an empty store. opts is passed to storage.Open on Import.
func NewStore(opts storage.Options) *Store {
	return &Store{
		entries: make(map[string]*Entry),
		opts:    opts,
	}
}

// newID generates a UUID v7 for a table entry.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Load parses delimited text from r and registers it under key.
// Returns types.ErrEmptyContent when r holds no rows; nothing is registered
// on any error. Loading an existing key replaces its table.
func (s *Store) Load(key string, r io.Reader) error {
	t, err := storage.ParseDelimited(r)
	if err != nil {
		return fmt.Errorf("loading %s: %w", key, err)
	}
	return s.add(key, key, t)
}

// Import reads the file at path, in the format given by its extension, and
// registers it under path. A missing file returns an error wrapping
// types.ErrNotFound and an empty one types.ErrEmptyContent.
func (s *Store) Import(path string) error {
	opts := s.opts
	opts.Source = path
	t, err := storage.Open(path, opts)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	return s.add(path, path, t)
}

// Add registers an already-built table under key.
func (s *Store) Add(key string, t types.Table) error {
	return s.add(key, "", t)
}

func (s *Store) add(key, source string, t types.Table) error {
	if t.Empty() {
		return fmt.Errorf("loading %s: %w", key, types.ErrEmptyContent)
	}

	e := &Entry{
		ID:       newID(),
		Key:      key,
		Source:   source,
		LoadedAt: time.Now(),
		Table:    t.Clone(),
	}
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = e

	slog.Debug("table loaded", "key", key, "id", e.ID, "rows", t.Len())
	return nil
}

// Get returns the rows stored under key, or an empty table when key is not
// registered.
func (s *Store) Get(key string) types.Table {
	t, _ := s.Lookup(key)
	return t
}

// Lookup returns a copy of the table stored under key and whether it exists.
func (s *Store) Lookup(key string) (types.Table, bool) {
	e, ok := s.entries[key]
	if !ok {
		return types.Table{}, false
	}
	return e.Table.Clone(), true
}

// Keys returns the registered keys in insertion order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of registered tables.
func (s *Store) Len() int {
	return len(s.order)
}

// Entries returns metadata and copies of every registered table in key order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, k := range s.order {
		e := *s.entries[k]
		e.Table = e.Table.Clone()
		out = append(out, e)
	}
	return out
}

// Resolve maps ref to a registered key. ref is either a key or a 1-based
// position in Keys.
func (s *Store) Resolve(ref string) (string, bool) {
	if _, ok := s.entries[ref]; ok {
		return ref, true
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(s.order) {
		return "", false
	}
	return s.order[n-1], true
}

// Merge combines the tables stored under keys. See Merge.
func (s *Store) Merge(keys []string) types.Table {
	return Merge(s, keys)
}

// Sort returns the table under key with data rows sorted by column.
// See SortByColumn.
func (s *Store) Sort(key string, column int) (types.Table, error) {
	return SortByColumn(s, key, column)
}
