package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// SaveTable stores t under name, replacing any snapshot with the same name.
// The write is transactional: either the whole table is stored or nothing
// changes. It returns the new snapshot ID.
func (d *DB) SaveTable(name, source string, t types.Table) (string, error) {
	if name == "" {
		return "", types.ErrInvalidTableName
	}

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSnapshot(tx, name); err != nil {
		return "", err
	}

	id := newUUID()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(
		`INSERT INTO snapshots (snapshot_id, name, source, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, source, t.Len(), createdAt,
	); err != nil {
		return "", fmt.Errorf("inserting snapshot %s: %w", name, err)
	}

	if err := insertRows(tx, id, t.Rows); err != nil {
		return "", fmt.Errorf("inserting rows for %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing snapshot %s: %w", name, err)
	}

	slog.Debug("sqlite snapshot saved", "path", d.path, "name", name, "rows", t.Len())
	return id, nil
}

// insertRows writes row widths and cells with prepared statements.
func insertRows(tx *sql.Tx, id string, rows []types.Row) error {
	rowStmt, err := tx.Prepare(`INSERT INTO snapshot_rows (snapshot_id, row_num, width) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing row insert: %w", err)
	}
	defer rowStmt.Close()

	cellStmt, err := tx.Prepare(`INSERT INTO snapshot_cells (snapshot_id, row_num, col_num, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing cell insert: %w", err)
	}
	defer cellStmt.Close()

	for r, row := range rows {
		if _, err := rowStmt.Exec(id, r, len(row)); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
		for c, cell := range row {
			if _, err := cellStmt.Exec(id, r, c, cell); err != nil {
				return fmt.Errorf("row %d col %d: %w", r, c, err)
			}
		}
	}
	return nil
}

// deleteSnapshot removes a snapshot and its rows. Missing names are ignored.
func deleteSnapshot(tx *sql.Tx, name string) error {
	var id string
	err := tx.QueryRow(`SELECT snapshot_id FROM snapshots WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up snapshot %s: %w", name, err)
	}

	for _, q := range []string{
		`DELETE FROM snapshot_cells WHERE snapshot_id = ?`,
		`DELETE FROM snapshot_rows WHERE snapshot_id = ?`,
		`DELETE FROM snapshots WHERE snapshot_id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("deleting snapshot %s: %w", name, err)
		}
	}
	return nil
}

// DeleteTable removes the snapshot called name.
// Returns an error wrapping types.ErrNotFound if it does not exist.
func (d *DB) DeleteTable(name string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE name = ?`, name).Scan(&n); err != nil {
		return fmt.Errorf("counting snapshot %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %q: %w", name, types.ErrNotFound)
	}
	if err := deleteSnapshot(tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadTable reads the snapshot called name.
// Returns an error wrapping types.ErrNotFound if it does not exist.
func (d *DB) LoadTable(name string) (types.Table, error) {
	var id string
	var count int
	err := d.db.QueryRow(`SELECT snapshot_id, row_count FROM snapshots WHERE name = ?`, name).Scan(&id, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Table{}, fmt.Errorf("snapshot %q in %s: %w", name, d.path, types.ErrNotFound)
	}
	if err != nil {
		return types.Table{}, fmt.Errorf("looking up snapshot %s: %w", name, err)
	}

	rows := make([]types.Row, count)
	widthRows, err := d.db.Query(`SELECT row_num, width FROM snapshot_rows WHERE snapshot_id = ? ORDER BY row_num`, id)
	if err != nil {
		return types.Table{}, fmt.Errorf("querying rows of %s: %w", name, err)
	}
	for widthRows.Next() {
		var r, width int
		if err := widthRows.Scan(&r, &width); err != nil {
			widthRows.Close()
			return types.Table{}, fmt.Errorf("scanning row of %s: %w", name, err)
		}
		if r < 0 || r >= count {
			widthRows.Close()
			return types.Table{}, fmt.Errorf("snapshot %s: row %d outside %d rows", name, r, count)
		}
		rows[r] = make(types.Row, width)
	}
	if err := widthRows.Err(); err != nil {
		widthRows.Close()
		return types.Table{}, fmt.Errorf("iterating rows of %s: %w", name, err)
	}
	widthRows.Close()

	cells, err := d.db.Query(`SELECT row_num, col_num, value FROM snapshot_cells WHERE snapshot_id = ?`, id)
	if err != nil {
		return types.Table{}, fmt.Errorf("querying cells of %s: %w", name, err)
	}
	defer cells.Close()
	for cells.Next() {
		var r, c int
		var value string
		if err := cells.Scan(&r, &c, &value); err != nil {
			return types.Table{}, fmt.Errorf("scanning cell of %s: %w", name, err)
		}
		if r < 0 || r >= count || c < 0 || c >= len(rows[r]) {
			return types.Table{}, fmt.Errorf("snapshot %s: cell (%d,%d) out of range", name, r, c)
		}
		rows[r][c] = value
	}
	if err := cells.Err(); err != nil {
		return types.Table{}, fmt.Errorf("iterating cells of %s: %w", name, err)
	}

	return types.Table{Rows: rows}, nil
}

// Snapshots lists stored snapshots ordered by name.
func (d *DB) Snapshots() ([]Snapshot, error) {
	rows, err := d.db.Query(`SELECT snapshot_id, name, source, row_count, created_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Source, &s.Rows, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		s.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of %s: %w", s.Name, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TableNames returns the names of stored snapshots in order.
func (d *DB) TableNames() ([]string, error) {
	snaps, err := d.Snapshots()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(snaps))
	for i, s := range snaps {
		names[i] = s.Name
	}
	return names, nil
}
