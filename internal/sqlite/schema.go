package sqlite

// Schema DDL for snapshot storage. A snapshot is one named table; its rows
// keep their own width so ragged tables survive a round trip.
const (
	createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
    snapshot_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    source TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createSnapshotRows = `CREATE TABLE IF NOT EXISTS snapshot_rows (
    snapshot_id TEXT NOT NULL,
    row_num INTEGER NOT NULL,
    width INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, row_num),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id)
);`

	createSnapshotCells = `CREATE TABLE IF NOT EXISTS snapshot_cells (
    snapshot_id TEXT NOT NULL,
    row_num INTEGER NOT NULL,
    col_num INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, row_num, col_num),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id)
);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSnapshots,
	createSnapshotRows,
	createSnapshotCells,
}
