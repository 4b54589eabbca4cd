package tables

import (
	"log/slog"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// Merge concatenates the tables registered under keys. The header of the
// first table found becomes the header of the result; the data rows of every
// table found follow in key order, then file order. Unknown keys are skipped.
// Data rows are appended whatever their width. When no key is found the
// result is empty.
func Merge(src Source, keys []string) types.Table {
	var header types.Row
	var rows []types.Row
	found := 0

	for _, key := range keys {
		t, ok := src.Lookup(key)
		if !ok || t.Empty() {
			slog.Debug("merge skipped key", "key", key)
			continue
		}
		if found == 0 {
			header = t.Header()
		}
		found++
		rows = append(rows, t.DataRows()...)
	}

	if found == 0 {
		return types.Table{}
	}

	out := make([]types.Row, 0, len(rows)+1)
	out = append(out, header)
	out = append(out, rows...)

	slog.Debug("tables merged", "requested", len(keys), "found", found, "rows", len(out))
	return types.Table{Rows: out}
}
