package tables

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// SortByColumn returns the table registered under key with its header first
// and its data rows stably sorted in ascending byte order of the cell at
// column. Cells are compared as text, so "10" sorts before "2".
//
// An unknown key or an empty table yields an empty table and no error. A
// column that is negative or past the end of any data row yields an empty
// table and an error wrapping types.ErrInvalidColumn.
func SortByColumn(src Source, key string, column int) (types.Table, error) {
	t, ok := src.Lookup(key)
	if !ok || t.Empty() {
		return types.Table{}, nil
	}

	data := t.DataRows()
	for i, row := range data {
		if column < 0 || column >= len(row) {
			return types.Table{}, fmt.Errorf("column %d of row %d in %s: %w", column, i+1, key, types.ErrInvalidColumn)
		}
	}

	sorted := slices.Clone(data)
	slices.SortStableFunc(sorted, func(a, b types.Row) int {
		return strings.Compare(a[column], b[column])
	})

	out := make([]types.Row, 0, t.Len())
	out = append(out, t.Header())
	out = append(out, sorted...)
	return types.Table{Rows: out}, nil
}

// ColumnIndex resolves a user column reference against header. ref is a
// 1-based column number or an exact header label; the result is 0-based.
// Numbers are checked against the header width.
func ColumnIndex(header types.Row, ref string) (int, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		if n < 1 || n > len(header) {
			return -1, fmt.Errorf("column %d of %d: %w", n, len(header), types.ErrInvalidColumn)
		}
		return n - 1, nil
	}
	if i := slices.Index(header, ref); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("column %q: %w", ref, types.ErrInvalidColumn)
}
