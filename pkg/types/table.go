package types

import "errors"

// Row is an ordered sequence of string cells.
type Row []string

// Table holds rows in file order. Rows[0], when present, is the header.
// Rows are not required to share a width; operations that depend on equal
// widths report ErrInvalidColumn instead.
type Table struct {
	Rows []Row
}

// NewTable wraps rows in a Table without copying.
func NewTable(rows ...Row) Table {
	return Table{Rows: rows}
}

// Len returns the number of rows, header included.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows at all.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Header returns the first row, or nil for an empty table.
func (t Table) Header() Row {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns every row after the header.
func (t Table) DataRows() []Row {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Clone returns a deep copy so callers cannot alias stored rows.
func (t Table) Clone() Table {
	if t.Rows == nil {
		return Table{}
	}
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = make(Row, len(r))
		copy(rows[i], r)
	}
	return Table{Rows: rows}
}

// Engine errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyContent  = errors.New("no rows in content")
	ErrInvalidColumn = errors.New("invalid column")
	ErrUnknownFormat = errors.New("unknown file format")
)
