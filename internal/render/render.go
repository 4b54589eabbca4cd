// Package render formats tables for the terminal: an aligned text grid, a
// JSON document for scripting, and numbered pick lists.
package render

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// ColumnSeparator joins cells within a rendered row.
const ColumnSeparator = " | "

// ErrNoRows is returned when there is nothing to render. Callers treat it as
// an informational result, not a failure.
var ErrNoRows = errors.New("no rows to render")

// Options controls grid rendering.
type Options struct {
	// Separator adds a dashed line after each row.
	Separator bool
}

// Widths returns, per column, the longest cell in characters. All rows must
// have the same width; a ragged row returns an error wrapping
// types.ErrInvalidColumn.
func Widths(rows []types.Row) ([]int, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	widths := make([]int, len(rows[0]))
	for i, row := range rows {
		if len(row) != len(widths) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(widths), types.ErrInvalidColumn)
		}
		for j, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}
	return widths, nil
}

// Table writes rows as a grid: each cell left-justified to its column width,
// cells joined by ColumnSeparator. Nothing is written when rows is empty
// (ErrNoRows) or ragged (types.ErrInvalidColumn).
func Table(w io.Writer, rows []types.Row, opts Options) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	widths, err := Widths(rows)
	if err != nil {
		return err
	}

	rule := ""
	if opts.Separator {
		rule = strings.Repeat("-", lineWidth(widths))
	}

	bw := bufio.NewWriter(w)
	fields := make([]string, len(widths))
	for _, row := range rows {
		for j, cell := range row {
			fields[j] = pad(cell, widths[j])
		}
		bw.WriteString(strings.Join(fields, ColumnSeparator))
		bw.WriteByte('\n')
		if opts.Separator {
			bw.WriteString(rule)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// lineWidth is the character width of one rendered row.
func lineWidth(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	total := len(ColumnSeparator) * (len(widths) - 1)
	for _, n := range widths {
		total += n
	}
	return total
}

func pad(cell string, width int) string {
	n := utf8.RuneCountInString(cell)
	if n >= width {
		return cell
	}
	return cell + strings.Repeat(" ", width-n)
}

// jsonTable is the --json output shape.
type jsonTable struct {
	Header types.Row   `json:"header"`
	Rows   []types.Row `json:"rows"`
}

// JSON writes t as an indented {"header": [...], "rows": [...]} document.
// An empty table produces an empty header and no rows.
func JSON(w io.Writer, t types.Table) error {
	out := jsonTable{
		Header: t.Header(),
		Rows:   t.DataRows(),
	}
	if out.Header == nil {
		out.Header = types.Row{}
	}
	if out.Rows == nil {
		out.Rows = []types.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// List writes items as a 1-based numbered list.
func List(w io.Writer, items []string) error {
	for i, item := range items {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, item); err != nil {
			return err
		}
	}
	return nil
}
