package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const emptyCellLine = "\"\"\n"

// ParseDelimited reads comma-separated records from r. Quoted fields may
// contain commas, quotes and line breaks. Rows may differ in width.
func ParseDelimited(r io.Reader) (types.Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return types.Table{}, fmt.Errorf("skipping byte order mark: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []types.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.Table{}, fmt.Errorf("parsing csv: %w", err)
		}
		rows = append(rows, types.Row(rec))
	}
	return types.Table{Rows: rows}, nil
}

// ReadDelimited opens path and parses it with ParseDelimited. A missing file
// returns an error wrapping types.ErrNotFound.
func ReadDelimited(path string) (types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Table{}, fmt.Errorf("opening %s: %w", path, types.ErrNotFound)
		}
		return types.Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseDelimited(f)
	if err != nil {
		return types.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	slog.Debug("csv read", "path", path, "rows", t.Len())
	return t, nil
}

// WriteDelimited serializes rows to path, one record per line, replacing any
// existing file atomically.
func WriteDelimited(path string, rows []types.Row) error {
	var buf bytes.Buffer
	if err := EncodeDelimited(&buf, rows); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	slog.Debug("csv written", "path", path, "rows", len(rows))
	return nil
}

// EncodeDelimited writes rows to w in comma-separated form. A row holding a
// single empty cell is written as "" so readers do not mistake it for a
// blank line.
func EncodeDelimited(w io.Writer, rows []types.Row) error {
	cw := csv.NewWriter(w)
	for i, row := range rows {
		if len(row) == 1 && row[0] == "" {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("encoding row %d: %w", i, err)
			}
			if _, err := io.WriteString(w, emptyCellLine); err != nil {
				return fmt.Errorf("encoding row %d: %w", i, err)
			}
			continue
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
