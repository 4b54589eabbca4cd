package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// maxJSONLLine bounds a single record line.
const maxJSONLLine = 16 << 20

// ReadJSONL reads a file holding one JSON array of strings per line.
// Blank and malformed lines are skipped.
func ReadJSONL(path string) (types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Table{}, fmt.Errorf("opening %s: %w", path, types.ErrNotFound)
		}
		return types.Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []types.Row
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row types.Row
		if err := json.Unmarshal(line, &row); err != nil {
			skipped++
			continue
		}
		if row == nil {
			row = types.Row{}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return types.Table{}, fmt.Errorf("scanning %s: %w", path, err)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed jsonl lines", "path", path, "count", skipped)
	}
	return types.Table{Rows: rows}, nil
}

// WriteJSONL writes one JSON array per row, replacing path atomically.
func WriteJSONL(path string, rows []types.Row) error {
	var buf bytes.Buffer
	for i, row := range rows {
		if row == nil {
			row = types.Row{}
		}
		b, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
