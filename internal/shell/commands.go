package shell

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/csvdesk/internal/paths"
	"github.com/mesh-intelligence/csvdesk/internal/render"
	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/internal/tables"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

func importCommand(s *Shell, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
		// A bare number picks from the work directory unless a file has that
		// name, as given or inside the work directory.
		if _, err := strconv.Atoi(path); err == nil && !exists(path) {
			if inWork := filepath.Join(s.opts.WorkDir, path); exists(inWork) {
				path = inWork
			} else {
				files, ok := s.csvFiles()
				if !ok {
					return nil
				}
				if path, ok = s.pick(files, path); !ok {
					return nil
				}
			}
		}
	} else {
		files, ok := s.csvFiles()
		if !ok {
			return nil
		}
		s.println("CSV files available:")
		render.List(s.out, files)

		answer, ok := s.ask("Choose a file to import (number): ")
		if !ok {
			return nil
		}
		if path, ok = s.pick(files, answer); !ok {
			return nil
		}
	}

	if err := s.store.Import(path); err != nil {
		slog.Debug("import failed", "path", path, "error", err)
		switch {
		case errors.Is(err, types.ErrNotFound):
			s.printf("Could not import %s: file not found.\n", path)
		case errors.Is(err, types.ErrEmptyContent):
			s.printf("Could not import %s: file is empty.\n", path)
		default:
			s.printf("Could not import %s.\n", path)
		}
		return nil
	}
	s.current = path
	s.printf("Imported %s.\n", path)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// pick returns the item at the 1-based position in answer.
func (s *Shell) pick(items []string, answer string) (string, bool) {
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(items) {
		s.println("Invalid choice.")
		return "", false
	}
	return items[n-1], true
}

// csvFiles lists the work directory, reporting when there is nothing to offer.
func (s *Shell) csvFiles() ([]string, bool) {
	files, err := paths.ListCSV(s.opts.WorkDir)
	if err != nil {
		s.printf("Could not read %s: %v\n", s.opts.WorkDir, err)
		return nil, false
	}
	if len(files) == 0 {
		s.printf("No CSV files found in %s.\n", s.opts.WorkDir)
		return nil, false
	}
	return files, true
}

func filesCommand(s *Shell, _ []string) error {
	files, ok := s.csvFiles()
	if !ok {
		return nil
	}
	s.println("CSV files available:")
	render.List(s.out, files)
	return nil
}

func tablesCommand(s *Shell, _ []string) error {
	s.listTables()
	return nil
}

func showCommand(s *Shell, args []string) error {
	key, ok := s.resolve(args)
	if !ok {
		return nil
	}
	s.current = key
	s.display(s.store.Get(key))
	return nil
}

func sortCommand(s *Shell, args []string) error {
	var column string
	if len(args) > 0 {
		column = args[0]
		args = args[1:]
	}
	key, ok := s.resolve(args)
	if !ok {
		return nil
	}
	t := s.store.Get(key)

	if column == "" {
		s.println("Columns:")
		render.List(s.out, t.Header())
		answer, ok := s.ask("Column number to sort by: ")
		if !ok {
			return nil
		}
		column = answer
	}

	idx, err := tables.ColumnIndex(t.Header(), column)
	if err != nil {
		s.printf("Invalid column %s.\n", column)
		return nil
	}

	sorted, err := s.store.Sort(key, idx)
	if err != nil {
		slog.Debug("sort failed", "key", key, "column", idx, "error", err)
		s.printf("Invalid column %s.\n", column)
		return nil
	}
	s.current = key
	s.display(sorted)
	return nil
}

func mergeCommand(s *Shell, args []string) error {
	if len(args) == 0 {
		if !s.listTables() {
			return nil
		}
		answer, ok := s.ask("Tables to merge (numbers separated by spaces): ")
		if !ok {
			return nil
		}
		args = strings.Fields(answer)
	}

	keys := make([]string, 0, len(args))
	for _, ref := range args {
		key, ok := s.store.Resolve(ref)
		if !ok {
			s.println("Invalid choice.")
			return nil
		}
		keys = append(keys, key)
	}

	merged := s.store.Merge(keys)
	if merged.Empty() {
		s.println("Nothing to merge.")
		return nil
	}
	s.display(merged)

	answer, ok := s.ask("Save merged table? (yes/no): ")
	if !ok {
		return nil
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
	default:
		s.println("Merged table not saved.")
		return nil
	}

	name, ok := s.ask("File name (without extension): ")
	if !ok || name == "" {
		s.println("Merged table not saved.")
		return nil
	}
	path := strings.TrimSuffix(name, paths.CSVExt) + paths.CSVExt
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.opts.WorkDir, path)
	}
	if err := storage.WriteDelimited(path, merged.Rows); err != nil {
		s.printf("Could not save %s: %v\n", path, err)
		return nil
	}
	s.printf("Saved to %s.\n", path)
	return nil
}

func saveCommand(s *Shell, args []string) error {
	if len(args) != 2 {
		s.println("Usage: save <n|key> <path>")
		return nil
	}
	key, ok := s.resolve(args[:1])
	if !ok {
		return nil
	}
	path := args[1]

	opts := s.opts.Storage
	opts.Source = key
	if err := storage.Save(path, s.store.Get(key), opts); err != nil {
		s.printf("Could not save %s: %v\n", path, err)
		return nil
	}
	s.printf("Saved %s to %s.\n", key, path)
	return nil
}
