package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvdesk/internal/paths"
	"github.com/mesh-intelligence/csvdesk/internal/render"
	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/internal/tables"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// inputPath finds name as given, or else inside the work directory.
func (e *env) inputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(e.workDir, name)
}

// importAll registers each file in a fresh store and returns the store and
// the keys that loaded. A file that fails to import is an error unless
// skipMissing is set, in which case it is reported and left out.
func (e *env) importAll(cmd *cobra.Command, names []string, skipMissing bool) (*tables.Store, []string, error) {
	store := tables.NewStore(e.storageOptions())
	keys := make([]string, 0, len(names))
	for _, name := range names {
		path := e.inputPath(name)
		if err := store.Import(path); err != nil {
			if !skipMissing {
				return nil, nil, importError(path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", name, err)
			continue
		}
		keys = append(keys, path)
	}
	return store, keys, nil
}

func importError(path string, err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return userError("could not import %s: file not found", path)
	case errors.Is(err, types.ErrEmptyContent):
		return userError("could not import %s: file is empty", path)
	default:
		return userError("could not import %s: %w", path, err)
	}
}

// save writes t to path, choosing the format from the extension.
func (e *env) save(cmd *cobra.Command, path, source string, t types.Table) error {
	opts := e.storageOptions()
	opts.Source = source
	if err := storage.Save(path, t, opts); err != nil {
		return sysError("save %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s.\n", path)
	return nil
}

func newFilesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List CSV files in the work directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := paths.ListCSV(e.workDir)
			if err != nil {
				return userError("list %s: %w", e.workDir, err)
			}
			out := cmd.OutOrStdout()
			if e.flags.jsonMode {
				if files == nil {
					files = []string{}
				}
				return writeJSON(out, files)
			}
			if len(files) == 0 {
				fmt.Fprintf(out, "No CSV files found in %s.\n", e.workDir)
				return nil
			}
			return render.List(out, files)
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Display a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, keys, err := e.importAll(cmd, args, false)
			if err != nil {
				return err
			}
			return e.display(cmd.OutOrStdout(), store.Get(keys[0]))
		},
	}
}

func newSortCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sort <file> <column>",
		Short: "Display a table sorted by a column",
		Long: "Sort the data rows of a table by a column, given as a 1-based number or a\n" +
			"header label. Cells are compared as text, so \"10\" sorts before \"2\".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, keys, err := e.importAll(cmd, args[:1], false)
			if err != nil {
				return err
			}
			key := keys[0]

			column, err := tables.ColumnIndex(store.Get(key).Header(), args[1])
			if err != nil {
				return userError("invalid column %s: %w", args[1], err)
			}
			sorted, err := store.Sort(key, column)
			if err != nil {
				return userError("invalid column %s: %w", args[1], err)
			}
			slog.Debug("sorted", "key", key, "column", column, "rows", sorted.Len())

			if err := e.display(cmd.OutOrStdout(), sorted); err != nil {
				return err
			}
			if output != "" {
				return e.save(cmd, output, key, sorted)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the sorted table to this file")
	return cmd
}

func newMergeCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge tables in argument order",
		Long: "Merge tables: the header of the first file is kept and the data rows of\n" +
			"every file are appended in argument order. Files that cannot be\n" +
			"imported are skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, keys, err := e.importAll(cmd, args, true)
			if err != nil {
				return err
			}
			merged := store.Merge(keys)
			if merged.Empty() {
				return userError("nothing to merge")
			}

			if err := e.display(cmd.OutOrStdout(), merged); err != nil {
				return err
			}
			if output != "" {
				return e.save(cmd, paths.WithExt(output, paths.CSVExt), keys[0], merged)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the merged table (.csv is added when there is no extension)")
	return cmd
}

func newConvertCmd(e *env) *cobra.Command {
	var table, from, to string

	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Copy a table between CSV, JSONL and SQLite files",
		Long: "Copy a table between formats. Formats follow the file extension\n" +
			"(.csv, .jsonl, .db) unless --from or --to is given. --table names the\n" +
			"snapshot inside a SQLite file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := e.inputPath(args[0]), args[1]

			srcFormat, dstFormat := storage.FormatOf(src), storage.FormatOf(dst)
			if from != "" {
				f, err := storage.ParseFormat(from)
				if err != nil {
					return userError("--from: %w", err)
				}
				srcFormat = f
			}
			if to != "" {
				f, err := storage.ParseFormat(to)
				if err != nil {
					return userError("--to: %w", err)
				}
				dstFormat = f
			}

			opts := e.storageOptions()
			if table != "" {
				opts.Table = table
			}
			t, err := storage.OpenAs(src, srcFormat, opts)
			if err != nil {
				return importError(src, err)
			}
			if t.Empty() {
				return importError(src, types.ErrEmptyContent)
			}

			opts.Source = src
			if err := storage.SaveAs(dst, dstFormat, t, opts); err != nil {
				return sysError("save %s: %w", dst, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s (%d rows).\n", src, dst, t.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "SQLite snapshot name (default from config)")
	cmd.Flags().StringVar(&from, "from", "", "source format: csv, jsonl, sqlite")
	cmd.Flags().StringVar(&to, "to", "", "destination format: csv, jsonl, sqlite")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return sysError("write json: %w", err)
	}
	return nil
}
