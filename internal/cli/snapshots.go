package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvdesk/internal/sqlite"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

func newSnapshotsCmd(e *env) *cobra.Command {
	var del string

	cmd := &cobra.Command{
		Use:   "snapshots <file.db>",
		Short: "List or delete the tables stored in a SQLite file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.inputPath(args[0])
			db, err := sqlite.OpenExisting(path)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return userError("could not open %s: file not found", path)
				}
				return sysError("open %s: %w", path, err)
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if del != "" {
				if err := db.DeleteTable(del); err != nil {
					if errors.Is(err, types.ErrNotFound) {
						return userError("%w", err)
					}
					return sysError("delete %s: %w", del, err)
				}
				fmt.Fprintf(out, "Deleted %s from %s.\n", del, db.Path())
				return nil
			}

			snaps, err := db.Snapshots()
			if err != nil {
				return sysError("list %s: %w", path, err)
			}
			if e.flags.jsonMode {
				if snaps == nil {
					snaps = []sqlite.Snapshot{}
				}
				return writeJSON(out, snaps)
			}
			if len(snaps) == 0 {
				fmt.Fprintf(out, "No snapshots in %s.\n", db.Path())
				return nil
			}
			for i, s := range snaps {
				fmt.Fprintf(out, "%d. %s  rows=%d  source=%s  saved=%s  id=%s\n",
					i+1, s.Name, s.Rows, s.Source, s.CreatedAt.Format(time.RFC3339), s.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&del, "delete", "", "delete the named snapshot")
	return cmd
}
