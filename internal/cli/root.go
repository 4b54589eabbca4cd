// Package cli implements the csvdesk command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvdesk/internal/config"
	"github.com/mesh-intelligence/csvdesk/internal/logging"
	"github.com/mesh-intelligence/csvdesk/internal/paths"
	"github.com/mesh-intelligence/csvdesk/internal/render"
	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir   string
	workDir     string
	jsonMode    bool
	separator   bool
	logLevel    string
	interactive bool
}

// env is the resolved runtime state shared by subcommands. It is filled in
// by the root command's PersistentPreRunE.
type env struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	workDir   string
}

func (e *env) renderOptions() render.Options {
	return render.Options{Separator: e.cfg.Separator}
}

func (e *env) storageOptions() storage.Options {
	return storage.Options{Table: e.cfg.SQLiteTable}
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, a ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, a...)}
}

func sysError(format string, a ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, a...)}
}

// NewRootCmd creates the top-level "csvdesk" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "csvdesk",
		Short: "Import, display, sort and merge CSV tables",
		Long: "csvdesk loads CSV files into an in-memory table store and displays them\n" +
			"as aligned grids. Tables can be sorted by a column, merged, and saved\n" +
			"as CSV, JSONL or SQLite.",
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return e.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.flags.interactive {
				return runShell(cmd, e)
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&e.flags.workDir, "work-dir", "", "directory searched for CSV files (default: .)")
	pf.BoolVar(&e.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&e.flags.separator, "separator", false, "draw a dashed line after each row")
	pf.StringVar(&e.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().BoolVarP(&e.flags.interactive, "interactive", "i", false, "start the interactive shell")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(e))
	root.AddCommand(newShellCmd(e))
	root.AddCommand(newFilesCmd(e))
	root.AddCommand(newShowCmd(e))
	root.AddCommand(newSortCmd(e))
	root.AddCommand(newMergeCmd(e))
	root.AddCommand(newConvertCmd(e))
	root.AddCommand(newSnapshotsCmd(e))

	return root
}

// setup resolves directories, loads configuration, applies flag overrides
// and installs the logger.
func (e *env) setup(cmd *cobra.Command) error {
	dir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	e.configDir = dir

	cfg, err := config.Load(dir)
	if err != nil {
		return userError("%w", err)
	}
	if e.flags.logLevel != "" {
		cfg.LogLevel = e.flags.logLevel
	}
	if cmd.Flags().Changed("separator") {
		cfg.Separator = e.flags.separator
	}
	if err := cfg.Validate(); err != nil {
		return userError("%w", err)
	}
	e.cfg = cfg
	e.workDir = paths.ResolveWorkDir(e.flags.workDir, cfg.WorkDir)

	logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	slog.Debug("config loaded", "config_dir", dir, "work_dir", e.workDir)
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to a process exit code. Errors that carry
// no code, such as cobra argument errors, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// display writes t as a grid or, in --json mode, as a JSON document.
func (e *env) display(w io.Writer, t types.Table) error {
	if e.flags.jsonMode {
		if err := render.JSON(w, t); err != nil {
			return sysError("write json: %w", err)
		}
		return nil
	}
	err := render.Table(w, t.Rows, e.renderOptions())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, render.ErrNoRows):
		fmt.Fprintln(w, "No data to display.")
		return nil
	case errors.Is(err, types.ErrInvalidColumn):
		return userError("cannot display table: %w", err)
	default:
		return sysError("write table: %w", err)
	}
}
