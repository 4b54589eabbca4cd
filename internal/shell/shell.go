// Package shell runs the interactive csvdesk session. It owns all blocking
// input and user-facing messages and calls the table engine with resolved
// arguments only.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/term"

	"github.com/mesh-intelligence/csvdesk/internal/render"
	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/internal/tables"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

const (
	prompt = "(csv) "
	intro  = "csvdesk interactive shell. Type 'help' to list commands."
)

// Options configures a Shell.
type Options struct {
	// WorkDir is searched for .csv files offered by numbered import.
	WorkDir string
	// Render is passed to the grid renderer.
	Render render.Options
	// Storage is used when saving tables.
	Storage storage.Options
	// Prompt prints the intro and the input prompt. Set it when the input
	// is a terminal.
	Prompt bool
}

type command struct {
	usage string
	help  string
	run   func(s *Shell, args []string) error
}

// Shell is one interactive session over a Store.
type Shell struct {
	store   *tables.Store
	in      *bufio.Scanner
	out     io.Writer
	opts    Options
	current string
}

// New creates a shell reading commands from in and writing to out.
func New(store *tables.Store, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	return &Shell{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
		opts:  opts,
	}
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var errQuit = errors.New("quit")

// Run reads and executes commands until quit or end of input.
func (s *Shell) Run() error {
	if s.opts.Prompt {
		s.println(intro)
	}
	for {
		if s.opts.Prompt {
			fmt.Fprint(s.out, prompt)
		}
		if !s.in.Scan() {
			if s.opts.Prompt {
				s.println("")
			}
			return s.in.Err()
		}
		if err := s.Exec(s.in.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

// Exec runs a single command line. It returns an error only when the session
// should end.
func (s *Shell) Exec(line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		s.printf("Invalid input: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		s.printf("Unknown command %q. Type 'help' to list commands.\n", args[0])
		return nil
	}
	slog.Debug("shell command", "command", name, "args", args[1:])
	return cmd.run(s, args[1:])
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

// ask prints question and reads one line. ok is false at end of input.
func (s *Shell) ask(question string) (string, bool) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		s.println("")
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// display renders rows, reporting empty or ragged tables instead of a grid.
func (s *Shell) display(t types.Table) {
	err := render.Table(s.out, t.Rows, s.opts.Render)
	switch {
	case err == nil:
	case errors.Is(err, render.ErrNoRows):
		s.println("No data to display.")
	case errors.Is(err, types.ErrInvalidColumn):
		s.println("Invalid column: rows have different widths.")
	default:
		s.printf("Display failed: %v\n", err)
	}
}

// resolve maps a table reference to a key, defaulting to the current table.
func (s *Shell) resolve(args []string) (string, bool) {
	if len(args) == 0 {
		if s.current == "" {
			s.println("No table selected. Import one with 'import'.")
			return "", false
		}
		return s.current, true
	}
	key, ok := s.store.Resolve(args[0])
	if !ok {
		s.printf("Unknown table %q. Type 'tables' to list imported tables.\n", args[0])
		return "", false
	}
	return key, true
}

func (s *Shell) listTables() bool {
	if s.store.Len() == 0 {
		s.println("No tables imported.")
		return false
	}
	s.println("Imported tables:")
	for i, e := range s.store.Entries() {
		s.printf("%d. %s  rows=%d  id=%s\n", i+1, e.Key, e.Table.Len(), e.ID)
	}
	return true
}

func helpCommand(s *Shell, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	s.println("Commands:")
	for _, name := range names {
		c := commands[name]
		s.printf("  %-26s %s\n", c.usage, c.help)
	}
	return nil
}

func quitCommand(s *Shell, _ []string) error {
	s.println("Goodbye!")
	return errQuit
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"import": {usage: "import [path|n]", help: "Import a CSV file; without a path, pick from the work directory", run: importCommand},
		"files":  {usage: "files", help: "List CSV files in the work directory", run: filesCommand},
		"tables": {usage: "tables", help: "List imported tables", run: tablesCommand},
		"show":   {usage: "show [n|key]", help: "Display a table (default: current)", run: showCommand},
		"sort":   {usage: "sort [column] [n|key]", help: "Display a table sorted by a column number or name", run: sortCommand},
		"merge":  {usage: "merge [n...]", help: "Merge imported tables and optionally save the result", run: mergeCommand},
		"save":   {usage: "save <n|key> <path>", help: "Write a table to a .csv, .jsonl or .db file", run: saveCommand},
		"help":   {usage: "help", help: "Show this help", run: helpCommand},
		"quit":   {usage: "quit", help: "Leave the shell", run: quitCommand},
		"exit":   {usage: "exit", help: "Leave the shell", run: quitCommand},
	}
}
