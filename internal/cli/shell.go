package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvdesk/internal/shell"
	"github.com/mesh-intelligence/csvdesk/internal/tables"
)

func newShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, e)
		},
	}
}

func runShell(cmd *cobra.Command, e *env) error {
	store := tables.NewStore(e.storageOptions())
	in := cmd.InOrStdin()
	sh := shell.New(store, in, cmd.OutOrStdout(), shell.Options{
		WorkDir: e.workDir,
		Render:  e.renderOptions(),
		Storage: e.storageOptions(),
		Prompt:  shell.IsTerminal(in),
	})
	if err := sh.Run(); err != nil {
		return sysError("shell: %w", err)
	}
	return nil
}
