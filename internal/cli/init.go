package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvdesk/internal/config"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and a config.yaml with default values.\nAn existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := types.DefaultConfig()
			if e.flags.workDir != "" {
				cfg.WorkDir = e.flags.workDir
			}

			written, err := config.WriteDefault(e.configDir, cfg)
			if err != nil {
				return sysError("init: %w", err)
			}
			path := config.Path(e.configDir)
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
			}
			return nil
		},
	}
}
