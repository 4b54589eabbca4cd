package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/csvdesk/pkg/csvdesk"
)

const modulePath = "github.com/mesh-intelligence/csvdesk"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the csvdesk version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "csvdesk v%s\nmodule: %s\n", csvdesk.Version, modulePath)
			return nil
		},
	}
}
