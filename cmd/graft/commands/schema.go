package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graftql/graft/pkg/config"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema of the config file",
		Long: `Print the CUE definition every config document is checked against.

Fields marked with ! are required. The definition is closed, so unknown
fields are rejected.`,
		Example: `  graft schema > graft.cue`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.Schema())
			return err
		},
	}
}
