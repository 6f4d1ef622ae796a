package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/buildexport/pkg/core"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display buildexport version and the export schema version it writes.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "buildexport v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Export schema %s\n", core.ExportVersion)
		},
	}
}
