package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/buildexport/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [addresses...]",
		Short: "List the targets an export would contain",
		Long: `List every target in the exported closure of the given addresses with its
classification, dependency and library counts and selected interpreter.

Without addresses the roots declared in the graph file are used.`,
		Example: `  # List the closure of the declared roots
  buildexport list -g graph.yaml

  # List one target's closure, skipping library resolution
  buildexport list -g graph.yaml --libraries=false src/python/app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.Cfg.Validate(); err != nil {
				return err
			}

			info, err := cc.Export(cmd.Context(), args)
			if err != nil {
				return err
			}
			renderTargets(cmd.OutOrStdout(), info)
			return nil
		},
	}

	addGraphFlags(cmd)
	return cmd
}

func renderTargets(w io.Writer, info *core.GraphInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Address", "Type", "Alias", "Deps", "Libraries", "Root", "Interpreter"})

	for pair := info.Targets.Oldest(); pair != nil; pair = pair.Next() {
		ti := pair.Value
		root := ""
		if ti.IsTargetRoot {
			root = "yes"
		}
		t.AppendRow(table.Row{
			pair.Key,
			ti.TargetType,
			ti.PantsTargetType,
			len(ti.Targets),
			len(ti.Libraries),
			root,
			ti.PythonInterpreter,
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d targets)\n", info.Targets.Len())
}
