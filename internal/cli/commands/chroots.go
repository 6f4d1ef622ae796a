package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/buildexport/internal/chroot"
	"github.com/leapstack-labs/buildexport/internal/cli/config"
)

// NewChrootsCommand creates the chroots command.
func NewChrootsCommand() *cobra.Command {
	var (
		interpreterFilter string
		prune             bool
	)

	cmd := &cobra.Command{
		Use:   "chroots",
		Short: "List the cached Python chroots",
		Long: `List the chroots materialized for Python targets by earlier exports,
most recently used first.

With --prune, index entries whose directory has been removed are dropped
before listing.`,
		Example: `  # List all chroots
  buildexport chroots

  # List chroots of one interpreter after pruning stale entries
  buildexport chroots --interpreter CPython-3.6.8 --prune`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			logger := config.GetLogger(cmd.Context())

			cache, err := chroot.Open(chroot.Options{
				Dir:    cfg.Python.ChrootDir,
				Index:  cfg.Python.CacheDB,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			if prune {
				n, err := cache.Prune(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d stale chroots\n", n)
			}

			records, err := cache.Store().List(cmd.Context(), interpreterFilter)
			if err != nil {
				return err
			}
			renderChroots(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().StringVar(&interpreterFilter, "interpreter", "", "Only list chroots of this interpreter identity")
	cmd.Flags().BoolVar(&prune, "prune", false, "Drop entries whose directory no longer exists")

	return cmd
}

func renderChroots(w io.Writer, records []*chroot.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "No chroots found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Interpreter", "Targets", "Last Used", "Path"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Interpreter, r.Targets, r.LastUsedAt.Local().Format(time.DateTime), r.Path})
	}
	t.Render()
}
