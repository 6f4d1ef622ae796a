package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/buildexport/internal/cli/config"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// addGraphFlags registers the flags that select and resolve the graph.
// They are read through the config loader, not bound to variables.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("graph", "g", "", "Build graph file (.yaml, .json or .hcl)")
	cmd.Flags().String("classpath", "", "Resolved classpath file")
	cmd.Flags().Bool("libraries", config.DefaultLibraries, "Export external libraries")
	cmd.Flags().Bool("libraries-sources", false, "Include source jars of libraries")
	cmd.Flags().Bool("libraries-javadocs", false, "Include javadoc jars of libraries")
	cmd.Flags().Bool("sources", false, "Export the source files of each target")
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "export [addresses...]",
		Short: "Export the build graph as JSON",
		Long: `Export the build graph of the given targets for IDE import.

Without addresses the roots declared in the graph file are exported.
The output lists every target in the dependency closure together with
its libraries, JVM platforms, preferred JDKs and Python interpreters.`,
		Example: `  # Export the declared roots to stdout
  buildexport export -g graph.yaml

  # Export one target with its libraries to a file
  buildexport export -g graph.yaml --classpath classpath.yaml -o export.json src/java/app

  # Re-export whenever the graph or classpath changes
  buildexport export -o export.json --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, watch)
		},
	}

	addGraphFlags(cmd)
	cmd.Flags().Bool("formatted", config.DefaultFormatted, "Indent the JSON output")
	cmd.Flags().StringP("output-file", "o", "", "Write the export to a file instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-export when the graph or classpath changes")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, watch bool) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cc.Cfg.Validate(); err != nil {
		return err
	}
	if watch && cc.Cfg.OutputFile == "" {
		return fmt.Errorf("--watch requires --output-file")
	}

	run := func() error {
		info, err := cc.Export(cmd.Context(), args)
		if err != nil {
			return err
		}
		return writeExport(cmd.OutOrStdout(), cc.Cfg.OutputFile, info, cc.Cfg.Formatted)
	}

	if err := run(); err != nil {
		return err
	}
	if cc.Cfg.OutputFile != "" {
		cc.Logger.Info("export written", "file", cc.Cfg.OutputFile)
	}
	if !watch {
		return nil
	}

	files := []string{cc.Cfg.Graph}
	if cc.Cfg.Libraries {
		files = append(files, cc.Cfg.Classpath)
	}
	return watchFiles(cmd.Context(), cc.Logger, files, run)
}

// encodeExport renders info as JSON. Formatted output is indented with four
// spaces.
func encodeExport(w io.Writer, info *core.GraphInfo, formatted bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if formatted {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// writeExport writes the encoded export to path, or to stdout when path is
// empty. Files are replaced atomically.
func writeExport(stdout io.Writer, path string, info *core.GraphInfo, formatted bool) error {
	if path == "" {
		return encodeExport(stdout, info, formatted)
	}

	var buf bytes.Buffer
	if err := encodeExport(&buf, info, formatted); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.json")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
