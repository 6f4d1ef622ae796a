// Package export turns a resolved build graph into the IDE export record.
//
// An export walks the dependency closure of the requested roots once,
// classifies every node, assigns interpreters to runtime-bearing nodes and
// collects library and platform information into a core.GraphInfo. The
// output is deterministic: the same graph and collaborators always produce
// the same record in the same order.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/buildexport/internal/dag"
	"github.com/leapstack-labs/buildexport/internal/interpreter"
	"github.com/leapstack-labs/buildexport/internal/jvm"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// ClasspathLookup resolves the external libraries on the classpath of nodes.
type ClasspathLookup interface {
	EntriesFor(ctx context.Context, nodes ...*core.GraphNode) ([]core.ClasspathEntry, error)
}

// RuntimeSelector assigns an interpreter to a runtime-bearing node.
// It returns an error wrapping interpreter.ErrNoCompatible when none fits.
type RuntimeSelector interface {
	Select(ctx context.Context, node *core.GraphNode) (*interpreter.Interpreter, error)
}

// EnvironmentBuilder materializes an isolated environment for the nodes
// sharing one interpreter and returns its location.
type EnvironmentBuilder interface {
	Materialize(ctx context.Context, interp *interpreter.Interpreter, nodes []*core.GraphNode) (string, error)
}

// DistributionLocator returns the preferred JDK for a platform.
type DistributionLocator interface {
	Preferred(p jvm.Platform, strict bool) (jvm.Distribution, error)
}

// Options configures an Exporter. Only Platforms is required; a nil
// Classpath disables library output.
type Options struct {
	IncludeSources bool
	Classpath      ClasspathLookup
	Runtimes       RuntimeSelector
	Environments   EnvironmentBuilder
	Platforms      jvm.Settings
	Distributions  DistributionLocator
	Logger         *slog.Logger
}

// Exporter produces export records. It holds no per-export state and may
// be reused.
type Exporter struct {
	opts Options
}

// New creates an Exporter.
func New(opts Options) *Exporter {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{opts: opts}
}

// Export builds the record for the closure of roots.
func (e *Exporter) Export(ctx context.Context, roots []*core.GraphNode) (*core.GraphInfo, error) {
	roots = FilterNodes(roots)
	closure := dag.Closure(roots, isFiltered)
	e.opts.Logger.Info("exporting build graph", "roots", len(roots), "targets", len(closure))

	w := newWalker(ctx, &e.opts, roots)
	for _, n := range closure {
		// secondary sources are recorded with their owner
		if _, done := w.records.Get(n.Address); done {
			continue
		}
		if err := w.walk(n); err != nil {
			return nil, err
		}
	}

	info := &core.GraphInfo{
		Version:                   core.ExportVersion,
		Targets:                   w.records,
		JvmPlatforms:              summarizePlatforms(e.opts.Platforms),
		PreferredJvmDistributions: e.preferredDistributions(),
	}

	libraries, err := e.libraryTable(ctx, closure)
	if err != nil {
		return nil, err
	}
	info.Libraries = libraries

	setup, err := e.pythonSetup(ctx, w.runtimes)
	if err != nil {
		return nil, fmt.Errorf("python setup: %w", err)
	}
	info.PythonSetup = setup

	return info, nil
}
