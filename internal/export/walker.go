package export

import (
	"context"
	"fmt"
	"path"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leapstack-labs/buildexport/internal/dag"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// walker builds the per-node export records of a single export call.
// All of its state lives and dies with that call.
type walker struct {
	ctx      context.Context
	opts     *Options
	roots    map[string]bool
	owners   ownershipMap
	records  *orderedmap.OrderedMap[string, *core.TargetInfo]
	runtimes *runtimeGroups
	active   map[string]bool
}

func newWalker(ctx context.Context, opts *Options, roots []*core.GraphNode) *walker {
	rootSet := make(map[string]bool, len(roots))
	for _, r := range roots {
		rootSet[r.Address] = true
	}
	return &walker{
		ctx:      ctx,
		opts:     opts,
		roots:    rootSet,
		owners:   make(ownershipMap),
		records:  orderedmap.New[string, *core.TargetInfo](),
		runtimes: newRuntimeGroups(),
		active:   make(map[string]bool),
	}
}

// walk records n. Dependencies are listed, not descended into; secondary
// sources are walked as part of n. A record written earlier for the same
// address is overwritten in place.
func (w *walker) walk(n *core.GraphNode) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if w.active[n.Address] {
		return fmt.Errorf("%w: %s is its own secondary source", dag.ErrCycle, n.Address)
	}
	w.active[n.Address] = true
	defer delete(w.active, n.Address)

	w.opts.Logger.Debug("exporting target", "target", n.Address, "kind", n.Kind)

	info := &core.TargetInfo{
		Targets:         []string{},
		Libraries:       []string{},
		Roots:           []core.SourceRoot{},
		ID:              n.ID(),
		TargetType:      classify(n, w.owners),
		IsCodeGen:       n.Synthetic,
		IsSynthetic:     n.Synthetic,
		PantsTargetType: n.Kind.Alias(),
		Transitive:      n.Transitive,
		Scope:           n.Scope,
		IsTargetRoot:    w.roots[n.Address],
	}

	if !n.Synthetic {
		info.Globs = globsOf(n)
		if w.opts.IncludeSources {
			info.Sources = sourcesOf(n)
		}
	}

	if n.Kind.IsRequirementBundle() {
		info.Requirements = requirementKeys(n.Requirements)
	}

	if n.Kind.NeedsRuntime() {
		interp, err := w.selectRuntime(n)
		if err != nil {
			return err
		}
		w.runtimes.add(interp, n)
		info.PythonInterpreter = interp.Identity.String()
	}

	libs := newCoordinateSet()
	if n.Kind.IsLibraryAggregate() {
		coords, err := w.transitiveCoordinates(n)
		if err != nil {
			return err
		}
		libs.addAll(coords)
	}
	for _, dep := range n.Dependencies {
		if isFiltered(dep) {
			continue
		}
		info.Targets = append(info.Targets, dep.Address)
		if dep.Kind.IsLibraryAggregate() {
			libs.addAll(dep.Jars)
			coords, err := w.transitiveCoordinates(dep)
			if err != nil {
				return err
			}
			libs.addAll(coords)
		}
		if dep.Kind.IsResources() {
			w.owners.claim(dep, n)
		}
	}

	if n.Kind.HasSecondarySources() {
		for _, src := range n.JavaSources {
			if isFiltered(src) {
				continue
			}
			info.Targets = append(info.Targets, src.Address)
			if err := w.walk(src); err != nil {
				return err
			}
		}
	}

	if n.Kind.IsJVM() {
		info.Excludes = make([]string, 0, len(n.Excludes))
		for _, ex := range n.Excludes {
			info.Excludes = append(info.Excludes, ex.ID())
		}
		info.Platform = w.platformName(n.Platform)
		if n.Kind.HasTestPlatform() {
			info.TestPlatform = w.platformName(n.TestPlatform)
		}
	}

	info.Roots = append(info.Roots, n.Roots...)

	if w.opts.Classpath != nil {
		info.Libraries = libs.jarIDs()
	}

	w.records.Set(n.Address, info)
	return nil
}

// transitiveCoordinates returns the identities of everything on the
// resolved classpath of lib, or nothing when no lookup was supplied.
func (w *walker) transitiveCoordinates(lib *core.GraphNode) ([]core.Coordinate, error) {
	if w.opts.Classpath == nil {
		return nil, nil
	}
	entries, err := w.opts.Classpath.EntriesFor(w.ctx, lib)
	if err != nil {
		return nil, fmt.Errorf("resolve classpath of %s: %w", lib.Address, err)
	}
	return entryCoordinates(entries), nil
}

func (w *walker) platformName(name string) string {
	if name == "" {
		return w.opts.Platforms.DefaultPlatform
	}
	return name
}

func globsOf(n *core.GraphNode) *core.GlobSpec {
	if n.Globs != nil {
		return n.Globs
	}
	return &core.GlobSpec{Globs: []string{}}
}

// sourcesOf returns n's sources relative to the build root.
func sourcesOf(n *core.GraphNode) []string {
	sources := make([]string, 0, len(n.Sources))
	for _, s := range n.Sources {
		sources = append(sources, path.Join(n.TargetBase, s))
	}
	return sources
}

// requirementKeys returns the project names of specs in declaration order,
// each once.
func requirementKeys(specs []string) []string {
	keys := make([]string, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		key := core.RequirementKey(spec)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
