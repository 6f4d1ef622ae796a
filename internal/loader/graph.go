// Package loader reads already-resolved build graphs and classpaths from
// disk. Graph files may be YAML, JSON or HCL; classpath files YAML or JSON.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/buildexport/internal/dag"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// TargetSpec is one target declaration as written in a graph file.
type TargetSpec struct {
	Address       string            `yaml:"address"`
	Type          string            `yaml:"type"`
	Synthetic     bool              `yaml:"synthetic"`
	DerivedFrom   string            `yaml:"derived_from"`
	Dependencies  []string          `yaml:"dependencies"`
	Transitive    *bool             `yaml:"transitive"`
	Scope         string            `yaml:"scope"`
	TargetBase    string            `yaml:"target_base"`
	Sources       []string          `yaml:"sources"`
	Globs         []string          `yaml:"globs"`
	Roots         []core.SourceRoot `yaml:"roots"`
	Platform      string            `yaml:"platform"`
	TestPlatform  string            `yaml:"test_platform"`
	Excludes      []string          `yaml:"excludes"`
	Jars          []string          `yaml:"jars"`
	Requirements  []string          `yaml:"requirements"`
	Compatibility []string          `yaml:"compatibility"`
	JavaSources   []string          `yaml:"java_sources"`
}

// GraphSpec is the decoded content of a graph file.
type GraphSpec struct {
	Roots   []string     `yaml:"roots"`
	Targets []TargetSpec `yaml:"targets"`
}

// Graph is a loaded build graph.
type Graph struct {
	*dag.Graph
	roots []string
}

// Roots returns the nodes to export: the given addresses, else the roots
// declared in the file, else every node in declaration order.
func (g *Graph) Roots(addresses ...string) ([]*core.GraphNode, error) {
	if len(addresses) == 0 {
		addresses = g.roots
	}
	if len(addresses) == 0 {
		return g.Nodes(), nil
	}
	nodes := make([]*core.GraphNode, 0, len(addresses))
	for _, addr := range addresses {
		n, ok := g.GetNode(addr)
		if !ok {
			return nil, fmt.Errorf("unknown target %q", addr)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// GraphLoader reads graph files.
type GraphLoader struct {
	buildRoot string
	logger    *slog.Logger
}

// NewGraphLoader creates a loader. Derived source roots are made absolute
// under buildRoot.
func NewGraphLoader(buildRoot string, logger *slog.Logger) *GraphLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GraphLoader{buildRoot: buildRoot, logger: logger}
}

// Load reads the graph file at path, picking the format by extension.
func (l *GraphLoader) Load(ctx context.Context, path string) (*Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.logger.Debug("loading graph", "path", path)

	var (
		spec *GraphSpec
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		spec, err = decodeHCL(path)
	case ".yaml", ".yml", ".json":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read graph file: %w", err)
		}
		spec, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported graph file %s: want .yaml, .yml, .json or .hcl", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	g, err := l.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Debug("graph loaded", "path", path, "targets", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// DecodeYAML decodes a YAML or JSON graph file. Unknown keys are rejected.
func DecodeYAML(data []byte) (*GraphSpec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec GraphSpec
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid graph file: %w", err)
	}
	return &spec, nil
}

// Build turns declarations into a linked, acyclic graph.
func (l *GraphLoader) Build(spec *GraphSpec) (*Graph, error) {
	g := &Graph{Graph: dag.NewGraph(), roots: spec.Roots}

	for i := range spec.Targets {
		n, err := l.newNode(&spec.Targets[i])
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	for i := range spec.Targets {
		ts := &spec.Targets[i]
		n, _ := g.GetNode(ts.Address)

		lookup := func(field, addr string) (*core.GraphNode, error) {
			ref, ok := g.GetNode(addr)
			if !ok {
				return nil, fmt.Errorf("target %s: %s references unknown target %q", ts.Address, field, addr)
			}
			return ref, nil
		}

		for _, addr := range ts.Dependencies {
			dep, err := lookup("dependencies", addr)
			if err != nil {
				return nil, err
			}
			n.Dependencies = append(n.Dependencies, dep)
			if err := g.AddEdge(n.Address, dep.Address); err != nil {
				return nil, err
			}
		}
		for _, addr := range ts.JavaSources {
			src, err := lookup("java_sources", addr)
			if err != nil {
				return nil, err
			}
			n.JavaSources = append(n.JavaSources, src)
			if err := g.AddEdge(n.Address, src.Address); err != nil {
				return nil, err
			}
		}
		if ts.DerivedFrom != "" {
			from, err := lookup("derived_from", ts.DerivedFrom)
			if err != nil {
				return nil, err
			}
			n.DerivedFrom = from
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	for _, addr := range spec.Roots {
		if _, ok := g.GetNode(addr); !ok {
			return nil, fmt.Errorf("roots references unknown target %q", addr)
		}
	}
	return g, nil
}

func (l *GraphLoader) newNode(ts *TargetSpec) (*core.GraphNode, error) {
	if ts.Address == "" {
		return nil, errors.New("target without address")
	}
	kind := core.Kind(ts.Type)
	if kind == "" {
		kind = core.KindTarget
	}
	if !kind.Known() {
		l.logger.Warn("unknown target type, treating as target", "target", ts.Address, "type", ts.Type)
	}

	n := &core.GraphNode{
		Address:       ts.Address,
		Kind:          kind,
		Synthetic:     ts.Synthetic,
		Transitive:    ts.Transitive == nil || *ts.Transitive,
		Scope:         ts.Scope,
		TargetBase:    ts.TargetBase,
		Sources:       ts.Sources,
		Platform:      ts.Platform,
		TestPlatform:  ts.TestPlatform,
		Requirements:  ts.Requirements,
		Compatibility: ts.Compatibility,
	}
	if n.Scope == "" {
		n.Scope = core.DefaultScope
	}

	for _, s := range ts.Excludes {
		ex, err := core.ParseExclude(s)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", ts.Address, err)
		}
		n.Excludes = append(n.Excludes, ex)
	}
	for _, s := range ts.Jars {
		c, err := core.ParseCoordinate(s)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", ts.Address, err)
		}
		n.Jars = append(n.Jars, c)
	}

	n.Roots = ts.Roots
	if len(n.Roots) == 0 {
		n.Roots = l.sourceRoots(ts.TargetBase, ts.Sources)
	}
	switch {
	case len(ts.Globs) > 0:
		n.Globs = &core.GlobSpec{Globs: ts.Globs}
	case len(ts.Sources) > 0:
		globs := make([]string, 0, len(ts.Sources))
		for _, s := range ts.Sources {
			globs = append(globs, path.Join(ts.TargetBase, s))
		}
		n.Globs = &core.GlobSpec{Globs: globs}
	}
	return n, nil
}

// sourceRoots derives one root per distinct source directory, with the
// directory as package prefix.
func (l *GraphLoader) sourceRoots(targetBase string, sources []string) []core.SourceRoot {
	var roots []core.SourceRoot
	seen := make(map[string]bool)
	for _, s := range sources {
		dir := path.Dir(s)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		prefix := ""
		if dir != "." {
			prefix = strings.ReplaceAll(dir, "/", ".")
		}
		roots = append(roots, core.SourceRoot{
			SourceRoot:    filepath.Join(l.buildRoot, targetBase, dir),
			PackagePrefix: prefix,
		})
	}
	return roots
}
