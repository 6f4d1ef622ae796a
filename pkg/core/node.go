package core

import (
	"path"
	"strings"
)

// DefaultScope is the scope label of nodes that do not declare one.
const DefaultScope = "default"

// GraphNode is a buildable unit in the dependency graph.
//
// Graphs handed to the exporter must be acyclic over Dependencies and
// JavaSources. DerivedFrom is a weak reference: it is only consulted to
// recognize synthetic code generation outputs and is never traversed.
type GraphNode struct {
	// Address uniquely identifies the node (e.g. "src/java/com/foo:lib")
	Address string
	// Kind is the build alias the node was declared with
	Kind Kind
	// Synthetic marks nodes generated by a build step rather than authored
	Synthetic bool
	// DerivedFrom points at the node this one was generated from
	DerivedFrom *GraphNode
	// Dependencies are the direct dependencies in declaration order
	Dependencies []*GraphNode
	// Transitive controls whether dependents see this node's dependencies
	Transitive bool
	// Scope is the dependency scope label
	Scope string
	// TargetBase is the source root the node's sources are relative to
	TargetBase string
	// Sources are source files relative to TargetBase
	Sources []string
	// Globs is the filespec the sources were declared with
	Globs *GlobSpec
	// Roots are the source roots with their package prefixes
	Roots []SourceRoot
	// Platform is the JVM platform name; empty means the default platform
	Platform string
	// TestPlatform is the JVM platform tests run on; empty means default
	TestPlatform string
	// Excludes are transitive library exclusions
	Excludes []Exclude
	// Jars are the declared coordinates of a library aggregate
	Jars []Coordinate
	// Requirements are the package specifiers of a requirement bundle
	Requirements []string
	// Compatibility are interpreter constraints, any of which may match
	Compatibility []string
	// JavaSources are secondary source nodes compiled together with this one
	JavaSources []*GraphNode
}

// SourceRoot pairs a source root directory with the package prefix of the
// sources found under it.
type SourceRoot struct {
	SourceRoot    string `json:"source_root" yaml:"source_root"`
	PackagePrefix string `json:"package_prefix" yaml:"package_prefix"`
}

// GlobSpec is a filespec relative to the build root.
type GlobSpec struct {
	Globs   []string   `json:"globs"`
	Exclude []GlobSpec `json:"exclude,omitempty"`
}

// Exclude removes a library (or a whole organization) from a node's
// transitive classpath.
type Exclude struct {
	Org  string
	Name string
}

// ID returns the exclude in "org:name" form, or "org" when no name is set.
func (e Exclude) ID() string {
	if e.Name == "" {
		return e.Org
	}
	return e.Org + ":" + e.Name
}

// IsStubOutput reports whether the node is a synthetic output of the stub
// source code generation stage. Such nodes are left out of the export.
func (n *GraphNode) IsStubOutput() bool {
	return n.Synthetic && n.DerivedFrom != nil && n.DerivedFrom.Kind.IsStubSource()
}

// ID returns the path-safe form of the address: "src/java/foo:lib"
// becomes "src.java.foo.lib".
func (n *GraphNode) ID() string {
	specPath, name, ok := strings.Cut(n.Address, ":")
	if !ok {
		name = path.Base(specPath)
	}
	specPath = strings.TrimPrefix(specPath, "//")
	return strings.ReplaceAll(specPath, "/", ".") + "." + strings.ReplaceAll(name, "/", ".")
}
