package testutil

import (
	"testing"

	"github.com/leapstack-labs/buildexport/pkg/core"
)

// Graph builds GraphNodes by address for tests. Nodes are created with the
// defaults the loader applies: transitive, default scope.
type Graph struct {
	t     testing.TB
	nodes map[string]*core.GraphNode
}

// NewGraph returns an empty builder.
func NewGraph(t testing.TB) *Graph {
	return &Graph{t: t, nodes: make(map[string]*core.GraphNode)}
}

// Add declares a node and returns it for further tweaking.
// Dependencies must already be declared.
func (g *Graph) Add(address string, kind core.Kind, deps ...string) *core.GraphNode {
	g.t.Helper()
	if _, ok := g.nodes[address]; ok {
		g.t.Fatalf("duplicate node %s", address)
	}
	n := &core.GraphNode{
		Address:    address,
		Kind:       kind,
		Transitive: true,
		Scope:      core.DefaultScope,
	}
	for _, dep := range deps {
		n.Dependencies = append(n.Dependencies, g.Get(dep))
	}
	g.nodes[address] = n
	return n
}

// Get returns a declared node.
func (g *Graph) Get(address string) *core.GraphNode {
	g.t.Helper()
	n, ok := g.nodes[address]
	if !ok {
		g.t.Fatalf("unknown node %s", address)
	}
	return n
}

// Nodes returns the named nodes in the given order.
func (g *Graph) Nodes(addresses ...string) []*core.GraphNode {
	g.t.Helper()
	out := make([]*core.GraphNode, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, g.Get(a))
	}
	return out
}

// Coordinates parses each coordinate or fails the test.
func Coordinates(t testing.TB, specs ...string) []core.Coordinate {
	t.Helper()
	out := make([]core.Coordinate, 0, len(specs))
	for _, s := range specs {
		c, err := core.ParseCoordinate(s)
		if err != nil {
			t.Fatalf("parse coordinate: %v", err)
		}
		out = append(out, c)
	}
	return out
}
