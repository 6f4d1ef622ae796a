// Package dag holds the build graph handed to the exporter.
// It enforces the acyclic assumption the export walk relies on and computes
// ordered transitive closures.
package dag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/buildexport/pkg/core"
)

// ErrCycle is returned when the graph contains a dependency cycle.
var ErrCycle = errors.New("dependency cycle")

// Graph is a set of build nodes in declaration order with their edges.
type Graph struct {
	nodes map[string]*core.GraphNode
	order []string
	edges map[string][]string // node -> dependencies and secondary sources
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*core.GraphNode),
		edges: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Addresses must be unique.
func (g *Graph) AddNode(n *core.GraphNode) error {
	if n.Address == "" {
		return fmt.Errorf("node has no address")
	}
	if _, exists := g.nodes[n.Address]; exists {
		return fmt.Errorf("duplicate address %q", n.Address)
	}
	g.nodes[n.Address] = n
	g.order = append(g.order, n.Address)
	g.edges[n.Address] = []string{}
	return nil
}

// AddEdge records that from depends on to.
func (g *Graph) AddEdge(from, to string) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("node %q does not exist", from)
	}
	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("%s: dependency %q does not exist", from, to)
	}
	if from == to {
		return fmt.Errorf("%w: %s depends on itself", ErrCycle, from)
	}
	if !contains(g.edges[from], to) {
		g.edges[from] = append(g.edges[from], to)
	}
	return nil
}

// GetNode returns a node by address.
func (g *Graph) GetNode(address string) (*core.GraphNode, bool) {
	node, exists := g.nodes[address]
	return node, exists
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*core.GraphNode {
	nodes := make([]*core.GraphNode, 0, len(g.order))
	for _, address := range g.order {
		nodes = append(nodes, g.nodes[address])
	}
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.edges {
		count += len(deps)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string) // Track the path for error reporting

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, depID := range g.edges[id] {
			if !visited[depID] {
				path[depID] = id
				if dfs(depID) {
					return true
				}
			} else if recStack[depID] {
				// Found cycle, reconstruct path
				cyclePath = []string{depID}
				for curr := id; curr != depID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{depID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	// Declaration order keeps the reported path stable across runs
	for _, id := range g.order {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// Validate returns an ErrCycle error naming the cycle, if there is one.
func (g *Graph) Validate() error {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cyclePath, " -> "))
	}
	return nil
}

// Closure returns the roots and everything reachable from them over
// Dependencies, depth-first in pre-order, each node once. Secondary sources
// of kinds that carry them are followed after the dependencies. Nodes for which
// skip returns true are left out along with anything only reachable
// through them.
func Closure(roots []*core.GraphNode, skip func(*core.GraphNode) bool) []*core.GraphNode {
	seen := make(map[string]bool)
	var result []*core.GraphNode

	var visit func(n *core.GraphNode)
	visit = func(n *core.GraphNode) {
		if seen[n.Address] || (skip != nil && skip(n)) {
			return
		}
		seen[n.Address] = true
		result = append(result, n)
		for _, dep := range n.Dependencies {
			visit(dep)
		}
		if n.Kind.HasSecondarySources() {
			for _, src := range n.JavaSources {
				visit(src)
			}
		}
	}

	for _, root := range roots {
		visit(root)
	}
	return result
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
