package export

import "github.com/leapstack-labs/buildexport/pkg/core"

// isFiltered reports whether n is a synthetic output of the stub source
// stage. Filtered nodes are never exported nor listed as dependencies.
func isFiltered(n *core.GraphNode) bool {
	return n.IsStubOutput()
}

// FilterNodes returns nodes without the filtered ones, preserving order.
func FilterNodes(nodes []*core.GraphNode) []*core.GraphNode {
	kept := make([]*core.GraphNode, 0, len(nodes))
	for _, n := range nodes {
		if !isFiltered(n) {
			kept = append(kept, n)
		}
	}
	return kept
}
