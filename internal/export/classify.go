package export

import "github.com/leapstack-labs/buildexport/pkg/core"

// ownershipMap records, per resource bundle address, the first node seen
// depending on it during one export.
type ownershipMap map[string]*core.GraphNode

// claim records owner for resource unless an owner is already known.
func (m ownershipMap) claim(resource, owner *core.GraphNode) {
	if _, ok := m[resource.Address]; !ok {
		m[resource.Address] = owner
	}
}

// classify returns the target type of n given the owners known so far.
// A resource bundle whose test owner has not been walked yet is RESOURCE.
func classify(n *core.GraphNode, owners ownershipMap) core.TargetType {
	if n.Kind.IsTest() {
		return core.TargetTypeTest
	}
	if n.Kind.IsResources() {
		if owner, ok := owners[n.Address]; ok && owner.Kind.IsTest() {
			return core.TargetTypeTestResource
		}
		return core.TargetTypeResource
	}
	return core.TargetTypeSource
}
