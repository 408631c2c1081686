package component

import (
	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/engine"
)

// JoinType is the semantics of a weld edge: rigid hierarchy attachment
// or a breakable physics constraint pair.
type JoinType int

const (
	JoinUndefined JoinType = iota
	JoinHierarchy
	JoinPhysics
)

func (t JoinType) String() string {
	switch t {
	case JoinHierarchy:
		return "hierarchy"
	case JoinPhysics:
		return "physics"
	default:
		return "undefined"
	}
}

// WeldNode is one node of the weld connectivity graph. Type is fixed by
// the node's first edge and returns to JoinUndefined only when the node
// becomes isolated again. Neighbors holds back-references only; the
// constraints map owns the engine handles created from this side.
type WeldNode struct {
	Type        JoinType
	Neighbors   map[ecs.Entity]struct{}
	Constraints map[ecs.Entity][]engine.Constraint
}

// NewWeldNode returns an isolated node.
func NewWeldNode() *WeldNode {
	return &WeldNode{
		Neighbors:   make(map[ecs.Entity]struct{}),
		Constraints: make(map[ecs.Entity][]engine.Constraint),
	}
}

// Degree returns the number of direct edges.
func (n *WeldNode) Degree() int {
	if n == nil {
		return 0
	}
	return len(n.Neighbors)
}

// HasNeighbor reports a direct edge to other.
func (n *WeldNode) HasNeighbor(other ecs.Entity) bool {
	if n == nil {
		return false
	}
	_, ok := n.Neighbors[other]
	return ok
}

var WeldNodeComponent = ecs.NewComponent[*WeldNode]()

// AutoWeld marks a freshly spawned entity that should try to join its
// nearest ancestor weld node. The attempt is deferred by Delay
// scheduler steps so sibling components (rigid bodies) initialize
// first, and runs exactly once.
type AutoWeld struct {
	Requested JoinType
	Delay     int
}

var AutoWeldComponent = ecs.NewComponent[*AutoWeld]()
