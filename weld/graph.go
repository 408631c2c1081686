// Package weld maintains the undirected connectivity graph over scene
// objects and orchestrates the two join semantics: rigid hierarchy
// attachment and breakable physics constraint pairs.
package weld

import (
	"errors"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
)

var (
	// ErrAlreadyConnected reports a join attempted on an existing edge.
	// Recovered locally: no structural change happens.
	ErrAlreadyConnected = errors.New("weld: already connected")
	// ErrTypeMismatch reports a join against a node whose established
	// join type conflicts. Recovered locally: no structural change.
	ErrTypeMismatch = errors.New("weld: join type mismatch")
)

// Graph exposes the connectivity-graph operations over weld node
// components. Mutation goes through the Coordinator's public entry
// points; Graph itself never touches constraints or hierarchy.
type Graph struct {
	world *ecs.World
}

func NewGraph(w *ecs.World) *Graph {
	return &Graph{world: w}
}

// Node returns the weld node for a live entity, if present.
func (g *Graph) Node(e ecs.Entity) (*component.WeldNode, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := ecs.Get(g.world, e, component.WeldNodeComponent)
	if !ok || n == nil {
		return nil, false
	}
	return n, true
}

// EnsureNode returns e's weld node, creating an isolated one if needed.
func (g *Graph) EnsureNode(e ecs.Entity) *component.WeldNode {
	if g == nil || !g.world.IsAlive(e) {
		return nil
	}
	if n, ok := g.Node(e); ok {
		return n
	}
	n := component.NewWeldNode()
	_ = ecs.Add(g.world, e, component.WeldNodeComponent, n)
	return n
}

// Degree returns the number of direct edges on e.
func (g *Graph) Degree(e ecs.Entity) int {
	n, ok := g.Node(e)
	if !ok {
		return 0
	}
	return n.Degree()
}

// HasEdge is a direct-membership test.
func (g *Graph) HasEdge(a, b ecs.Entity) bool {
	n, ok := g.Node(a)
	return ok && n.HasNeighbor(b)
}

// AddEdge inserts the symmetric edge a<->b. Self-edges are a no-op.
// Both endpoints must already carry weld nodes.
func (g *Graph) AddEdge(a, b ecs.Entity) error {
	if g == nil || a == b {
		return nil
	}
	na, okA := g.Node(a)
	nb, okB := g.Node(b)
	if !okA || !okB {
		return nil
	}
	if na.HasNeighbor(b) {
		return ErrAlreadyConnected
	}
	na.Neighbors[b] = struct{}{}
	nb.Neighbors[a] = struct{}{}
	return nil
}

// RemoveAllEdges severs every edge on a, removing a from each
// neighbor's set, and returns the removed neighbors. The caller decides
// what to do with released constraints and newly isolated neighbors.
func (g *Graph) RemoveAllEdges(a ecs.Entity) []ecs.Entity {
	n, ok := g.Node(a)
	if !ok || n.Degree() == 0 {
		return nil
	}
	removed := make([]ecs.Entity, 0, n.Degree())
	for neighbor := range n.Neighbors {
		removed = append(removed, neighbor)
		if nn, ok := g.Node(neighbor); ok {
			delete(nn.Neighbors, a)
		}
	}
	n.Neighbors = make(map[ecs.Entity]struct{})
	return removed
}

// ConnectedComponent returns every node transitively reachable from a,
// excluding a itself. A visited set guards against cycles; the graph is
// not guaranteed acyclic.
func (g *Graph) ConnectedComponent(a ecs.Entity) []ecs.Entity {
	n, ok := g.Node(a)
	if !ok || n.Degree() == 0 {
		return nil
	}
	visited := map[ecs.Entity]struct{}{a: {}}
	var out []ecs.Entity
	queue := []ecs.Entity{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cn, ok := g.Node(cur)
		if !ok {
			continue
		}
		for neighbor := range cn.Neighbors {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			out = append(out, neighbor)
			queue = append(queue, neighbor)
		}
	}
	return out
}
