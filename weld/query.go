package weld

import (
	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/scene"
)

// GroupQuery is a read-only view that resolves the full membership of
// an object's weld group. Results are recomputed per request; groups
// mutate too often to make caching worthwhile. Order is unspecified.
type GroupQuery struct {
	world *ecs.World
	graph *Graph
}

func NewGroupQuery(w *ecs.World, g *Graph) *GroupQuery {
	return &GroupQuery{world: w, graph: g}
}

// Scope returns every object in start's weld group. For an established
// hierarchy join this is start's full scene subtree. Otherwise it is
// the connected component plus each member's local subtree, where the
// local walk stops at nested weld nodes (those are graph members in
// their own right). Objects reachable both ways appear once.
func (q *GroupQuery) Scope(start ecs.Entity) []ecs.Entity {
	if q == nil || q.world == nil || !q.world.IsAlive(start) {
		return nil
	}

	if n, ok := q.graph.Node(start); ok && n.Type == component.JoinHierarchy && n.Degree() > 0 {
		return scene.Descendants(q.world, start, nil)
	}

	members := append(q.graph.ConnectedComponent(start), start)
	seen := make(map[ecs.Entity]struct{}, len(members))
	var out []ecs.Entity
	for _, m := range members {
		skip := func(d ecs.Entity) bool {
			return ecs.Has(q.world, d, component.WeldNodeComponent)
		}
		for _, d := range scene.Descendants(q.world, m, skip) {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// Find returns the entities in start's group that carry the capability.
func Find[T any](q *GroupQuery, start ecs.Entity, h ecs.Handle[T]) []ecs.Entity {
	if q == nil {
		return nil
	}
	var out []ecs.Entity
	for _, e := range q.Scope(start) {
		if ecs.Has(q.world, e, h) {
			out = append(out, e)
		}
	}
	return out
}

// Collect returns the capability values found across start's group.
func Collect[T any](q *GroupQuery, start ecs.Entity, h ecs.Handle[T]) []T {
	if q == nil {
		return nil
	}
	var out []T
	for _, e := range q.Scope(start) {
		if v, ok := ecs.Get(q.world, e, h); ok {
			out = append(out, v)
		}
	}
	return out
}
