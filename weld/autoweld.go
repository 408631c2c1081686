package weld

import (
	"log"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/scene"
)

// AutoWeldSystem runs deferred auto-join attempts: a freshly spawned
// entity carrying an AutoWeld marker joins its nearest ancestor weld
// node after the marker's delay elapses. The attempt happens exactly
// once; the marker is removed whether or not an ancestor was found.
type AutoWeldSystem struct {
	coord *Coordinator
}

func NewAutoWeldSystem(c *Coordinator) *AutoWeldSystem {
	return &AutoWeldSystem{coord: c}
}

func (s *AutoWeldSystem) Update(w *ecs.World) {
	if s == nil || s.coord == nil || w == nil {
		return
	}
	// Snapshot first: join attempts mutate component storage.
	pending := ecs.Entities(w, component.AutoWeldComponent)
	for _, e := range pending {
		marker, ok := ecs.Get(w, e, component.AutoWeldComponent)
		if !ok || marker == nil {
			continue
		}
		if marker.Delay > 0 {
			marker.Delay--
			continue
		}
		ecs.Remove(w, e, component.AutoWeldComponent)

		ancestor, found := scene.NearestAncestor(w, e, func(p ecs.Entity) bool {
			return ecs.Has(w, p, component.WeldNodeComponent)
		})
		if !found {
			continue
		}
		if err := s.coord.Join(e, ancestor, marker.Requested, 0); err != nil {
			log.Printf("weld: auto-join %v->%v: %v", e, ancestor, err)
		}
	}
}
