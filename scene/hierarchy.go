// Package scene provides hierarchy utilities over the ECS world:
// parent/child links with world-transform-preserving reparenting, pose
// queries, and bounded tree walks. The weld and drag packages use it
// for hierarchy joins, listener discovery, and drag-scope resolution.
package scene

import (
	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
)

// Parent returns the scene-graph parent of e, if any.
func Parent(w *ecs.World, e ecs.Entity) (ecs.Entity, bool) {
	p, ok := ecs.Get(w, e, component.ParentComponent)
	if !ok || p == nil || !w.IsAlive(p.Entity) {
		return 0, false
	}
	return p.Entity, true
}

// Children returns the direct children of e.
func Children(w *ecs.World, e ecs.Entity) []ecs.Entity {
	c, ok := ecs.Get(w, e, component.ChildrenComponent)
	if !ok || c == nil {
		return nil
	}
	out := make([]ecs.Entity, 0, len(c.Entities))
	for _, child := range c.Entities {
		if w.IsAlive(child) {
			out = append(out, child)
		}
	}
	return out
}

// Root returns the topmost ancestor of e (e itself when unparented).
func Root(w *ecs.World, e ecs.Entity) ecs.Entity {
	for {
		p, ok := Parent(w, e)
		if !ok {
			return e
		}
		e = p
	}
}

// NearestAncestor walks the parent chain upward from e and returns the
// first ancestor satisfying pred.
func NearestAncestor(w *ecs.World, e ecs.Entity, pred func(ecs.Entity) bool) (ecs.Entity, bool) {
	if pred == nil {
		return 0, false
	}
	cur := e
	for {
		p, ok := Parent(w, cur)
		if !ok {
			return 0, false
		}
		if pred(p) {
			return p, true
		}
		cur = p
	}
}

// IsAncestor reports whether ancestor appears on e's parent chain.
func IsAncestor(w *ecs.World, ancestor, e ecs.Entity) bool {
	cur := e
	for {
		p, ok := Parent(w, cur)
		if !ok {
			return false
		}
		if p == ancestor {
			return true
		}
		cur = p
	}
}

// Descendants returns e and everything beneath it in the scene graph.
// When skip is non-nil, a child for which skip returns true is neither
// yielded nor descended into; e itself is never skipped. The walk uses
// an explicit stack, so arbitrarily deep trees are safe.
func Descendants(w *ecs.World, e ecs.Entity, skip func(ecs.Entity) bool) []ecs.Entity {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	out := []ecs.Entity{e}
	stack := []ecs.Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range Children(w, cur) {
			if skip != nil && skip(child) {
				continue
			}
			out = append(out, child)
			stack = append(stack, child)
		}
	}
	return out
}

// SetParent links child under parent. With preserveWorld the child's
// local transform is recomputed so its world pose is unchanged.
func SetParent(w *ecs.World, child, parent ecs.Entity, preserveWorld bool) {
	if w == nil || !w.IsAlive(child) || !w.IsAlive(parent) || child == parent {
		return
	}
	// Linking under a descendant would cycle the graph and hang every
	// subsequent pose walk.
	if IsAncestor(w, child, parent) {
		return
	}

	world := WorldPose(w, child)
	detach(w, child)

	p, ok := ecs.Get(w, parent, component.ChildrenComponent)
	if !ok || p == nil {
		p = &component.Children{}
		_ = ecs.Add(w, parent, component.ChildrenComponent, p)
	}
	p.Entities = append(p.Entities, child)
	_ = ecs.Add(w, child, component.ParentComponent, &component.Parent{Entity: parent})

	if preserveWorld {
		local := composePoses(invPose(WorldPose(w, parent)), world)
		setLocalPose(w, child, local)
	}
}

// ClearParent unlinks child from its parent. With preserveWorld the
// child keeps its world pose, now expressed as its local transform.
func ClearParent(w *ecs.World, child ecs.Entity, preserveWorld bool) {
	if w == nil || !w.IsAlive(child) {
		return
	}
	if _, ok := Parent(w, child); !ok {
		return
	}
	world := WorldPose(w, child)
	detach(w, child)
	if preserveWorld {
		setLocalPose(w, child, world)
	}
}

func detach(w *ecs.World, child ecs.Entity) {
	p, ok := ecs.Get(w, child, component.ParentComponent)
	if ok && p != nil {
		if c, ok := ecs.Get(w, p.Entity, component.ChildrenComponent); ok && c != nil {
			for i, e := range c.Entities {
				if e == child {
					c.Entities = append(c.Entities[:i], c.Entities[i+1:]...)
					break
				}
			}
		}
	}
	ecs.Remove(w, child, component.ParentComponent)
}
