package weld

import (
	"fmt"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine"
	"github.com/milk9111/sandbox/scene"
)

// ConstraintTracker owns the mapping from graph edges to engine-level
// breakable constraints. Every physics edge is backed by a symmetric
// pair: the engine reports a break against the object owning the
// failed constraint, so owning one on each side guarantees both sides
// observe the break.
type ConstraintTracker struct {
	world *ecs.World
	eng   engine.Engine
	graph *Graph
}

func NewConstraintTracker(w *ecs.World, eng engine.Engine, g *Graph) *ConstraintTracker {
	return &ConstraintTracker{world: w, eng: eng, graph: g}
}

// CreateBreakableLink creates the bidirectional constraint pair for the
// edge a<->b, creating default rigid bodies (mass 1, continuous
// collision detection, interpolation) for participants that lack one.
func (t *ConstraintTracker) CreateBreakableLink(a, b ecs.Entity, breakForce, breakTorque float64) error {
	if t == nil || t.eng == nil {
		return fmt.Errorf("weld: no engine for breakable link %v<->%v", a, b)
	}
	if _, err := t.ensureBody(a); err != nil {
		return err
	}
	if _, err := t.ensureBody(b); err != nil {
		return err
	}

	ca, err := t.eng.CreateConstraint(a, b, breakForce, breakTorque)
	if err != nil {
		return fmt.Errorf("weld: create constraint %v->%v: %w", a, b, err)
	}
	cb, err := t.eng.CreateConstraint(b, a, breakForce, breakTorque)
	if err != nil {
		ca.Destroy()
		return fmt.Errorf("weld: create constraint %v->%v: %w", b, a, err)
	}

	if na, ok := t.graph.Node(a); ok {
		na.Constraints[b] = append(na.Constraints[b], ca)
	}
	if nb, ok := t.graph.Node(b); ok {
		nb.Constraints[a] = append(nb.Constraints[a], cb)
	}
	return nil
}

// ReleaseLinks destroys every constraint recorded under a->b and b->a
// and removes the map entries. It also sweeps dangling constraints left
// on a whose remote end is no longer a current neighbor, as defensive
// cleanup against engine-side stale state.
func (t *ConstraintTracker) ReleaseLinks(a, b ecs.Entity) {
	if t == nil {
		return
	}
	t.release(a, b)
	t.release(b, a)

	if na, ok := t.graph.Node(a); ok {
		for remote := range na.Constraints {
			if !na.HasNeighbor(remote) {
				t.release(a, remote)
			}
		}
	}
}

func (t *ConstraintTracker) release(owner, remote ecs.Entity) {
	n, ok := t.graph.Node(owner)
	if !ok {
		return
	}
	for _, c := range n.Constraints[remote] {
		if c != nil {
			c.Destroy()
		}
	}
	delete(n.Constraints, remote)
}

// ensureBody returns the engine body for e, creating a default one and
// recording the Body capability component when absent.
func (t *ConstraintTracker) ensureBody(e ecs.Entity) (engine.Body, error) {
	if comp, ok := ecs.Get(t.world, e, component.BodyComponent); ok && comp != nil && comp.Handle != nil {
		return comp.Handle, nil
	}
	if body, ok := t.eng.Body(e); ok {
		_ = ecs.Add(t.world, e, component.BodyComponent, &component.Body{Handle: body})
		return body, nil
	}
	body, err := t.eng.CreateBody(e, scene.WorldPose(t.world, e))
	if err != nil {
		return nil, fmt.Errorf("weld: default body for %v: %w", e, err)
	}
	body.SetMass(1)
	body.SetCollisionMode(engine.CollisionContinuous)
	body.SetInterpolation(engine.InterpolationInterpolate)
	_ = ecs.Add(t.world, e, component.BodyComponent, &component.Body{Handle: body})
	return body, nil
}
