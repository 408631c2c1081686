package weld

import (
	"fmt"
	"log"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine"
	"github.com/milk9111/sandbox/scene"
)

// Default break thresholds for physics joins, overridable per
// coordinator (prefabs tuning hot-reload feeds SetBreakThresholds).
const (
	DefaultBreakForce  = 2500.0
	DefaultBreakTorque = 2500.0
)

// Coordinator orchestrates join/unjoin requests: it chooses the
// effective join semantics, applies the structural change (reparenting
// or constraint creation), and notifies capability listeners. All
// graph mutation funnels through here.
type Coordinator struct {
	world   *ecs.World
	eng     engine.Engine
	graph   *Graph
	tracker *ConstraintTracker

	breakForce  float64
	breakTorque float64
}

func NewCoordinator(w *ecs.World, eng engine.Engine) *Coordinator {
	c := &Coordinator{
		world:       w,
		eng:         eng,
		graph:       NewGraph(w),
		breakForce:  DefaultBreakForce,
		breakTorque: DefaultBreakTorque,
	}
	c.tracker = NewConstraintTracker(w, eng, c.graph)
	if eng != nil {
		eng.OnConstraintBroken(c.handleConstraintBroken)
	}
	return c
}

// Graph returns the underlying connectivity graph (read-mostly; mutate
// only through the coordinator).
func (c *Coordinator) Graph() *Graph {
	if c == nil {
		return nil
	}
	return c.graph
}

// Tracker returns the constraint tracker.
func (c *Coordinator) Tracker() *ConstraintTracker {
	if c == nil {
		return nil
	}
	return c.tracker
}

// SetBreakThresholds updates the force/torque thresholds used for new
// physics joins. Existing constraints keep their thresholds.
func (c *Coordinator) SetBreakThresholds(force, torque float64) {
	if c == nil {
		return
	}
	c.breakForce = force
	c.breakTorque = torque
}

// Join welds a to b. The requested type escalates to a physics join
// when either participant carries a rigid body anywhere in its subtree;
// a hierarchy weld of something already under physics simulation would
// leave the engine and the scene graph fighting over the same pose.
// reparentTarget, when valid, replaces b as the hierarchy parent.
// Invalid participants (self-join, dead entities, a hierarchy parent
// inside a's own subtree) are silently ignored.
func (c *Coordinator) Join(a, b ecs.Entity, requested component.JoinType, reparentTarget ecs.Entity) error {
	if c == nil || c.world == nil {
		return nil
	}
	if a == b || !c.world.IsAlive(a) || !c.world.IsAlive(b) {
		return nil
	}

	effective := requested
	if effective == component.JoinUndefined {
		effective = component.JoinHierarchy
	}
	if c.subtreeHasBody(a) || c.subtreeHasBody(b) {
		effective = component.JoinPhysics
	}

	parent := b
	if reparentTarget.Valid() && c.world.IsAlive(reparentTarget) {
		parent = reparentTarget
	}
	// Reparenting a under itself or its own descendant would cycle the
	// scene graph; treat it like any other invalid participant.
	if effective == component.JoinHierarchy &&
		(parent == a || scene.IsAncestor(c.world, a, parent)) {
		return nil
	}

	for _, e := range [2]ecs.Entity{a, b} {
		if n, ok := c.graph.Node(e); ok && n.Degree() > 0 && n.Type != effective {
			return fmt.Errorf("%w: %v is %v, requested %v", ErrTypeMismatch, e, n.Type, effective)
		}
	}
	if c.graph.HasEdge(a, b) {
		return fmt.Errorf("%w: %v<->%v", ErrAlreadyConnected, a, b)
	}

	wasIsolatedA := c.graph.Degree(a) == 0
	wasIsolatedB := c.graph.Degree(b) == 0

	na := c.graph.EnsureNode(a)
	nb := c.graph.EnsureNode(b)
	if err := c.graph.AddEdge(a, b); err != nil {
		return err
	}
	na.Type = effective
	nb.Type = effective

	switch effective {
	case component.JoinHierarchy:
		// Collapse any prior hierarchy-weld chain into the one new
		// parent pointer, keeping a's world pose.
		scene.SetParent(c.world, a, parent, true)
	case component.JoinPhysics:
		if err := c.tracker.CreateBreakableLink(a, b, c.breakForce, c.breakTorque); err != nil {
			c.rollbackEdge(a, b, wasIsolatedA, wasIsolatedB)
			return err
		}
	}

	c.notifyJoined(a, wasIsolatedA)
	c.notifyJoined(b, wasIsolatedB)
	c.world.Events().Push(ecs.Event{Type: ecs.EventWelded, Data: ecs.WeldEvent{A: a, B: b}})
	return nil
}

// Unjoin severs every edge on a, releasing constraints and restoring
// hierarchy-welded participants to no parent. Neighbors left without
// edges return to the undefined join type. Listeners on a always get
// OnRemoved; OnUnweld fires only when a actually had edges.
func (c *Coordinator) Unjoin(a ecs.Entity) {
	if c == nil || c.world == nil || !c.world.IsAlive(a) {
		return
	}

	node, hasNode := c.graph.Node(a)
	hadEdges := hasNode && node.Degree() > 0

	neighbors := c.graph.RemoveAllEdges(a)
	// A hierarchy weld owns a's parent link outright, whether it points
	// at a neighbor or at a separate reparent target.
	if hadEdges && node.Type == component.JoinHierarchy {
		scene.ClearParent(c.world, a, true)
	}
	for _, n := range neighbors {
		c.tracker.ReleaseLinks(a, n)
		if p, ok := scene.Parent(c.world, n); ok && p == a {
			scene.ClearParent(c.world, n, true)
		}
		if nn, ok := c.graph.Node(n); ok && nn.Degree() == 0 {
			nn.Type = component.JoinUndefined
		}
	}
	if hasNode {
		node.Type = component.JoinUndefined
	}

	c.notifyUnjoined(a, hadEdges)
	if hadEdges {
		c.world.Events().Push(ecs.Event{Type: ecs.EventUnwelded, Data: ecs.WeldEvent{A: a}})
	}
}

// WeldByPlayerTo is the player-driven build action: a hierarchy-join
// request with recoverable failures reported as warnings.
func (c *Coordinator) WeldByPlayerTo(a, b ecs.Entity) bool {
	if err := c.Join(a, b, component.JoinHierarchy, 0); err != nil {
		log.Printf("weld: player weld %v->%v: %v", a, b, err)
		return false
	}
	return true
}

// UnweldByPlayer is the player-driven split action.
func (c *Coordinator) UnweldByPlayer(a ecs.Entity) {
	c.Unjoin(a)
}

// HandleDestroyed severs a's edges and drops its weld node and engine
// body. Call before destroying the host entity.
func (c *Coordinator) HandleDestroyed(a ecs.Entity) {
	if c == nil || c.world == nil {
		return
	}
	c.Unjoin(a)
	ecs.Remove(c.world, a, component.WeldNodeComponent)
	if _, ok := ecs.Get(c.world, a, component.BodyComponent); ok {
		if c.eng != nil {
			c.eng.RemoveBody(a)
		}
		ecs.Remove(c.world, a, component.BodyComponent)
	}
}

// handleConstraintBroken reacts to engine-reported constraint failure.
// The whole group anchored at the broken side separates; partial repair
// of a half-broken pair is never attempted.
func (c *Coordinator) handleConstraintBroken(owner ecs.Entity) {
	log.Printf("weld: constraint broken on %v, unjoining", owner)
	c.Unjoin(owner)
}

func (c *Coordinator) rollbackEdge(a, b ecs.Entity, wasIsolatedA, wasIsolatedB bool) {
	if na, ok := c.graph.Node(a); ok {
		delete(na.Neighbors, b)
		if wasIsolatedA {
			na.Type = component.JoinUndefined
		}
	}
	if nb, ok := c.graph.Node(b); ok {
		delete(nb.Neighbors, a)
		if wasIsolatedB {
			nb.Type = component.JoinUndefined
		}
	}
}

// subtreeHasBody reports whether e or anything physically attached
// beneath it carries a rigid body.
func (c *Coordinator) subtreeHasBody(e ecs.Entity) bool {
	if c.eng != nil {
		if _, ok := c.eng.Body(e); ok {
			return true
		}
	}
	for _, d := range scene.Descendants(c.world, e, nil) {
		if ecs.Has(c.world, d, component.BodyComponent) {
			return true
		}
		if c.eng != nil {
			if _, ok := c.eng.Body(d); ok {
				return true
			}
		}
	}
	return false
}

// listenersUnder collects weld listeners on e and its descendants,
// stopping at descendants that own weld nodes of their own.
func (c *Coordinator) listenersUnder(e ecs.Entity) []component.WeldListener {
	skip := func(d ecs.Entity) bool {
		return ecs.Has(c.world, d, component.WeldNodeComponent)
	}
	var out []component.WeldListener
	for _, d := range scene.Descendants(c.world, e, skip) {
		if l, ok := ecs.Get(c.world, d, component.WeldListenerComponent); ok && l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (c *Coordinator) notifyJoined(e ecs.Entity, wasIsolated bool) {
	for _, l := range c.listenersUnder(e) {
		l.OnAdded()
		if wasIsolated {
			l.OnWeld()
		}
	}
}

func (c *Coordinator) notifyUnjoined(e ecs.Entity, hadEdges bool) {
	for _, l := range c.listenersUnder(e) {
		l.OnRemoved()
		if hadEdges {
			l.OnUnweld()
		}
	}
}
