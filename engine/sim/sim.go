// Package sim is a small reference implementation of the engine
// contract: forward-integrated dynamic bodies, kinematic move targets
// resolved at step time, and breakable distance constraints that fire
// the break callback against the owning entity. It stands in for a
// full physics engine in the demo loop and in tests; the weld/drag
// core never depends on it directly.
package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/engine"
)

// constraintStiffness converts a constraint's positional deviation into
// the corrective force used both for soft position correction and for
// break-threshold checks.
const constraintStiffness = 200.0

// Engine is an in-process simulation engine.
type Engine struct {
	gravity     mgl64.Vec3
	bodies      map[ecs.Entity]*Body
	constraints []*Constraint
	onBroken    func(owner ecs.Entity)
}

// NewEngine creates an engine with no gravity.
func NewEngine() *Engine {
	return &Engine{bodies: make(map[ecs.Entity]*Body)}
}

// SetGravity sets the world gravity applied to dynamic bodies.
func (eng *Engine) SetGravity(g mgl64.Vec3) {
	if eng == nil {
		return
	}
	eng.gravity = g
}

// Body returns the handle for an entity, if one exists.
func (eng *Engine) Body(e ecs.Entity) (engine.Body, bool) {
	if eng == nil {
		return nil, false
	}
	b, ok := eng.bodies[e]
	if !ok {
		return nil, false
	}
	return b, true
}

// CreateBody creates a dynamic body for an entity at the given pose.
func (eng *Engine) CreateBody(e ecs.Entity, at engine.Pose) (engine.Body, error) {
	if eng == nil || !e.Valid() {
		return nil, fmt.Errorf("sim: invalid entity %v", e)
	}
	if _, ok := eng.bodies[e]; ok {
		return nil, fmt.Errorf("sim: entity %v already has a body", e)
	}
	b := &Body{
		entity: e,
		mass:   1,
		pose:   at,
	}
	if b.pose.Rotation.Len() == 0 {
		b.pose.Rotation = mgl64.QuatIdent()
	}
	eng.bodies[e] = b
	return b, nil
}

// RemoveBody destroys an entity's body and every constraint touching it.
func (eng *Engine) RemoveBody(e ecs.Entity) {
	if eng == nil {
		return
	}
	delete(eng.bodies, e)
	kept := eng.constraints[:0]
	for _, c := range eng.constraints {
		if c.owner == e || c.other == e {
			c.destroyed = true
			continue
		}
		kept = append(kept, c)
	}
	eng.constraints = kept
}

// CreateConstraint links owner's body to other's body.
func (eng *Engine) CreateConstraint(owner, other ecs.Entity, breakForce, breakTorque float64) (engine.Constraint, error) {
	if eng == nil {
		return nil, fmt.Errorf("sim: engine is nil")
	}
	ob, ok := eng.bodies[owner]
	if !ok {
		return nil, fmt.Errorf("sim: constraint owner %v has no body", owner)
	}
	tb, ok := eng.bodies[other]
	if !ok {
		return nil, fmt.Errorf("sim: constraint target %v has no body", other)
	}
	c := &Constraint{
		eng:         eng,
		owner:       owner,
		other:       other,
		breakForce:  breakForce,
		breakTorque: breakTorque,
		restOffset:  tb.pose.Position.Sub(ob.pose.Position),
	}
	eng.constraints = append(eng.constraints, c)
	return c, nil
}

// OnConstraintBroken registers the break callback.
func (eng *Engine) OnConstraintBroken(fn func(owner ecs.Entity)) {
	if eng == nil {
		return
	}
	eng.onBroken = fn
}

// Step advances the simulation: kinematic move targets are applied,
// dynamic bodies integrate velocity, and constraints either correct
// their bodies or break.
func (eng *Engine) Step(dt float64) {
	if eng == nil || dt <= 0 {
		return
	}

	for _, b := range eng.bodies {
		b.applyMoveTarget()
	}

	var broken []*Constraint
	for _, c := range eng.constraints {
		if c.destroyed {
			continue
		}
		ob, okA := eng.bodies[c.owner]
		tb, okB := eng.bodies[c.other]
		if !okA || !okB {
			continue
		}
		deviation := tb.pose.Position.Sub(ob.pose.Position).Sub(c.restOffset)
		force := deviation.Len() * constraintStiffness
		if c.breakForce > 0 && force > c.breakForce {
			broken = append(broken, c)
			continue
		}
		// Soft correction: pull each dynamic side halfway toward rest.
		correction := deviation.Mul(0.5)
		if !ob.kinematic {
			ob.velocity = ob.velocity.Add(correction.Mul(dt * constraintStiffness / ob.mass))
		}
		if !tb.kinematic {
			tb.velocity = tb.velocity.Sub(correction.Mul(dt * constraintStiffness / tb.mass))
		}
	}
	for _, c := range broken {
		eng.breakConstraint(c)
	}

	for _, b := range eng.bodies {
		if b.kinematic {
			continue
		}
		b.velocity = b.velocity.Add(eng.gravity.Mul(dt))
		b.pose.Position = b.pose.Position.Add(b.velocity.Mul(dt))
	}
}

// ApplyStress reports an external force/torque load on every constraint
// owned by an entity, breaking those whose thresholds are exceeded.
// Tests and the demo use it to model impacts without a full solver.
func (eng *Engine) ApplyStress(owner ecs.Entity, force, torque float64) {
	if eng == nil {
		return
	}
	var broken []*Constraint
	for _, c := range eng.constraints {
		if c.destroyed || c.owner != owner {
			continue
		}
		if (c.breakForce > 0 && force > c.breakForce) ||
			(c.breakTorque > 0 && torque > c.breakTorque) {
			broken = append(broken, c)
		}
	}
	for _, c := range broken {
		eng.breakConstraint(c)
	}
}

// ConstraintCount returns the number of live constraints.
func (eng *Engine) ConstraintCount() int {
	if eng == nil {
		return 0
	}
	n := 0
	for _, c := range eng.constraints {
		if !c.destroyed {
			n++
		}
	}
	return n
}

func (eng *Engine) breakConstraint(c *Constraint) {
	if c == nil || c.destroyed {
		return
	}
	owner := c.owner
	eng.removeConstraint(c)
	if eng.onBroken != nil {
		eng.onBroken(owner)
	}
}

func (eng *Engine) removeConstraint(c *Constraint) {
	if eng == nil || c == nil || c.destroyed {
		return
	}
	c.destroyed = true
	for i, cc := range eng.constraints {
		if cc == c {
			eng.constraints = append(eng.constraints[:i], eng.constraints[i+1:]...)
			break
		}
	}
}
