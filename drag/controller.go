// Package drag implements group-aware grab/move/release control: a
// per-object state machine that smooths a velocity estimate while the
// object (or its whole weld group) is manually moved, applies snapping
// policy, and releases with a bounded throw impulse.
package drag

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/common"
	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine"
	"github.com/milk9111/sandbox/scene"
	"github.com/milk9111/sandbox/weld"
)

const (
	// nominalTimestep substitutes for a non-positive elapsed time so a
	// stalled frame never divides by zero.
	nominalTimestep = 1.0 / 60.0
	// velocitySmoothing is the exponential-moving-average weight toward
	// each new sample: low enough to damp single-frame input jitter,
	// high enough to stay responsive.
	velocitySmoothing = 0.1
)

// Controller drives one object's drag lifecycle: Idle -> Dragging ->
// Idle. A drag in progress has no separate cancel path; abort by
// calling EndDrag with a zero throw multiplier.
type Controller struct {
	world  *ecs.World
	eng    engine.Engine
	query  *weld.GroupQuery
	target ecs.Entity
	cfg    Config

	dragging       bool
	body           engine.Body
	lastPos        mgl64.Vec3
	lastRot        mgl64.Quat
	smoothedVel    mgl64.Vec3
	savedKinematic map[ecs.Entity]bool
}

func NewController(w *ecs.World, eng engine.Engine, q *weld.GroupQuery, target ecs.Entity, cfg Config) *Controller {
	return &Controller{
		world:  w,
		eng:    eng,
		query:  q,
		target: target,
		cfg:    cfg,
	}
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c != nil && c.dragging
}

// SmoothedVelocity returns the current velocity estimate.
func (c *Controller) SmoothedVelocity() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.smoothedVel
}

// Target returns the controlled entity.
func (c *Controller) Target() ecs.Entity {
	if c == nil {
		return 0
	}
	return c.target
}

// StartGrab captures the rigid-body handle, zeroes the velocity
// estimate, applies the configured kinematic change across the resolved
// group, and dispatches OnGrab. No-op while already dragging.
func (c *Controller) StartGrab() {
	if c == nil || c.dragging || c.world == nil || !c.world.IsAlive(c.target) {
		return
	}

	c.body = nil
	if b, ok := ecs.Get(c.world, c.target, component.BodyComponent); ok && b != nil {
		c.body = b.Handle
	} else if c.eng != nil {
		if b, ok := c.eng.Body(c.target); ok {
			c.body = b
		}
	}

	c.smoothedVel = mgl64.Vec3{}
	if c.body != nil {
		c.lastPos = c.body.Pose().Position
		c.lastRot = c.body.Pose().Rotation
	} else {
		p := scene.WorldPose(c.world, c.target)
		c.lastPos = p.Position
		c.lastRot = p.Rotation
	}

	group := c.bodyScope()
	c.savedKinematic = make(map[ecs.Entity]bool, len(group))
	for e, b := range group {
		c.savedKinematic[e] = b.Kinematic()
	}
	c.applyStateChange(group, c.cfg.StateChangeOnGrab)

	for _, l := range c.listenerScope() {
		l.OnGrab()
	}
	c.world.Events().Push(ecs.Event{Type: ecs.EventGrabbed, Data: ecs.DragEvent{Entity: c.target}})
	c.dragging = true
}

// UpdateDrag moves the object toward the commanded pose and folds the
// implied velocity into the running estimate. No-op unless dragging.
func (c *Controller) UpdateDrag(targetPos mgl64.Vec3, targetRot mgl64.Quat, dt float64) {
	if c == nil || !c.dragging {
		return
	}
	if dt <= 0 {
		dt = nominalTimestep
	}

	instant := targetPos.Sub(c.lastPos).Mul(1 / dt)
	c.smoothedVel = c.smoothedVel.Add(instant.Sub(c.smoothedVel).Mul(velocitySmoothing))

	pos, rot := targetPos, targetRot
	if !c.cfg.SnapOnReleaseOnly {
		if c.cfg.UseGridSnapping {
			pos = SnappedPosition(pos, c.cfg.GridSize)
		}
		if c.cfg.SnapRotation {
			rot = SnappedRotation(rot, c.cfg.RotationSnapAngle)
		}
	}
	c.move(engine.Pose{Position: pos, Rotation: rot})

	c.lastPos = targetPos
	c.lastRot = targetRot
}

// EndDrag dispatches OnRelease, applies the release snapping and
// kinematic policy, and throws the object with the smoothed velocity
// scaled by throwMultiplier and clamped to maxThrowSpeed. No-op unless
// dragging.
func (c *Controller) EndDrag(stateChange BodyStateChange, throwMultiplier, maxThrowSpeed float64) {
	if c == nil || !c.dragging {
		return
	}

	for _, l := range c.listenerScope() {
		l.OnRelease()
	}

	if c.cfg.SnapOnReleaseOnly && (c.cfg.UseGridSnapping || c.cfg.SnapRotation) {
		pos, rot := c.lastPos, c.lastRot
		if c.cfg.UseGridSnapping {
			pos = SnappedPosition(pos, c.cfg.GridSize)
		}
		if c.cfg.SnapRotation {
			rot = SnappedRotation(rot, c.cfg.RotationSnapAngle)
		}
		c.move(engine.Pose{Position: pos, Rotation: rot})
	}

	c.applyStateChange(c.bodyScope(), stateChange)

	throw := common.ClampMagnitude(c.smoothedVel.Mul(throwMultiplier), maxThrowSpeed)
	if c.body != nil && !c.body.Kinematic() {
		c.body.SetVelocity(throw)
	}

	c.world.Events().Push(ecs.Event{Type: ecs.EventReleased, Data: ecs.DragEvent{Entity: c.target}})
	c.smoothedVel = mgl64.Vec3{}
	c.savedKinematic = nil
	c.dragging = false
}

// Release ends the drag with the controller's configured policy.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.EndDrag(c.cfg.StateChangeOnRelease, c.cfg.ThrowMultiplier, c.cfg.MaxThrowSpeed)
}

// move applies a commanded pose: a bodied object moves through the
// engine's kinematic primitives so the physics step produces collision
// response; a parented one moves its hierarchy root so its own world
// pose lands on target; anything else is set directly.
func (c *Controller) move(target engine.Pose) {
	if c.body != nil {
		c.body.MovePosition(target.Position)
		c.body.MoveRotation(target.Rotation)
		return
	}
	if _, ok := scene.Parent(c.world, c.target); ok {
		scene.MoveRootTo(c.world, c.target, target)
		return
	}
	scene.SetWorldPose(c.world, c.target, target)
}

// bodyScope resolves the rigid bodies affected by kinematic changes:
// the whole weld group when the target holds an established hierarchy
// weld, otherwise just the target's own body.
func (c *Controller) bodyScope() map[ecs.Entity]engine.Body {
	out := make(map[ecs.Entity]engine.Body)
	node, ok := ecs.Get(c.world, c.target, component.WeldNodeComponent)
	if ok && node != nil && node.Type == component.JoinHierarchy && node.Degree() > 0 && c.query != nil {
		for _, e := range weld.Find(c.query, c.target, component.BodyComponent) {
			if b, ok := ecs.Get(c.world, e, component.BodyComponent); ok && b != nil && b.Handle != nil {
				out[e] = b.Handle
			}
		}
		return out
	}
	if c.body != nil {
		out[c.target] = c.body
	}
	return out
}

// listenerScope resolves OnGrab/OnRelease dispatch: group-wide when
// propagation is enabled and the target is welded, otherwise the local
// subtree excluding nested weld nodes.
func (c *Controller) listenerScope() []component.DragListener {
	welded := ecs.Has(c.world, c.target, component.WeldNodeComponent)
	if c.cfg.PropagateToGroup && welded && c.query != nil {
		return weld.Collect(c.query, c.target, component.DragListenerComponent)
	}
	skip := func(d ecs.Entity) bool {
		return ecs.Has(c.world, d, component.WeldNodeComponent)
	}
	var out []component.DragListener
	for _, d := range scene.Descendants(c.world, c.target, skip) {
		if l, ok := ecs.Get(c.world, d, component.DragListenerComponent); ok && l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (c *Controller) applyStateChange(group map[ecs.Entity]engine.Body, change BodyStateChange) {
	switch change {
	case StateNoChange:
	case StateKinematic:
		for _, b := range group {
			b.SetKinematic(true)
		}
	case StateNonKinematic:
		for _, b := range group {
			b.SetKinematic(false)
		}
	case StateRestore:
		for e, b := range group {
			if saved, ok := c.savedKinematic[e]; ok {
				b.SetKinematic(saved)
			}
		}
	}
}
