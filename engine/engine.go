// Package engine defines the contract the weld/drag core expects from
// the hosting real-time simulation engine: rigid-body handles,
// breakable constraints with a break callback, and kinematic move
// primitives distinct from direct pose assignment. The core only ever
// talks to these interfaces; engine/sim provides the reference
// implementation used by the demo loop and tests.
package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
)

// CollisionMode selects how the engine detects collisions for a body.
type CollisionMode int

const (
	CollisionDiscrete CollisionMode = iota
	CollisionContinuous
)

// InterpolationMode selects pose interpolation between physics steps.
type InterpolationMode int

const (
	InterpolationNone InterpolationMode = iota
	InterpolationInterpolate
)

// Pose is a world-space position and orientation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// Body is a rigid-body handle owned by the engine.
type Body interface {
	Entity() ecs.Entity

	Mass() float64
	SetMass(mass float64)
	SetCollisionMode(mode CollisionMode)
	SetInterpolation(mode InterpolationMode)

	Kinematic() bool
	SetKinematic(kinematic bool)

	Pose() Pose
	// SetPose teleports the body, bypassing collision response.
	SetPose(p Pose)
	// MovePosition and MoveRotation command a kinematic move that the
	// engine resolves during its next step, producing correct collision
	// response for anything in the way.
	MovePosition(p mgl64.Vec3)
	MoveRotation(q mgl64.Quat)

	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
}

// Constraint is a breakable link between two bodies. The engine reports
// a break against the entity that owns the constraint, which is why the
// weld core creates one from each side of an edge.
type Constraint interface {
	Owner() ecs.Entity
	Other() ecs.Entity
	BreakForce() float64
	BreakTorque() float64
	Destroy()
}

// Engine is the simulation surface the core calls into.
type Engine interface {
	// Body returns the rigid-body handle for an entity, if one exists.
	Body(e ecs.Entity) (Body, bool)
	// CreateBody creates a rigid-body handle for an entity at the given
	// pose. Creating a second body for the same entity is an error.
	CreateBody(e ecs.Entity, at Pose) (Body, error)
	// RemoveBody destroys an entity's body and any constraints
	// referencing it.
	RemoveBody(e ecs.Entity)

	// CreateConstraint links owner's body to other's body with break
	// thresholds. Thresholds <= 0 mean unbreakable on that axis.
	CreateConstraint(owner, other ecs.Entity, breakForce, breakTorque float64) (Constraint, error)

	// OnConstraintBroken registers the callback invoked with the owning
	// entity when a constraint's thresholds are exceeded.
	OnConstraintBroken(fn func(owner ecs.Entity))

	// Step advances the simulation by dt seconds.
	Step(dt float64)
}
