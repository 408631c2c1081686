package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/engine"
)

// Body is an in-process rigid body.
type Body struct {
	entity        ecs.Entity
	mass          float64
	kinematic     bool
	collisionMode engine.CollisionMode
	interpolation engine.InterpolationMode

	pose     engine.Pose
	velocity mgl64.Vec3

	// pending kinematic move, applied at the next Step
	moveTarget engine.Pose
	hasMovePos bool
	hasMoveRot bool
}

func (b *Body) Entity() ecs.Entity { return b.entity }

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) SetMass(mass float64) {
	if mass <= 0 {
		mass = 1
	}
	b.mass = mass
}

func (b *Body) SetCollisionMode(mode engine.CollisionMode) {
	b.collisionMode = mode
}

func (b *Body) CollisionMode() engine.CollisionMode { return b.collisionMode }

func (b *Body) SetInterpolation(mode engine.InterpolationMode) {
	b.interpolation = mode
}

func (b *Body) Interpolation() engine.InterpolationMode { return b.interpolation }

func (b *Body) Kinematic() bool { return b.kinematic }

func (b *Body) SetKinematic(kinematic bool) {
	b.kinematic = kinematic
	if kinematic {
		b.velocity = mgl64.Vec3{}
	}
}

func (b *Body) Pose() engine.Pose { return b.pose }

func (b *Body) SetPose(p engine.Pose) {
	if p.Rotation.Len() == 0 {
		p.Rotation = mgl64.QuatIdent()
	}
	b.pose = p
}

func (b *Body) MovePosition(p mgl64.Vec3) {
	b.moveTarget.Position = p
	b.hasMovePos = true
}

func (b *Body) MoveRotation(q mgl64.Quat) {
	b.moveTarget.Rotation = q
	b.hasMoveRot = true
}

func (b *Body) Velocity() mgl64.Vec3 { return b.velocity }

func (b *Body) SetVelocity(v mgl64.Vec3) {
	if b.kinematic {
		return
	}
	b.velocity = v
}

func (b *Body) applyMoveTarget() {
	if b.hasMovePos {
		b.pose.Position = b.moveTarget.Position
		b.hasMovePos = false
	}
	if b.hasMoveRot {
		b.pose.Rotation = b.moveTarget.Rotation
		b.hasMoveRot = false
	}
}
