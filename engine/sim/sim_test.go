package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/engine"
)

var _ engine.Engine = (*Engine)(nil)

func poseAt(x, y, z float64) engine.Pose {
	return engine.Pose{Position: mgl64.Vec3{x, y, z}, Rotation: mgl64.QuatIdent()}
}

func newWorldEntity(t *testing.T) (*ecs.World, ecs.Entity, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	return w, w.CreateEntity(), w.CreateEntity()
}

func TestCreateBodyDuplicate(t *testing.T) {
	_, a, _ := newWorldEntity(t)
	eng := NewEngine()
	if _, err := eng.CreateBody(a, poseAt(0, 0, 0)); err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	if _, err := eng.CreateBody(a, poseAt(1, 0, 0)); err == nil {
		t.Fatalf("second body for the same entity should fail")
	}
}

func TestCreateBodyDefaultsRotation(t *testing.T) {
	_, a, _ := newWorldEntity(t)
	eng := NewEngine()
	b, err := eng.CreateBody(a, engine.Pose{Position: mgl64.Vec3{1, 2, 3}})
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	if b.Pose().Rotation.Len() == 0 {
		t.Fatalf("zero rotation should normalize to identity")
	}
}

func TestGravityIntegration(t *testing.T) {
	_, a, _ := newWorldEntity(t)
	eng := NewEngine()
	eng.SetGravity(mgl64.Vec3{0, -10, 0})
	b, _ := eng.CreateBody(a, poseAt(0, 0, 0))

	eng.Step(0.1)
	if got := b.Velocity()[1]; math.Abs(got-(-1)) > 1e-9 {
		t.Fatalf("velocity after one step = %v, want -1", got)
	}
	if got := b.Pose().Position[1]; math.Abs(got-(-0.1)) > 1e-9 {
		t.Fatalf("position after one step = %v, want -0.1", got)
	}
}

func TestKinematicBodyIgnoresGravityAndVelocity(t *testing.T) {
	_, a, _ := newWorldEntity(t)
	eng := NewEngine()
	eng.SetGravity(mgl64.Vec3{0, -10, 0})
	b, _ := eng.CreateBody(a, poseAt(0, 5, 0))
	b.SetKinematic(true)
	b.SetVelocity(mgl64.Vec3{1, 1, 1}) // ignored while kinematic

	eng.Step(0.1)
	if b.Pose().Position != (mgl64.Vec3{0, 5, 0}) {
		t.Fatalf("kinematic body drifted to %v", b.Pose().Position)
	}
	if b.Velocity() != (mgl64.Vec3{}) {
		t.Fatalf("kinematic body velocity = %v, want zero", b.Velocity())
	}
}

func TestMoveTargetAppliedAtStep(t *testing.T) {
	_, a, _ := newWorldEntity(t)
	eng := NewEngine()
	b, _ := eng.CreateBody(a, poseAt(0, 0, 0))
	b.SetKinematic(true)

	target := mgl64.Vec3{1, 2, 3}
	rot := mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0})
	b.MovePosition(target)
	b.MoveRotation(rot)
	if b.Pose().Position == target {
		t.Fatalf("move target should not apply before the step")
	}

	eng.Step(1.0 / 60)
	if b.Pose().Position != target {
		t.Fatalf("position = %v, want %v", b.Pose().Position, target)
	}
	if b.Pose().Rotation != rot {
		t.Fatalf("rotation = %v, want %v", b.Pose().Rotation, rot)
	}
}

func TestConstraintBreakFiresOwnerCallback(t *testing.T) {
	_, a, b := newWorldEntity(t)
	eng := NewEngine()
	_, _ = eng.CreateBody(a, poseAt(0, 0, 0))
	bb, _ := eng.CreateBody(b, poseAt(1, 0, 0))

	var brokenOwner ecs.Entity
	eng.OnConstraintBroken(func(owner ecs.Entity) { brokenOwner = owner })

	if _, err := eng.CreateConstraint(a, b, 100, 100); err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}

	// Yank b far past the threshold: deviation * stiffness >> breakForce.
	bb.SetPose(poseAt(10, 0, 0))
	eng.Step(1.0 / 60)

	if brokenOwner != a {
		t.Fatalf("break reported against %v, want owner %v", brokenOwner, a)
	}
	if eng.ConstraintCount() != 0 {
		t.Fatalf("constraint count = %d, want 0", eng.ConstraintCount())
	}
}

func TestConstraintSoftCorrection(t *testing.T) {
	_, a, b := newWorldEntity(t)
	eng := NewEngine()
	ab, _ := eng.CreateBody(a, poseAt(0, 0, 0))
	bb, _ := eng.CreateBody(b, poseAt(1, 0, 0))
	if _, err := eng.CreateConstraint(a, b, 0, 0); err != nil { // unbreakable
		t.Fatalf("CreateConstraint: %v", err)
	}

	bb.SetPose(poseAt(1.1, 0, 0))
	eng.Step(0.01)

	if ab.Velocity()[0] <= 0 {
		t.Fatalf("owner should be pulled toward the drifted body, velocity %v", ab.Velocity())
	}
	if bb.Velocity()[0] >= 0 {
		t.Fatalf("drifted body should be pulled back, velocity %v", bb.Velocity())
	}
}

func TestApplyStressBreaksByThreshold(t *testing.T) {
	cases := []struct {
		name   string
		force  float64
		torque float64
		broken bool
	}{
		{"under_both", 50, 50, false},
		{"force_over", 150, 0, true},
		{"torque_over", 0, 150, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, a, b := newWorldEntity(t)
			eng := NewEngine()
			_, _ = eng.CreateBody(a, poseAt(0, 0, 0))
			_, _ = eng.CreateBody(b, poseAt(1, 0, 0))
			if _, err := eng.CreateConstraint(a, b, 100, 100); err != nil {
				t.Fatalf("CreateConstraint: %v", err)
			}
			fired := false
			eng.OnConstraintBroken(func(ecs.Entity) { fired = true })

			eng.ApplyStress(a, c.force, c.torque)
			if fired != c.broken {
				t.Fatalf("fired = %v, want %v", fired, c.broken)
			}
		})
	}
}

func TestApplyStressOnlyHitsOwner(t *testing.T) {
	_, a, b := newWorldEntity(t)
	eng := NewEngine()
	_, _ = eng.CreateBody(a, poseAt(0, 0, 0))
	_, _ = eng.CreateBody(b, poseAt(1, 0, 0))
	if _, err := eng.CreateConstraint(a, b, 100, 100); err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}

	eng.ApplyStress(b, 1000, 0) // b owns nothing
	if eng.ConstraintCount() != 1 {
		t.Fatalf("stress on a non-owner should not break the link")
	}
}

func TestDestroyDoesNotFireCallback(t *testing.T) {
	_, a, b := newWorldEntity(t)
	eng := NewEngine()
	_, _ = eng.CreateBody(a, poseAt(0, 0, 0))
	_, _ = eng.CreateBody(b, poseAt(1, 0, 0))
	c, err := eng.CreateConstraint(a, b, 100, 100)
	if err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}
	fired := false
	eng.OnConstraintBroken(func(ecs.Entity) { fired = true })

	c.Destroy()
	c.Destroy() // idempotent
	if fired {
		t.Fatalf("deliberate destruction must not report a break")
	}
	if eng.ConstraintCount() != 0 {
		t.Fatalf("constraint count = %d, want 0", eng.ConstraintCount())
	}
}

func TestRemoveBodyDropsConstraints(t *testing.T) {
	_, a, b := newWorldEntity(t)
	eng := NewEngine()
	_, _ = eng.CreateBody(a, poseAt(0, 0, 0))
	_, _ = eng.CreateBody(b, poseAt(1, 0, 0))
	if _, err := eng.CreateConstraint(a, b, 100, 100); err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}
	if _, err := eng.CreateConstraint(b, a, 100, 100); err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}

	eng.RemoveBody(a)
	if _, ok := eng.Body(a); ok {
		t.Fatalf("body should be gone")
	}
	if eng.ConstraintCount() != 0 {
		t.Fatalf("constraints touching the removed body should be dropped")
	}
}
