package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine"
)

type pose = engine.Pose

func composePoses(parent, local pose) pose {
	return pose{
		Position: parent.Position.Add(parent.Rotation.Rotate(local.Position)),
		Rotation: parent.Rotation.Mul(local.Rotation),
	}
}

func invPose(p pose) pose {
	inv := p.Rotation.Inverse()
	return pose{
		Position: inv.Rotate(p.Position.Mul(-1)),
		Rotation: inv,
	}
}

// LocalPose returns e's transform relative to its parent.
func LocalPose(w *ecs.World, e ecs.Entity) engine.Pose {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok || t == nil {
		return engine.IdentityPose()
	}
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl64.QuatIdent()
	}
	return engine.Pose{Position: t.Position, Rotation: rot}
}

// WorldPose composes e's transform through its ancestor chain.
func WorldPose(w *ecs.World, e ecs.Entity) engine.Pose {
	p := LocalPose(w, e)
	cur := e
	for {
		parent, ok := Parent(w, cur)
		if !ok {
			return p
		}
		p = composePoses(LocalPose(w, parent), p)
		cur = parent
	}
}

// SetWorldPose moves e so its world pose equals target, accounting for
// any parent chain.
func SetWorldPose(w *ecs.World, e ecs.Entity, target engine.Pose) {
	parent, ok := Parent(w, e)
	if !ok {
		setLocalPose(w, e, target)
		return
	}
	setLocalPose(w, e, composePoses(invPose(WorldPose(w, parent)), target))
}

// MoveRootTo repositions the root of e's hierarchy so that e's world
// pose equals target while every parent-child offset is preserved. It
// solves root_new = target * (root_to_e)^-1.
func MoveRootTo(w *ecs.World, e ecs.Entity, target engine.Pose) {
	root := Root(w, e)
	if root == e {
		setLocalPose(w, e, target)
		return
	}
	rel := composePoses(invPose(WorldPose(w, root)), WorldPose(w, e))
	setLocalPose(w, root, composePoses(target, invPose(rel)))
}

func setLocalPose(w *ecs.World, e ecs.Entity, p pose) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok || t == nil {
		t = component.NewTransform()
		_ = ecs.Add(w, e, component.TransformComponent, t)
	}
	t.Position = p.Position
	t.Rotation = p.Rotation
}
