package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine"
	"github.com/milk9111/sandbox/script"
)

// Build spawns an entity from an object spec: transform, optional
// rigid body, weld node with optional deferred auto-join, and an
// optional tengo behavior attached as weld/drag listener.
func Build(w *ecs.World, eng engine.Engine, spec ObjectSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("prefabs: world is nil")
	}
	e := w.CreateEntity()

	t := component.NewTransform()
	t.Position = mgl64.Vec3{spec.Transform.X, spec.Transform.Y, spec.Transform.Z}
	t.Rotation = mgl64.AnglesToQuat(
		mgl64.DegToRad(spec.Transform.RotX),
		mgl64.DegToRad(spec.Transform.RotY),
		mgl64.DegToRad(spec.Transform.RotZ),
		mgl64.XYZ,
	)
	if err := ecs.Add(w, e, component.TransformComponent, t); err != nil {
		return 0, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
	}

	if spec.Body != nil {
		if eng == nil {
			return 0, fmt.Errorf("prefabs: build %s: body requested without engine", spec.Name)
		}
		body, err := eng.CreateBody(e, engine.Pose{Position: t.Position, Rotation: t.Rotation})
		if err != nil {
			return 0, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
		}
		body.SetMass(spec.Body.Mass)
		body.SetKinematic(spec.Body.Kinematic)
		if spec.Body.Continuous {
			body.SetCollisionMode(engine.CollisionContinuous)
		}
		if spec.Body.Interpolate {
			body.SetInterpolation(engine.InterpolationInterpolate)
		}
		_ = ecs.Add(w, e, component.BodyComponent, &component.Body{Handle: body})
	}

	if spec.Weld != nil {
		_ = ecs.Add(w, e, component.WeldNodeComponent, component.NewWeldNode())
		if spec.Weld.Auto {
			_ = ecs.Add(w, e, component.AutoWeldComponent, &component.AutoWeld{
				Requested: parseJoinType(spec.Weld.Requested),
				Delay:     1,
			})
		}
	}

	if spec.Script != "" {
		src, err := LoadScript(spec.Script)
		if err != nil {
			return 0, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
		}
		behavior, err := script.NewBehavior(spec.Script, src)
		if err != nil {
			return 0, fmt.Errorf("prefabs: build %s: %w", spec.Name, err)
		}
		_ = ecs.Add(w, e, component.WeldListenerComponent, component.WeldListener(behavior))
		_ = ecs.Add(w, e, component.DragListenerComponent, component.DragListener(behavior))
	}

	return e, nil
}

func parseJoinType(s string) component.JoinType {
	switch s {
	case "hierarchy":
		return component.JoinHierarchy
	case "physics":
		return component.JoinPhysics
	default:
		return component.JoinUndefined
	}
}
