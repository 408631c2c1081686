package component

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
)

// Transform is an object's pose relative to its parent, or in world
// space when it has no parent.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform returns an identity transform.
func NewTransform() *Transform {
	return &Transform{Rotation: mgl64.QuatIdent()}
}

var TransformComponent = ecs.NewComponent[*Transform]()
