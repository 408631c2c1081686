package component

import (
	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/engine"
)

// Body marks an entity as rigid-body-capable and caches its engine
// handle. The weld constraint tracker creates a default body (mass 1,
// continuous collision, interpolation) for physics-join participants
// that lack one.
type Body struct {
	Handle engine.Body
}

var BodyComponent = ecs.NewComponent[*Body]()
