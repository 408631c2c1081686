package component

import "github.com/milk9111/sandbox/ecs"

// Parent links an entity to its scene-graph parent.
type Parent struct {
	Entity ecs.Entity
}

// Children lists an entity's direct scene-graph children. Maintained by
// the scene package; do not mutate directly.
type Children struct {
	Entities []ecs.Entity
}

var (
	ParentComponent   = ecs.NewComponent[*Parent]()
	ChildrenComponent = ecs.NewComponent[*Children]()
)
