package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
)

// Constraint is a breakable distance link between two bodies. Each side
// of a weld edge owns one independently; breaking is reported against
// the owner only.
type Constraint struct {
	eng         *Engine
	owner       ecs.Entity
	other       ecs.Entity
	breakForce  float64
	breakTorque float64
	restOffset  mgl64.Vec3
	destroyed   bool
}

func (c *Constraint) Owner() ecs.Entity { return c.owner }

func (c *Constraint) Other() ecs.Entity { return c.other }

func (c *Constraint) BreakForce() float64 { return c.breakForce }

func (c *Constraint) BreakTorque() float64 { return c.breakTorque }

// Destroy removes the constraint without firing the break callback.
func (c *Constraint) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	c.eng.removeConstraint(c)
}
