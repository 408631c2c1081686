package drag

import "github.com/go-gl/mathgl/mgl64"

// BodyStateChange selects what happens to the kinematic flag of every
// rigid body in the affected group on grab or release.
type BodyStateChange int

const (
	StateNoChange BodyStateChange = iota
	StateKinematic
	StateNonKinematic
	// StateRestore reapplies the kinematic flags snapshotted at grab
	// time. Only meaningful on release.
	StateRestore
)

func (s BodyStateChange) String() string {
	switch s {
	case StateKinematic:
		return "kinematic"
	case StateNonKinematic:
		return "non-kinematic"
	case StateRestore:
		return "restore"
	default:
		return "no-change"
	}
}

// Config is the manipulation bundle collaborators pass in when wiring a
// controller: grab/release kinematic policy, throw shaping, and the
// snapping rules applied while dragging.
type Config struct {
	StateChangeOnGrab    BodyStateChange
	StateChangeOnRelease BodyStateChange

	ThrowMultiplier float64
	MaxThrowSpeed   float64

	UseGridSnapping   bool
	GridSize          mgl64.Vec3
	SnapOnReleaseOnly bool
	SnapRotation      bool
	// RotationSnapAngle is the snap step in degrees.
	RotationSnapAngle float64

	// PropagateToGroup widens grab/release listener dispatch from the
	// local subtree to the whole weld group.
	PropagateToGroup bool
}

// DefaultConfig mirrors the shipped tuning defaults.
func DefaultConfig() Config {
	return Config{
		StateChangeOnGrab:    StateKinematic,
		StateChangeOnRelease: StateRestore,
		ThrowMultiplier:      1.0,
		MaxThrowSpeed:        20.0,
		PropagateToGroup:     true,
	}
}
