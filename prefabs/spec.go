// Package prefabs holds the yaml-described sandbox objects and tuning,
// embedded with on-disk override, plus the builders that spawn them
// into an ECS world.
package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/sandbox/drag"
)

// LoadSpec decodes a yaml spec file into T.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// ObjectSpec describes one spawnable sandbox object.
type ObjectSpec struct {
	Name      string        `yaml:"name"`
	Transform TransformSpec `yaml:"transform"`
	Body      *BodySpec     `yaml:"body"`
	Weld      *WeldSpec     `yaml:"weld"`
	Script    string        `yaml:"script"`
}

func LoadObjectSpec(filename string) (ObjectSpec, error) {
	return LoadSpec[ObjectSpec](filename)
}

type TransformSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	// Euler rotation in degrees, applied x, then y, then z.
	RotX float64 `yaml:"rot_x"`
	RotY float64 `yaml:"rot_y"`
	RotZ float64 `yaml:"rot_z"`
}

type BodySpec struct {
	Mass        float64 `yaml:"mass"`
	Kinematic   bool    `yaml:"kinematic"`
	Continuous  bool    `yaml:"continuous_collision"`
	Interpolate bool    `yaml:"interpolate"`
}

type WeldSpec struct {
	// Auto joins the object to its nearest ancestor weld node one
	// simulation step after spawn.
	Auto bool `yaml:"auto"`
	// Requested join type: "hierarchy" or "physics". The coordinator
	// may still escalate to physics.
	Requested string `yaml:"requested"`
}

// TuningSpec is the global weld/drag tuning bundle, hot-reloadable.
type TuningSpec struct {
	BreakForce  float64  `yaml:"break_force"`
	BreakTorque float64  `yaml:"break_torque"`
	Drag        DragSpec `yaml:"drag"`
}

type DragSpec struct {
	StateOnGrab       string    `yaml:"state_on_grab"`
	StateOnRelease    string    `yaml:"state_on_release"`
	ThrowMultiplier   float64   `yaml:"throw_multiplier"`
	MaxThrowSpeed     float64   `yaml:"max_throw_speed"`
	UseGridSnapping   bool      `yaml:"use_grid_snapping"`
	GridSize          []float64 `yaml:"grid_size"`
	SnapOnReleaseOnly bool      `yaml:"snap_on_release_only"`
	SnapRotation      bool      `yaml:"snap_rotation"`
	RotationSnapAngle float64   `yaml:"rotation_snap_angle"`
	PropagateToGroup  bool      `yaml:"propagate_to_group"`
}

func LoadTuningSpec() (TuningSpec, error) {
	return LoadSpec[TuningSpec]("tuning.yaml")
}

// DragConfig converts the drag section into a controller config.
func (t TuningSpec) DragConfig() drag.Config {
	cfg := drag.Config{
		StateChangeOnGrab:    parseStateChange(t.Drag.StateOnGrab),
		StateChangeOnRelease: parseStateChange(t.Drag.StateOnRelease),
		ThrowMultiplier:      t.Drag.ThrowMultiplier,
		MaxThrowSpeed:        t.Drag.MaxThrowSpeed,
		UseGridSnapping:      t.Drag.UseGridSnapping,
		SnapOnReleaseOnly:    t.Drag.SnapOnReleaseOnly,
		SnapRotation:         t.Drag.SnapRotation,
		RotationSnapAngle:    t.Drag.RotationSnapAngle,
		PropagateToGroup:     t.Drag.PropagateToGroup,
	}
	if len(t.Drag.GridSize) == 3 {
		cfg.GridSize = mgl64.Vec3{t.Drag.GridSize[0], t.Drag.GridSize[1], t.Drag.GridSize[2]}
	}
	return cfg
}

func parseStateChange(s string) drag.BodyStateChange {
	switch s {
	case "kinematic":
		return drag.StateKinematic
	case "non-kinematic":
		return drag.StateNonKinematic
	case "restore":
		return drag.StateRestore
	default:
		return drag.StateNoChange
	}
}
