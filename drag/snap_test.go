package drag

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSnappedPosition(t *testing.T) {
	cases := []struct {
		name string
		p    mgl64.Vec3
		grid mgl64.Vec3
		want mgl64.Vec3
	}{
		{"full_grid", mgl64.Vec3{1.4, 0.6, -2.3}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, -2}},
		{"floor_plan_grid_leaves_height", mgl64.Vec3{1.4, 0.6, 2.6}, mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1, 0.6, 3}},
		{"half_step", mgl64.Vec3{0.7, 0.7, 0.7}, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0.5, 0.5, 0.5}},
		{"zero_grid_passthrough", mgl64.Vec3{1.4, 0.6, 2.6}, mgl64.Vec3{}, mgl64.Vec3{1.4, 0.6, 2.6}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SnappedPosition(c.p, c.grid)
			if got.Sub(c.want).Len() > 1e-9 {
				t.Fatalf("SnappedPosition(%v, %v) = %v, want %v", c.p, c.grid, got, c.want)
			}
		})
	}
}

func quatsClose(a, b mgl64.Quat) bool {
	return math.Abs(math.Abs(a.Dot(b))-1) < 1e-9
}

func TestSnappedRotationSingleAxis(t *testing.T) {
	cases := []struct {
		name  string
		angle float64 // degrees about Y
		step  float64
		want  float64
	}{
		{"rounds_down", 47, 45, 45},
		{"rounds_up", 69, 45, 90},
		{"exact_multiple", 90, 45, 90},
		{"identity", 0, 45, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := mgl64.QuatRotate(mgl64.DegToRad(c.angle), mgl64.Vec3{0, 1, 0})
			want := mgl64.QuatRotate(mgl64.DegToRad(c.want), mgl64.Vec3{0, 1, 0})
			got := SnappedRotation(q, c.step)
			if !quatsClose(got, want) {
				t.Fatalf("SnappedRotation(%v deg, step %v) = %v, want %v deg", c.angle, c.step, got, c.want)
			}
		})
	}
}

func TestSnappedRotationZeroStepPassthrough(t *testing.T) {
	q := mgl64.QuatRotate(0.3, mgl64.Vec3{1, 0, 0})
	if got := SnappedRotation(q, 0); got != q {
		t.Fatalf("zero step should pass the rotation through unchanged")
	}
}

func TestEulerRoundTrip(t *testing.T) {
	angles := [][3]float64{
		{0.2, 0.4, -0.7},
		{-1.1, 0.3, 0.9},
		{0, 1.2, 0},
	}
	for _, a := range angles {
		q := quatXYZ(a[0], a[1], a[2])
		x, y, z := eulerXYZ(q)
		back := quatXYZ(x, y, z)
		if !quatsClose(q, back) {
			t.Fatalf("euler round trip for %v drifted: %v -> %v", a, q, back)
		}
	}
}
