package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampMagnitude shortens v to max length while preserving direction.
func ClampMagnitude(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if max <= 0 {
		return mgl64.Vec3{}
	}
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// SnapTo rounds v to the nearest multiple of step. A non-positive step
// leaves v unchanged.
func SnapTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
