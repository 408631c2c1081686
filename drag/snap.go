package drag

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/common"
)

// SnappedPosition snaps each axis of p to the grid independently. An
// axis with a non-positive grid size passes through unchanged, so a
// grid of (1, 0, 1) snaps x and z and leaves y alone.
func SnappedPosition(p, grid mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		common.SnapTo(p[0], grid[0]),
		common.SnapTo(p[1], grid[1]),
		common.SnapTo(p[2], grid[2]),
	}
}

// SnappedRotation snaps each Euler angle of q to the nearest multiple
// of stepDeg degrees. A non-positive step passes q through unchanged.
func SnappedRotation(q mgl64.Quat, stepDeg float64) mgl64.Quat {
	if stepDeg <= 0 {
		return q
	}
	step := mgl64.DegToRad(stepDeg)
	x, y, z := eulerXYZ(q)
	return quatXYZ(
		common.SnapTo(x, step),
		common.SnapTo(y, step),
		common.SnapTo(z, step),
	)
}

// quatXYZ builds q = Rx(x) * Ry(y) * Rz(z).
func quatXYZ(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

// eulerXYZ decomposes q into angles such that q = Rx(x)*Ry(y)*Rz(z).
func eulerXYZ(q mgl64.Quat) (x, y, z float64) {
	m := q.Normalize().Mat4()
	// column-major: element (row r, col c) is m[c*4+r]
	r00, r01 := m[0], m[4]
	r02 := m[8]
	r12, r22 := m[9], m[10]

	sy := common.Clamp(r02, -1, 1)
	y = math.Asin(sy)
	if math.Abs(sy) < 1-1e-9 {
		x = math.Atan2(-r12, r22)
		z = math.Atan2(-r01, r00)
	} else {
		// gimbal lock: fold everything into x
		m10 := m[1]
		m11 := m[5]
		x = math.Atan2(m10, m11)
		z = 0
	}
	return x, y, z
}
