package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLerp(t *testing.T) {
	cases := []struct {
		a, b, t, want float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.5, 5},
		{-5, 5, 0.25, -2.5},
	}
	for _, c := range cases {
		if got := Lerp(c.a, c.b, c.t); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Lerp(%v, %v, %v) = %v, want %v", c.a, c.b, c.t, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestClampMagnitude(t *testing.T) {
	v := mgl64.Vec3{3, 4, 0} // length 5

	got := ClampMagnitude(v, 10)
	if got != v {
		t.Fatalf("under the cap should pass through, got %v", got)
	}

	got = ClampMagnitude(v, 1)
	if math.Abs(got.Len()-1) > 1e-9 {
		t.Fatalf("clamped length = %v, want 1", got.Len())
	}
	if got.Normalize().Sub(v.Normalize()).Len() > 1e-9 {
		t.Fatalf("clamping changed the direction: %v", got)
	}

	if got := ClampMagnitude(v, 0); got != (mgl64.Vec3{}) {
		t.Fatalf("non-positive cap should zero the vector, got %v", got)
	}
	if got := ClampMagnitude(mgl64.Vec3{}, 1); got != (mgl64.Vec3{}) {
		t.Fatalf("zero vector should stay zero, got %v", got)
	}
}

func TestSnapTo(t *testing.T) {
	cases := []struct {
		v, step, want float64
	}{
		{1.4, 1, 1},
		{1.5, 1, 2},
		{-1.4, 1, -1},
		{0.7, 0.5, 0.5},
		{3.3, 0, 3.3},
		{3.3, -2, 3.3},
	}
	for _, c := range cases {
		if got := SnapTo(c.v, c.step); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("SnapTo(%v, %v) = %v, want %v", c.v, c.step, got, c.want)
		}
	}
}
