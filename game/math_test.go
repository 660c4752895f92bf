package game

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSlope(t *testing.T) {
	if s := Slope(mgl32.Vec3{0, 1, 0}); !ApproxEq(s, 0) {
		t.Errorf("flat surface slope = %v, want 0", s)
	}
	if s := Slope(mgl32.Vec3{1, 0, 0}); math32.Abs(s-90) > 1e-3 {
		t.Errorf("wall slope = %v, want 90", s)
	}
	diag := mgl32.Vec3{1, 1, 0}.Normalize()
	if s := Slope(diag); math32.Abs(s-45) > 1e-3 {
		t.Errorf("45 degree surface slope = %v, want 45", s)
	}
}

func TestReflectSlide(t *testing.T) {
	normal := mgl32.Vec3{1, 0, 0}
	vel := mgl32.Vec3{-3, 0, 4}

	r := Reflect(vel, normal)
	if !r.ApproxEqual(mgl32.Vec3{3, 0, 4}) {
		t.Errorf("reflect = %v", r)
	}

	// Sliding a reflected vector along the plane must drop the normal
	// component entirely while keeping the tangent part.
	s := Slide(r, normal)
	if !ApproxEq(s.Dot(normal), 0) {
		t.Errorf("slide retains normal component: %v", s)
	}
	if !ApproxEq(s.Z(), 4) {
		t.Errorf("slide lost tangent component: %v", s)
	}
}

func TestRotateYaw(t *testing.T) {
	forward := mgl32.Vec3{0, 0, 1}
	rotated := RotateYaw(forward, mgl32.DegToRad(90))
	if !rotated.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("yaw 90 = %v, want +X", rotated)
	}

	down := RotatePitchYaw(forward, mgl32.DegToRad(-90), 0)
	if !down.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("pitch -90 = %v, want +Y", down)
	}
}

func TestAngleBetween(t *testing.T) {
	a := mgl32.Vec3{1, 0, 0}
	if d := AngleBetween(a, mgl32.Vec3{-2, 0, 0}); math32.Abs(d-180) > 1e-3 {
		t.Errorf("opposed vectors = %v, want 180", d)
	}
	if d := AngleBetween(a, mgl32.Vec3{}); d != 0 {
		t.Errorf("zero vector = %v, want 0", d)
	}
}
