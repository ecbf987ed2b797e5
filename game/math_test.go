package game

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNormalizeAxis(t *testing.T) {
	cases := map[float32]float32{
		0:    0,
		180:  180,
		-180: 180,
		190:  -170,
		-190: 170,
		540:  180,
		720:  0,
		-45:  -45,
	}
	for in, want := range cases {
		if got := NormalizeAxis(in); !Float32ApproxEq(got, want) {
			t.Fatalf("NormalizeAxis(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRotatorEqualsWrapsDifferences(t *testing.T) {
	a := Rotator{Yaw: 179.9995}
	b := Rotator{Yaw: -179.9999}
	if !a.Equals(b, RotatorTolerance) {
		t.Fatalf("expected %v and %v to be equal across the wrap", a, b)
	}
	if a.Equals(Rotator{Yaw: 170}, RotatorTolerance) {
		t.Fatalf("did not expect rotators 10 degrees apart to be equal")
	}
}

func TestRotateVectorYaw(t *testing.T) {
	r := Rotator{Yaw: 90}
	got := r.RotateVector(mgl32.Vec3{1, 0, 0})
	if !VecEquals(got, mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("forward rotated by 90 yaw = %v, want (0, 1, 0)", got)
	}
	got = r.RotateVector(mgl32.Vec3{0, 1, 0})
	if !VecEquals(got, mgl32.Vec3{-1, 0, 0}, 1e-5) {
		t.Fatalf("right rotated by 90 yaw = %v, want (-1, 0, 0)", got)
	}
}

func TestRotateVectorPitch(t *testing.T) {
	got := Rotator{Pitch: 90}.RotateVector(mgl32.Vec3{1, 0, 0})
	if !VecEquals(got, mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Fatalf("forward pitched up = %v, want (0, 0, 1)", got)
	}
}

func TestLerpRotatorShortestPath(t *testing.T) {
	got := LerpRotator(Rotator{Yaw: 170}, Rotator{Yaw: -170}, 0.5)
	if !got.Equals(Rotator{Yaw: 180}, 1e-3) {
		t.Fatalf("expected halfway between 170 and -170 to be 180, got %v", got)
	}
}

func TestSafeNormal(t *testing.T) {
	if n := SafeNormal(mgl32.Vec3{1e-5, 0, 0}); n != (mgl32.Vec3{}) {
		t.Fatalf("expected tiny vector to normalize to zero, got %v", n)
	}
	n := SafeNormal(mgl32.Vec3{3, 4, 0})
	if math32.Abs(n.Len()-1) > 1e-6 {
		t.Fatalf("expected unit length, got %v", n.Len())
	}
}

func TestPlaneProject(t *testing.T) {
	got := PlaneProject(mgl32.Vec3{3, 2, -5}, mgl32.Vec3{0, 0, 1})
	if got != (mgl32.Vec3{3, 2, 0}) {
		t.Fatalf("unexpected projection %v", got)
	}
}
