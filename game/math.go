package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// SmallNumber is the squared-length threshold under which a vector has no usable direction.
	SmallNumber = float32(1e-8)
	// KindaSmallNumber is the default tolerance for IsNearlyZero checks on deltas and velocities.
	KindaSmallNumber = float32(1e-4)
)

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// AbsVec32 will return the given vector, but all the values of it are switched to their absolute values.
func AbsVec32(vec mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Abs(vec.X()), math32.Abs(vec.Y()), math32.Abs(vec.Z())}
}

// SafeNormal returns the unit vector of v, or the zero vector if v is too short to have a direction.
func SafeNormal(v mgl32.Vec3) mgl32.Vec3 {
	sq := v.LenSqr()
	if sq == 1 {
		return v
	} else if sq < SmallNumber {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / math32.Sqrt(sq))
}

// IsNearlyZero returns true if every component of v is within tolerance of zero.
func IsNearlyZero(v mgl32.Vec3, tolerance float32) bool {
	return math32.Abs(v[0]) <= tolerance && math32.Abs(v[1]) <= tolerance && math32.Abs(v[2]) <= tolerance
}

// VecEquals compares two vectors component-wise using an absolute tolerance.
func VecEquals(a, b mgl32.Vec3, tolerance float32) bool {
	return math32.Abs(a[0]-b[0]) <= tolerance && math32.Abs(a[1]-b[1]) <= tolerance && math32.Abs(a[2]-b[2]) <= tolerance
}

// PlaneProject removes the component of v along the plane normal n.
func PlaneProject(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// DistSquared returns the squared distance between two points.
func DistSquared(a, b mgl32.Vec3) float32 {
	return b.Sub(a).LenSqr()
}

// Horizontal returns v with its vertical component zeroed.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], 0}
}

// LerpVec linearly blends from a to b by alpha.
func LerpVec(a, b mgl32.Vec3, alpha float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// RoundVec32 will round a 32-bit vector to a given precision.
func RoundVec32(v mgl32.Vec3, p int) mgl32.Vec3 {
	return mgl32.Vec3{Round32(v.X(), p), Round32(v.Y(), p), Round32(v.Z(), p)}
}
