package game

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotator is an orientation expressed as pitch, yaw and roll in degrees. Yaw turns around the up (Z) axis,
// pitch around the right (Y) axis and roll around the forward (X) axis.
type Rotator struct {
	Pitch, Yaw, Roll float32
}

// ClampAxis wraps an angle into the range [0, 360).
func ClampAxis(angle float32) float32 {
	angle = math32.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// NormalizeAxis wraps an angle into the range (-180, 180].
func NormalizeAxis(angle float32) float32 {
	angle = ClampAxis(angle)
	if angle > 180 {
		angle -= 360
	}
	return angle
}

// Normalized returns the rotator with every axis wrapped into (-180, 180].
func (r Rotator) Normalized() Rotator {
	return Rotator{Pitch: NormalizeAxis(r.Pitch), Yaw: NormalizeAxis(r.Yaw), Roll: NormalizeAxis(r.Roll)}
}

// Add returns the axis-wise sum of two rotators.
func (r Rotator) Add(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch + o.Pitch, Yaw: r.Yaw + o.Yaw, Roll: r.Roll + o.Roll}
}

// Sub returns the axis-wise difference of two rotators.
func (r Rotator) Sub(o Rotator) Rotator {
	return Rotator{Pitch: r.Pitch - o.Pitch, Yaw: r.Yaw - o.Yaw, Roll: r.Roll - o.Roll}
}

// Scale multiplies every axis by s.
func (r Rotator) Scale(s float32) Rotator {
	return Rotator{Pitch: r.Pitch * s, Yaw: r.Yaw * s, Roll: r.Roll * s}
}

// Equals returns true if every axis of r and o differs by at most tolerance, after wrapping the differences.
// Rotators that describe the same orientation through a full turn are therefore equal.
func (r Rotator) Equals(o Rotator, tolerance float32) bool {
	return math32.Abs(NormalizeAxis(r.Pitch-o.Pitch)) <= tolerance &&
		math32.Abs(NormalizeAxis(r.Yaw-o.Yaw)) <= tolerance &&
		math32.Abs(NormalizeAxis(r.Roll-o.Roll)) <= tolerance
}

// RotateVector transforms v from the rotator's local space into world space.
func (r Rotator) RotateVector(v mgl32.Vec3) mgl32.Vec3 {
	sp, cp := math32.Sincos(mgl32.DegToRad(r.Pitch))
	sy, cy := math32.Sincos(mgl32.DegToRad(r.Yaw))
	sr, cr := math32.Sincos(mgl32.DegToRad(r.Roll))

	forward := mgl32.Vec3{cp * cy, cp * sy, sp}
	right := mgl32.Vec3{sr*sp*cy - cr*sy, sr*sp*sy + cr*cy, -sr * cp}
	up := mgl32.Vec3{-(cr*sp*cy + sr*sy), cy*sr - cr*sp*sy, cr * cp}
	return forward.Mul(v[0]).Add(right.Mul(v[1])).Add(up.Mul(v[2]))
}

// LerpRotator blends from a to b by alpha, taking the shortest way around on every axis.
func LerpRotator(a, b Rotator, alpha float32) Rotator {
	return a.Add(b.Sub(a).Normalized().Scale(alpha)).Normalized()
}

func (r Rotator) String() string {
	return fmt.Sprintf("P=%.3f Y=%.3f R=%.3f", r.Pitch, r.Yaw, r.Roll)
}
