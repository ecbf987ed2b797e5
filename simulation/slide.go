package simulation

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/world"
)

// SlideAlongSurface spends the remaining time of a blocked move sliding along the surface that blocked it,
// adjusting once more if the slide runs into a second surface. It never moves more than twice and returns
// the fraction of time, in [0, 1], actually applied.
func (s *Simulation) SlideAlongSurface(delta mgl32.Vec3, time float32, rot game.Rotator, normal mgl32.Vec3, hit world.HitResult) float32 {
	if !hit.Blocking {
		return 0
	}

	oldNormal := normal
	slideDelta := ComputeSlideVector(delta, time, normal, hit)
	if slideDelta.Dot(delta) <= 0 {
		return 0
	}

	_, hit = s.mover.SafeMove(slideDelta, rot, true)
	firstHitPercent := hit.Time
	applied := firstHitPercent
	if hit.IsValidBlockingHit() {
		slideDelta = TwoWallAdjust(slideDelta, hit, oldNormal)

		// Only proceed if the new direction is significant and does not reverse the original move.
		if !game.IsNearlyZero(slideDelta, 1e-3) && slideDelta.Dot(delta) > 0 {
			_, hit = s.mover.SafeMove(slideDelta, rot, true)
			applied += hit.Time * (1 - firstHitPercent)
		}
	}
	return mgl32.Clamp(applied, 0, 1)
}

// ComputeSlideVector redirects delta along the plane of normal while keeping its full length, scaled by
// time. Keeping the length rather than projecting it is what lets characters surf along angled walls.
func ComputeSlideVector(delta mgl32.Vec3, time float32, normal mgl32.Vec3, _ world.HitResult) mgl32.Vec3 {
	return game.SafeNormal(game.PlaneProject(delta, normal)).Mul(delta.Len() * time)
}

// TwoWallAdjust computes a new slide delta after a slide along oldNormal hit a second surface.
func TwoWallAdjust(delta mgl32.Vec3, hit world.HitResult, oldNormal mgl32.Vec3) mgl32.Vec3 {
	desired := delta
	hitNormal := hit.Normal

	if oldNormal.Dot(hitNormal) <= 0 {
		// A corner of 90 degrees or tighter: move along the crease the two surfaces form.
		dir := game.SafeNormal(hitNormal.Cross(oldNormal))
		delta = dir.Mul(delta.Dot(dir) * (1 - hit.Time))
		if desired.Dot(delta) < 0 {
			delta = delta.Mul(-1)
		}
		return delta
	}

	delta = ComputeSlideVector(delta, 1-hit.Time, hitNormal, hit)
	if delta.Dot(desired) <= 0 {
		return mgl32.Vec3{}
	}
	if math32.Abs(hitNormal.Dot(oldNormal)-1) < game.KindaSmallNumber {
		// The same wall again, most likely from precision issues. Nudge away from it.
		delta = delta.Add(hitNormal.Mul(0.01))
	}
	return delta
}

// IsExceedingMaxSpeed returns true if velocity is faster than maxSpeed, allowing 1% for numeric imprecision.
func IsExceedingMaxSpeed(velocity mgl32.Vec3, maxSpeed float32) bool {
	maxSpeed = max(0, maxSpeed)
	return velocity.LenSqr() > maxSpeed*maxSpeed*1.01
}
