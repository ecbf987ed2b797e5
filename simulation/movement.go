package simulation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/world"
)

// TraceForGround probes straight down from the base of the updated component and picks the movement mode
// for the tick from the result.
func (s *Simulation) TraceForGround() {
	if s.cfg.Flight {
		s.groundTrace = world.HitResult{}
		s.mode = ModeFlying
		return
	}

	p := s.mover.UpdatedComponent()
	base := p.Location()
	base[2] -= p.HalfHeight()
	s.groundTrace = s.mover.World().LineTrace(base, base.Sub(mgl32.Vec3{0, 0, s.cfg.GroundProbeDistance}))
	if s.groundTrace.Blocking {
		s.mode = ModeWalking
	} else {
		s.mode = ModeFalling
	}
}

// WalkMove accelerates along the ground. A pending jump turns the tick into a falling one instead.
func (s *Simulation) WalkMove(dt float32) {
	if s.CheckJump() {
		s.AirMove(dt)
		return
	}

	s.ApplyFriction(dt)

	wishDir := game.SafeNormal(game.Horizontal(s.rotation.RotateVector(s.movementInput)))
	var wishSpeed float32
	if wishDir != (mgl32.Vec3{}) {
		wishSpeed = s.cfg.MovementSpeed
	}

	s.velocity[2] = 0
	s.Accelerate(dt, wishDir, wishSpeed, s.cfg.Acceleration)
	s.velocity[2] = 0

	if s.velocity.Len() < s.cfg.MinWalkSpeed {
		s.velocity = mgl32.Vec3{}
	}
}

// AirMove steers horizontally with air acceleration and applies gravity.
func (s *Simulation) AirMove(dt float32) {
	s.ApplyFriction(dt)

	wishDir := game.SafeNormal(game.Horizontal(game.SafeNormal(s.rotation.RotateVector(s.movementInput))))
	var wishSpeed float32
	if wishDir != (mgl32.Vec3{}) {
		wishSpeed = s.cfg.MovementSpeed
	}
	s.Accelerate(dt, wishDir, wishSpeed, s.cfg.AirAcceleration)

	s.velocity[2] -= s.cfg.Gravity * dt
}

// FlyMove accelerates in all three dimensions, without gravity.
func (s *Simulation) FlyMove(dt float32) {
	s.ApplyFriction(dt)
	s.Accelerate(dt, game.SafeNormal(s.rotation.RotateVector(s.movementInput)), s.cfg.MovementSpeed, s.cfg.FlightAcceleration)
}

// CheckJump consumes a pending jump, switching to falling with the jump speed as vertical velocity.
func (s *Simulation) CheckJump() bool {
	if !s.pendingJump {
		return false
	}
	s.groundTrace = world.HitResult{}
	s.mode = ModeFalling
	s.velocity[2] = s.cfg.JumpSpeed
	return true
}

// Accelerate adds speed along wishDir until the velocity projected on it reaches wishSpeed. Speed in other
// directions is left alone, which is what allows strafing to gain speed.
func (s *Simulation) Accelerate(dt float32, wishDir mgl32.Vec3, wishSpeed, accel float32) {
	currentSpeed := s.velocity.Dot(wishDir)
	addSpeed := wishSpeed - currentSpeed
	if addSpeed <= 0 {
		return
	}
	accelSpeed := min(accel*dt*wishSpeed, addSpeed)
	s.velocity = s.velocity.Add(wishDir.Mul(accelSpeed))
}

// ApplyFriction bleeds speed according to the configured friction style and the current mode.
func (s *Simulation) ApplyFriction(dt float32) {
	if s.cfg.FrictionStyle == FrictionQuake {
		s.applyQuakeFriction(dt)
		return
	}
	if s.mode == ModeFalling {
		return
	}

	speed := s.velocity.Len()
	if speed < s.cfg.MinFrictionSpeed {
		s.velocity = mgl32.Vec3{}
		return
	}

	var drop float32
	switch s.mode {
	case ModeWalking:
		// Below the stop speed, bleed as if moving at the stop speed so the character comes to a halt.
		control := max(speed, s.cfg.StopSpeed)
		drop = control * s.cfg.Friction * dt
	case ModeFlying:
		drop = speed * s.cfg.FlightFriction * dt
	}

	newSpeed := max(speed-drop, 0)
	if newSpeed != speed {
		s.velocity = s.velocity.Mul(newSpeed / speed)
	}
}

func (s *Simulation) applyQuakeFriction(dt float32) {
	if s.mode == ModeWalking {
		s.velocity[2] = 0
	}

	speed := s.velocity.Len()
	if speed < 1 {
		s.velocity = mgl32.Vec3{0, 0, s.velocity[2]}
		return
	}

	var drop float32
	switch s.mode {
	case ModeWalking:
		drop = max(speed, s.cfg.StopSpeed) * s.cfg.Friction * dt
	case ModeFlying:
		drop = speed * s.cfg.FlightFriction * dt
	}
	s.velocity = s.velocity.Mul(max(speed-drop, 0) / speed)
}
