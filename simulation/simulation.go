package simulation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/assert"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/mover"
	"github.com/mesa-game/mesa/world"
)

// MispredictVelocity is added to the output velocity of a tick when a mispredict is forced.
var MispredictVelocity = mgl32.Vec3{2000, 0, 0}

// TimeStep describes the frame being simulated.
type TimeStep struct {
	// StepMS is the length of the frame in milliseconds.
	StepMS int32
	// TotalSimulationTime is the simulation time, in milliseconds, at the start of the frame.
	TotalSimulationTime int64
	Frame               int32
}

// DebugInput carries per-tick debugging requests. It is never sent over the network.
type DebugInput struct {
	// ForceMispredict adds MispredictVelocity to the output of this tick only.
	ForceMispredict bool
}

// Input is everything a tick reads.
type Input struct {
	Cmd   InputCmd
	Sync  SyncState
	Aux   AuxState
	Debug DebugInput
}

// Output is everything a tick produces.
type Output struct {
	Sync SyncState
	Aux  AuxState
}

// Simulation is the deterministic movement state transition. Given the same input, time step and world it
// always produces the same output. A Simulation may only be ticked from one goroutine at a time.
type Simulation struct {
	mover *mover.Mover
	cfg   Config
	dbg   *debug.Debugger

	// The following fields are only valid during a tick.
	velocity      mgl32.Vec3
	rotation      game.Rotator
	movementInput mgl32.Vec3
	pendingJump   bool
	mode          Mode
	groundTrace   world.HitResult
}

// New creates a simulation moving the updated component of m. dbg may be nil.
func New(m *mover.Mover, cfg Config, dbg *debug.Debugger) *Simulation {
	return &Simulation{mover: m, cfg: cfg, dbg: dbg}
}

// Mover returns the mover the simulation moves its component with.
func (s *Simulation) Mover() *mover.Mover {
	return s.mover
}

// Config returns the movement constants of the simulation.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Mode returns the movement mode used by the most recent tick.
func (s *Simulation) Mode() Mode {
	return s.mode
}

// GroundTrace returns the ground probe of the most recent tick.
func (s *Simulation) GroundTrace() world.HitResult {
	return s.groundTrace
}

// Tick advances in by one time step. The updated component is moved through the world as a side effect, and
// the returned location is read back from it. The returned velocity is the velocity the character wanted,
// not what collision allowed.
func (s *Simulation) Tick(step TimeStep, in Input) Output {
	assert.IsTrue(s.mover != nil && s.mover.UpdatedComponent() != nil, "movement simulation ticked without an updated component")

	out := Output{Sync: in.Sync, Aux: in.Aux}
	dt := float32(step.StepMS) / 1000

	// Rotation is updated here rather than by the caller so corrections treat it exactly like location. It
	// cannot fail.
	out.Sync.Rotation.Yaw += in.Cmd.YawInput * dt
	out.Sync.Rotation = out.Sync.Rotation.Normalized()

	s.velocity = in.Sync.Velocity
	s.rotation = in.Sync.Rotation
	s.movementInput = in.Cmd.MovementInput
	s.pendingJump = in.Cmd.JumpPressed

	s.TraceForGround()
	switch s.mode {
	case ModeWalking:
		s.WalkMove(dt)
	case ModeFalling:
		s.AirMove(dt)
	case ModeFlying:
		s.FlyMove(dt)
	}

	out.Sync.Velocity = s.velocity
	if in.Debug.ForceMispredict {
		out.Sync.Velocity = out.Sync.Velocity.Add(MispredictVelocity)
		s.dbg.Notify(debug.ModeMovementSim, true, "frame %d: forcing mispredict", step.Frame)
	}

	delta := out.Sync.Velocity.Mul(dt)
	if !game.IsNearlyZero(delta, 1e-6) {
		_, hit := s.mover.SafeMove(delta, out.Sync.Rotation, true)
		if hit.IsValidBlockingHit() {
			s.SlideAlongSurface(delta, 1-hit.Time, out.Sync.Rotation, hit.Normal, hit)
		}
	}
	out.Sync.Location = s.mover.UpdatedComponent().Location()

	s.dbg.Notify(debug.ModeMovementSim, true, "frame %d (%dms): mode=%v %v", step.Frame, step.StepMS, s.mode, &out.Sync)
	return out
}
