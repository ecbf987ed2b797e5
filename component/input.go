package component

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/simulation"
)

// InputProducer accumulates player input between frames and turns it into input commands. Input events may
// arrive from any goroutine.
type InputProducer struct {
	mu sync.Mutex
	// pendingMove is the movement input added since the last command, in the local space of the character.
	pendingMove mgl32.Vec3
	// lastLook is the most recent look input. X turns the character.
	lastLook mgl32.Vec2
	// jumpPressed stays set from Jump until StopJump.
	jumpPressed bool
	// lookRateYaw converts a full look input into degrees per second of yaw.
	lookRateYaw float32
}

// NewInputProducer creates an input producer turning at lookRateYaw degrees per second for a full look input.
func NewInputProducer(lookRateYaw float32) *InputProducer {
	return &InputProducer{lookRateYaw: lookRateYaw}
}

// Move adds a strafe (right) and forward input, each clamped to [-1, 1].
func (p *InputProducer) Move(strafe, forward float32) {
	p.AddMovementInput(mgl32.Vec3{0, 1, 0}, mgl32.Clamp(strafe, -1, 1))
	p.AddMovementInput(mgl32.Vec3{1, 0, 0}, mgl32.Clamp(forward, -1, 1))
}

// AddMovementInput adds dir scaled by scale to the pending movement input.
func (p *InputProducer) AddMovementInput(dir mgl32.Vec3, scale float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingMove = p.pendingMove.Add(dir.Mul(scale))
}

// Look sets the look input used by the next command.
func (p *InputProducer) Look(x, y float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastLook = mgl32.Vec2{x, y}
}

// Jump presses jump. It stays pressed until StopJump is called.
func (p *InputProducer) Jump() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jumpPressed = true
}

// StopJump releases jump.
func (p *InputProducer) StopJump() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jumpPressed = false
}

// Produce writes the pending input into cmd and consumes it. It has the signature of a ProduceInputFunc.
func (p *InputProducer) Produce(_ int32, cmd *simulation.InputCmd) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cmd.YawInput = p.lastLook.X() * p.lookRateYaw
	cmd.MovementInput = mgl32.Vec3{
		mgl32.Clamp(p.pendingMove[0], -1, 1),
		mgl32.Clamp(p.pendingMove[1], -1, 1),
		mgl32.Clamp(p.pendingMove[2], -1, 1),
	}
	cmd.JumpPressed = p.jumpPressed

	p.pendingMove = mgl32.Vec3{}
	p.lastLook = mgl32.Vec2{}
}
