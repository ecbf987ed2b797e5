package simulation

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/zeebo/xxh3"
)

// Serializable is implemented by every type that travels between client and server. NetSerialize is
// symmetric: the same method reads or writes depending on the protocol.IO it is given.
type Serializable interface {
	NetSerialize(io protocol.IO)
	String() string
}

// State is implemented by the state types that the prediction framework stores, blends and compares.
type State[T any] interface {
	Serializable
	// Interpolate sets the receiver to the blend of from and to at pct, with pct in [0, 1].
	Interpolate(from, to T, pct float32)
	// ShouldReconcile returns true if the receiver, a predicted state, diverged from authority.
	ShouldReconcile(authority T, tolerance float32) bool
}

var (
	_ Serializable     = (*InputCmd)(nil)
	_ State[SyncState] = (*SyncState)(nil)
	_ State[AuxState]  = (*AuxState)(nil)
)

// InputCmd is the input a player produced for one simulation frame. It is immutable once produced.
type InputCmd struct {
	// YawInput is the requested turn rate in degrees per second.
	YawInput float32
	// MovementInput is the requested movement in the local space of the character. Every axis is in [-1, 1].
	MovementInput mgl32.Vec3
	JumpPressed   bool
}

// NetSerialize ...
func (c *InputCmd) NetSerialize(io protocol.IO) {
	io.Float32(&c.YawInput)
	io.Vec3(&c.MovementInput)
	io.Bool(&c.JumpPressed)
}

func (c *InputCmd) String() string {
	return fmt.Sprintf("YawInput: %.2f MovementInput: X=%.2f Y=%.2f Z=%.2f JumpPressed: %v",
		c.YawInput, c.MovementInput[0], c.MovementInput[1], c.MovementInput[2], c.JumpPressed)
}

// SyncState is the state evolved from frame to frame and kept in sync between client and server.
type SyncState struct {
	Location mgl32.Vec3
	Velocity mgl32.Vec3
	Rotation game.Rotator
}

// NetSerialize ...
func (s *SyncState) NetSerialize(io protocol.IO) {
	io.Vec3(&s.Location)
	io.Vec3(&s.Velocity)
	io.Float32(&s.Rotation.Pitch)
	io.Float32(&s.Rotation.Yaw)
	io.Float32(&s.Rotation.Roll)
}

// Interpolate blends location, velocity and rotation, unless the locations are so far apart that the move
// must have been a teleport, in which case the receiver snaps to to.
func (s *SyncState) Interpolate(from, to SyncState, pct float32) {
	if game.DistSquared(from.Location, to.Location) > game.TeleportDistanceSquared {
		*s = to
		return
	}
	s.Location = game.LerpVec(from.Location, to.Location, pct)
	s.Velocity = game.LerpVec(from.Velocity, to.Velocity, pct)
	s.Rotation = game.LerpRotator(from.Rotation, to.Rotation, pct)
}

// ShouldReconcile only compares location. Velocity and rotation differences are corrected along with it.
func (s *SyncState) ShouldReconcile(authority SyncState, tolerance float32) bool {
	return !game.VecEquals(s.Location, authority.Location, tolerance)
}

// Checksum hashes the wire form of the state. Two states with the same checksum are bit-identical.
func (s *SyncState) Checksum() uint64 {
	buf := &bytes.Buffer{}
	cp := *s
	cp.NetSerialize(protocol.NewWriter(buf, 0))
	return xxh3.Hash(buf.Bytes())
}

func (s *SyncState) String() string {
	return fmt.Sprintf("Loc: X=%.2f Y=%.2f Z=%.2f Vel: X=%.2f Y=%.2f Z=%.2f Rot: %v",
		s.Location[0], s.Location[1], s.Location[2], s.Velocity[0], s.Velocity[1], s.Velocity[2], s.Rotation)
}

// AuxState holds state that changes rarely. Movement has none yet, but it is a full member of the state
// family so the framework can treat it like the others.
type AuxState struct{}

// NetSerialize ...
func (*AuxState) NetSerialize(protocol.IO) {}

// Interpolate ...
func (*AuxState) Interpolate(AuxState, AuxState, float32) {}

// ShouldReconcile always returns false.
func (*AuxState) ShouldReconcile(AuxState, float32) bool {
	return false
}

func (*AuxState) String() string {
	return "Aux: {}"
}
