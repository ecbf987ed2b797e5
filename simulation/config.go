package simulation

import (
	"fmt"

	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/oerror"
)

// Mode is the movement mode of the character for a tick.
type Mode uint8

const (
	ModeWalking Mode = iota
	ModeFalling
	ModeFlying
)

func (m Mode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeFlying:
		return "flying"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// FrictionStyle selects the friction model.
type FrictionStyle uint8

const (
	// FrictionSource bleeds speed while walking and flying only. Slow velocities are stopped outright.
	FrictionSource FrictionStyle = iota
	// FrictionQuake ignores vertical velocity while walking and stops horizontal velocities under one unit.
	FrictionQuake
)

// ParseFrictionStyle resolves a friction style by name.
func ParseFrictionStyle(name string) (FrictionStyle, error) {
	switch name {
	case "", "source":
		return FrictionSource, nil
	case "quake":
		return FrictionQuake, nil
	}
	return 0, oerror.New("unknown friction style %q", name)
}

// Config holds the movement constants a simulation runs with. Client and server must use identical configs
// for their predictions to agree.
type Config struct {
	MovementSpeed      float32
	Gravity            float32
	StopSpeed          float32
	Acceleration       float32
	AirAcceleration    float32
	FlightAcceleration float32
	Friction           float32
	FlightFriction     float32
	JumpSpeed          float32

	MinFrictionSpeed    float32
	MinWalkSpeed        float32
	GroundProbeDistance float32

	FrictionStyle FrictionStyle
	// Flight makes the character fly every tick instead of walking or falling.
	Flight bool
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		MovementSpeed:       game.MovementSpeed,
		Gravity:             game.Gravity,
		StopSpeed:           game.StopSpeed,
		Acceleration:        game.Acceleration,
		AirAcceleration:     game.AirAcceleration,
		FlightAcceleration:  game.FlightAcceleration,
		Friction:            game.Friction,
		FlightFriction:      game.FlightFriction,
		JumpSpeed:           game.JumpSpeed,
		MinFrictionSpeed:    game.MinFrictionSpeed,
		MinWalkSpeed:        game.MinWalkSpeed,
		GroundProbeDistance: game.GroundProbeDistance,
	}
}
