package settings

import (
	"os"
	"time"

	"github.com/mesa-game/mesa/component"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/mover"
	"github.com/mesa-game/mesa/netclock"
	"github.com/mesa-game/mesa/oerror"
	"github.com/mesa-game/mesa/simulation"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// Settings contains everything that can be configured in the settings file.
type Settings struct {
	Movement struct {
		MovementSpeed      float32
		Gravity            float32
		StopSpeed          float32
		Acceleration       float32
		AirAcceleration    float32
		FlightAcceleration float32
		Friction           float32
		FlightFriction     float32
		JumpSpeed          float32
		MinFrictionSpeed   float32
		MinWalkSpeed       float32
		// FrictionStyle is either "source" or "quake".
		FrictionStyle string
		Flight        bool
	}
	Collision struct {
		PullbackDistance            float32
		OverlapInflation            float32
		NeverIgnoreBlockingOverlaps bool
	}
	Reconcile struct {
		ErrorTolerance float32
	}
	Driver struct {
		MaxSpeed          float32
		LocationTolerance float32
		RotationTolerance float32
		HistorySize       int
		LookRateYaw       float32
	}
	NetClock struct {
		Address string
		// ResyncPeriodMS is the interval between time requests in milliseconds. Zero disables resyncing.
		ResyncPeriodMS int64
		SampleSize     int
	}
	Log struct {
		// Level is a logrus level name.
		Level string
		// DebugModes lists the debug modes to enable, see debug.ParseMode.
		DebugModes []string
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}

	cfg := simulation.DefaultConfig()
	s.Movement.MovementSpeed = cfg.MovementSpeed
	s.Movement.Gravity = cfg.Gravity
	s.Movement.StopSpeed = cfg.StopSpeed
	s.Movement.Acceleration = cfg.Acceleration
	s.Movement.AirAcceleration = cfg.AirAcceleration
	s.Movement.FlightAcceleration = cfg.FlightAcceleration
	s.Movement.Friction = cfg.Friction
	s.Movement.FlightFriction = cfg.FlightFriction
	s.Movement.JumpSpeed = cfg.JumpSpeed
	s.Movement.MinFrictionSpeed = cfg.MinFrictionSpeed
	s.Movement.MinWalkSpeed = cfg.MinWalkSpeed
	s.Movement.FrictionStyle = "source"

	s.Collision.PullbackDistance = game.PenetrationPullbackDistance
	s.Collision.OverlapInflation = game.PenetrationOverlapCheckInflation

	s.Reconcile.ErrorTolerance = game.ErrorTolerance

	s.Driver.MaxSpeed = game.DefaultMaxSpeed
	s.Driver.LocationTolerance = game.LocationTolerance
	s.Driver.RotationTolerance = game.RotatorTolerance
	s.Driver.HistorySize = 128
	s.Driver.LookRateYaw = game.LookRateYaw

	s.NetClock.Address = "127.0.0.1:19140"
	s.NetClock.ResyncPeriodMS = 1000
	s.NetClock.SampleSize = 10

	s.Log.Level = "info"
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return oerror.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return oerror.New("failed encoding default settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return oerror.New("failed creating settings file: %v", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, oerror.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, oerror.New("error reading config: %v", err)
	}

	var s Settings
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, oerror.New("error decoding config: %v", err)
	}
	return s, nil
}

// SimulationConfig returns the movement constants configured.
func (s Settings) SimulationConfig() (simulation.Config, error) {
	style, err := simulation.ParseFrictionStyle(s.Movement.FrictionStyle)
	if err != nil {
		return simulation.Config{}, err
	}

	cfg := simulation.DefaultConfig()
	cfg.MovementSpeed = s.Movement.MovementSpeed
	cfg.Gravity = s.Movement.Gravity
	cfg.StopSpeed = s.Movement.StopSpeed
	cfg.Acceleration = s.Movement.Acceleration
	cfg.AirAcceleration = s.Movement.AirAcceleration
	cfg.FlightAcceleration = s.Movement.FlightAcceleration
	cfg.Friction = s.Movement.Friction
	cfg.FlightFriction = s.Movement.FlightFriction
	cfg.JumpSpeed = s.Movement.JumpSpeed
	cfg.MinFrictionSpeed = s.Movement.MinFrictionSpeed
	cfg.MinWalkSpeed = s.Movement.MinWalkSpeed
	cfg.FrictionStyle = style
	cfg.Flight = s.Movement.Flight
	return cfg, nil
}

// MoverOptions returns the collision tunables configured.
func (s Settings) MoverOptions() mover.Options {
	opts := mover.Options{
		PullbackDistance: s.Collision.PullbackDistance,
		OverlapInflation: s.Collision.OverlapInflation,
	}
	if s.Collision.NeverIgnoreBlockingOverlaps {
		opts.Flags |= mover.FlagNeverIgnoreBlockingOverlaps
	}
	return opts
}

// ComponentOptions returns the options of a movement component and everything it owns.
func (s Settings) ComponentOptions() (component.Options, error) {
	cfg, err := s.SimulationConfig()
	if err != nil {
		return component.Options{}, err
	}
	if s.Driver.HistorySize <= 0 {
		return component.Options{}, oerror.New("driver history size must be positive, got %d", s.Driver.HistorySize)
	}
	return component.Options{
		MaxSpeed:          s.Driver.MaxSpeed,
		LocationTolerance: s.Driver.LocationTolerance,
		RotationTolerance: s.Driver.RotationTolerance,
		HistorySize:       s.Driver.HistorySize,
		LookRateYaw:       s.Driver.LookRateYaw,
		Mover:             s.MoverOptions(),
		Simulation:        cfg,
		Reconciler:        simulation.Reconciler{ErrorTolerance: s.Reconcile.ErrorTolerance},
	}, nil
}

// ClockOptions returns the options of a network clock.
func (s Settings) ClockOptions() netclock.Options {
	return netclock.Options{
		ResyncPeriod: time.Duration(s.NetClock.ResyncPeriodMS) * time.Millisecond,
		SampleSize:   s.NetClock.SampleSize,
	}
}

// Logger creates a logger writing at the configured level.
func (s Settings) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, oerror.New("invalid log level %q: %v", s.Log.Level, err)
	}
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = level
	return log, nil
}

// Debugger creates a debugger logging to log with the configured modes enabled.
func (s Settings) Debugger(log *logrus.Logger) (*debug.Debugger, error) {
	modes := make([]debug.Mode, 0, len(s.Log.DebugModes))
	for _, name := range s.Log.DebugModes {
		m, ok := debug.ParseMode(name)
		if !ok {
			return nil, oerror.New("unknown debug mode %q", name)
		}
		modes = append(modes, m)
	}
	return debug.NewDebugger(log, modes...), nil
}
