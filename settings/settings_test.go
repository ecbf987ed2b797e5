package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesa-game/mesa/component"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/mover"
	"github.com/mesa-game/mesa/simulation"
	"github.com/sirupsen/logrus"
)

func TestDefaultSettingsMatchDefaults(t *testing.T) {
	s := DefaultSettings()
	opts, err := s.ComponentOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != component.DefaultOptions() {
		t.Fatalf("default settings produce %+v, expected %+v", opts, component.DefaultOptions())
	}
	if clock := s.ClockOptions(); clock.ResyncPeriod != time.Second || clock.SampleSize != 10 {
		t.Fatalf("unexpected clock options %+v", clock)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesa.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("unable to save settings: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatalf("expected saving over an existing file to fail")
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unable to load settings: %v", err)
	}
	cfg, err := s.SimulationConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != simulation.DefaultConfig() {
		t.Fatalf("loaded config %+v differs from the default", cfg)
	}
	if s.MoverOptions() != mover.DefaultOptions() {
		t.Fatalf("loaded collision options differ from the default")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected loading a missing file to fail")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesa.toml")
	data := `
[Movement]
MovementSpeed = 600.0
FrictionStyle = "quake"
Flight = true

[Collision]
NeverIgnoreBlockingOverlaps = true

[Driver]
HistorySize = 64
LookRateYaw = 90.0

[Log]
Level = "debug"
DebugModes = ["reconcile", "netclock"]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("unable to write settings: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("unable to load settings: %v", err)
	}

	cfg, err := s.SimulationConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MovementSpeed != 600 || cfg.FrictionStyle != simulation.FrictionQuake || !cfg.Flight {
		t.Fatalf("overrides were not applied: %+v", cfg)
	}
	opts, err := s.ComponentOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.LookRateYaw != 90 || opts.HistorySize != 64 {
		t.Fatalf("driver overrides were not applied: %+v", opts)
	}
	if s.MoverOptions().Flags&mover.FlagNeverIgnoreBlockingOverlaps == 0 {
		t.Fatalf("expected the never ignore flag to be set")
	}

	log, err := s.Logger()
	if err != nil || log.Level != logrus.DebugLevel {
		t.Fatalf("expected a debug logger, got %v %v", log, err)
	}
	dbg, err := s.Debugger(log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dbg.Enabled(debug.ModeReconcile) || !dbg.Enabled(debug.ModeNetClock) || dbg.Enabled(debug.ModeCollision) {
		t.Fatalf("debug modes were not applied")
	}
}

func TestInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Movement.FrictionStyle = "ice"
	if _, err := s.ComponentOptions(); err == nil {
		t.Fatalf("expected an unknown friction style to fail")
	}

	s = DefaultSettings()
	s.Driver.HistorySize = 0
	if _, err := s.ComponentOptions(); err == nil {
		t.Fatalf("expected an empty history to fail")
	}

	s = DefaultSettings()
	s.Log.Level = "loud"
	if _, err := s.Logger(); err == nil {
		t.Fatalf("expected an unknown log level to fail")
	}

	s = DefaultSettings()
	s.Log.DebugModes = []string{"physics"}
	if _, err := s.Debugger(logrus.New()); err == nil {
		t.Fatalf("expected an unknown debug mode to fail")
	}
}
