package debug

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Mode selects a family of debug messages that can be toggled independently.
type Mode int

const (
	ModeMovementSim Mode = iota
	ModeCollision
	ModeNetClock
	ModeReconcile
	ModeAll
)

var modeNames = map[Mode]string{
	ModeMovementSim: "movement_sim",
	ModeCollision:   "collision",
	ModeNetClock:    "netclock",
	ModeReconcile:   "reconcile",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode resolves a mode name as it is written in the settings file.
func ParseMode(name string) (Mode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "all" {
		return ModeAll, true
	}
	for m, n := range modeNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// Debugger writes debug messages for the modes that have been enabled on it. A nil *Debugger is valid and
// discards everything, so components can be built without one.
type Debugger struct {
	mu      sync.RWMutex
	log     *logrus.Logger
	enabled map[Mode]bool
}

// NewDebugger returns a Debugger logging through log with the given modes enabled.
func NewDebugger(log *logrus.Logger, modes ...Mode) *Debugger {
	d := &Debugger{log: log, enabled: make(map[Mode]bool)}
	for _, m := range modes {
		d.Toggle(m, true)
	}
	return d
}

// Toggle enables or disables a mode. ModeAll toggles every mode.
func (d *Debugger) Toggle(mode Mode, enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if mode == ModeAll {
		for m := range modeNames {
			d.enabled[m] = enabled
		}
		return
	}
	d.enabled[mode] = enabled
}

// Enabled returns true if messages for mode are currently written.
func (d *Debugger) Enabled(mode Mode) bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled[mode]
}

// Notify logs a message at debug level if mode is enabled and cond holds.
func (d *Debugger) Notify(mode Mode, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	d.log.WithField("mode", mode.String()).Debugf(format, args...)
}
