package session

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/mesa-game/mesa/component"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/entity"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/oerror"
	"github.com/mesa-game/mesa/simulation"
	"github.com/mesa-game/mesa/utils"
	"github.com/mesa-game/mesa/worker"
	"github.com/mesa-game/mesa/world"
	"github.com/sirupsen/logrus"
)

// Script feeds the input for a frame of a simulated run. It may also request debugging behaviour.
type Script func(frame int32, input *component.InputProducer, dbg *simulation.DebugInput)

// newDriver rebuilds the world, the entity and its movement component described by h, and returns the
// state the first tick starts from.
func newDriver(h Header, opts component.Options, dbg *debug.Debugger) (*component.MovementComponent, simulation.SyncState) {
	opts.Simulation = h.Config
	e := entity.NewEntity(h.Entity, h.Shape, h.Spawn.Location, h.Spawn.Rotation)
	c := component.NewMovementComponent(e, opts, dbg)
	c.InitializeSimulation(world.New(dbg, h.Boxes...))

	var sync simulation.SyncState
	c.InitializeSimulationState(&sync, &simulation.AuxState{})
	sync.Velocity = h.Spawn.Velocity
	c.RestoreFrame(&sync, &simulation.AuxState{})
	return c, sync
}

// Simulate runs frames ticks of stepMS milliseconds from h, taking input from script, and records each tick
// to rec if it is not nil. It returns the final state.
func Simulate(h Header, frames int, stepMS int32, script Script, rec *Recorder, opts component.Options, dbg *debug.Debugger) (simulation.SyncState, error) {
	c, sync := newDriver(h, opts, dbg)
	input := c.NewInputProducer()

	var total int64
	for i := range frames {
		frame := int32(i + 1)
		step := simulation.TimeStep{StepMS: stepMS, TotalSimulationTime: total, Frame: frame}

		var in simulation.Input
		if script != nil {
			script(frame, input, &in.Debug)
		}
		in.Sync = sync

		cmd, out := c.Advance(step, in)
		if rec != nil {
			if err := rec.Record(step, cmd, in.Debug, out.Sync); err != nil {
				return out.Sync, err
			}
		}
		sync = out.Sync
		total += int64(stepMS)
	}
	return sync, nil
}

// Verify replays rec and checks that every tick reproduces the recorded state. It returns a report of the
// replay. If a tick diverges, the report describes the first one that did and an error is returned.
func Verify(rec *Recording, opts component.Options, dbg *debug.Debugger) (*orderedmap.OrderedMap[string, any], error) {
	report := utils.KeyValsToMap("entity", rec.Entity, "frames", len(rec.Frames), "duration_ms", rec.Duration())

	c, sync := newDriver(rec.Header, opts, dbg)
	for _, f := range rec.Frames {
		_, out := c.Advance(f.Step, simulation.Input{Cmd: f.Cmd, Sync: sync, Debug: f.Debug})
		if sum := out.Sync.Checksum(); sum != f.Checksum {
			report.Set("diverged_frame", f.Step.Frame)
			report.Set("recorded", f.Sync.String())
			report.Set("replayed", out.Sync.String())
			report.Set("error", game.Round32(out.Sync.Location.Sub(f.Sync.Location).Len(), 4))
			return report, oerror.New("replay of %s diverged at frame %d", rec.Entity, f.Step.Frame)
		}
		sync = out.Sync
	}
	report.Set("final", game.RoundVec32(sync.Location, 3))
	return report, nil
}

// VerifyAll verifies recs on the workers and logs a report for each of them. It returns the errors of every
// diverged recording.
func VerifyAll(recs []*Recording, opts component.Options, log *logrus.Logger) error {
	var g worker.Group
	for _, rec := range recs {
		g.Go(func() error {
			report, err := Verify(rec, opts, nil)
			entry := log.WithField("report", utils.ReportString(report))
			if err != nil {
				entry.Errorf("%s: replay diverged", rec.Entity)
				return err
			}
			entry.Infof("%s: replay verified", rec.Entity)
			return nil
		})
	}
	return g.Wait()
}
