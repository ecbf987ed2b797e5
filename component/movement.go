package component

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/mesa-game/mesa/assert"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/entity"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/mover"
	"github.com/mesa-game/mesa/simulation"
	"github.com/mesa-game/mesa/utils"
	"github.com/mesa-game/mesa/world"
)

// ProduceInputFunc fills cmd with the input for a frame deltaMS milliseconds long.
type ProduceInputFunc func(deltaMS int32, cmd *simulation.InputCmd)

// Options configure a MovementComponent and the simulation it owns.
type Options struct {
	// MaxSpeed is the speed finalized frames are expected to stay under.
	MaxSpeed float32
	// LocationTolerance and RotationTolerance decide whether FinalizeFrame has to write the transform.
	LocationTolerance float32
	RotationTolerance float32
	// HistorySize is the number of finalized frames kept for checking authority states against.
	HistorySize int
	// LookRateYaw is the yaw rate, in degrees per second, of a full look input given to an InputProducer.
	LookRateYaw float32

	Mover      mover.Options
	Simulation simulation.Config
	Reconciler simulation.Reconciler
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		MaxSpeed:          game.DefaultMaxSpeed,
		LocationTolerance: game.LocationTolerance,
		RotationTolerance: game.RotatorTolerance,
		HistorySize:       128,
		LookRateYaw:       game.LookRateYaw,
		Mover:             mover.DefaultOptions(),
		Simulation:        simulation.DefaultConfig(),
		Reconciler:        simulation.DefaultReconciler(),
	}
}

// MovementComponent drives a movement simulation for an entity. It binds the simulation to the component it
// moves, produces input for it and applies the states the prediction framework settles on.
type MovementComponent struct {
	owner   *entity.Entity
	updated *entity.Primitive
	opts    Options
	dbg     *debug.Debugger

	ownedSim  *simulation.Simulation
	activeSim *simulation.Simulation

	produceInput ProduceInputFunc
	history      *entity.History
}

// NewMovementComponent creates a movement component for owner, binding its root primitive as the updated
// component. dbg may be nil.
func NewMovementComponent(owner *entity.Entity, opts Options, dbg *debug.Debugger) *MovementComponent {
	c := &MovementComponent{owner: owner, opts: opts, dbg: dbg, history: entity.NewHistory(opts.HistorySize)}
	if owner != nil {
		c.SetUpdatedComponent(owner.Root())
	}
	return c
}

// UpdatedComponent returns the primitive moved by the simulation.
func (c *MovementComponent) UpdatedComponent() *entity.Primitive {
	return c.updated
}

// SetUpdatedComponent changes the primitive moved by the simulation. Passing nil falls back to the root of
// the owner, if there is one.
func (c *MovementComponent) SetUpdatedComponent(p *entity.Primitive) {
	if p == nil && c.owner != nil {
		p = c.owner.Root()
	}
	c.updated = p
	if c.activeSim != nil {
		c.activeSim.Mover().SetUpdatedComponent(p)
	}
}

// InitializeSimulation creates the simulation owned by the component, moving through w, and binds it.
func (c *MovementComponent) InitializeSimulation(w world.Querier) *simulation.Simulation {
	c.ownedSim = simulation.New(mover.New(w, c.updated, c.opts.Mover, c.dbg), c.opts.Simulation, c.dbg)
	c.InitMovementSimulation(c.ownedSim)
	return c.ownedSim
}

// InitMovementSimulation binds sim as the active simulation. It panics if there is no updated component or
// a simulation is already bound, as rebinding is not supported.
func (c *MovementComponent) InitMovementSimulation(sim *simulation.Simulation) {
	assert.IsTrue(c.updated != nil, "movement component initialized without an updated component")
	assert.IsTrue(c.activeSim == nil, "movement simulation already initialized")
	c.activeSim = sim
	sim.Mover().SetUpdatedComponent(c.updated)
}

// Simulation returns the active simulation, or nil if none was initialized.
func (c *MovementComponent) Simulation() *simulation.Simulation {
	return c.activeSim
}

// SetProduceInput binds the function input is produced with.
func (c *MovementComponent) SetProduceInput(fn ProduceInputFunc) {
	c.produceInput = fn
}

// ProduceInput fills cmd through the bound input function. Without one, cmd is left as is.
func (c *MovementComponent) ProduceInput(deltaMS int32, cmd *simulation.InputCmd) {
	if c.produceInput != nil {
		c.produceInput(deltaMS, cmd)
	}
}

// RestoreFrame forces the updated component into the given state, for example before resimulating.
func (c *MovementComponent) RestoreFrame(sync *simulation.SyncState, _ *simulation.AuxState) {
	c.updated.SetLocationAndRotation(sync.Location, sync.Rotation)
	c.updated.SetVelocity(sync.Velocity)
}

// FinalizeFrame applies the state the framework settled on for a frame. The component usually already is
// where the simulation left it, so the transform is only written if it differs.
func (c *MovementComponent) FinalizeFrame(sync *simulation.SyncState, aux *simulation.AuxState) {
	if !game.VecEquals(c.updated.Location(), sync.Location, c.opts.LocationTolerance) ||
		!c.updated.Rotation().Equals(sync.Rotation, c.opts.RotationTolerance) {
		c.RestoreFrame(sync, aux)
	}
	c.dbg.Notify(debug.ModeMovementSim, simulation.IsExceedingMaxSpeed(sync.Velocity, c.opts.MaxSpeed),
		"%s: finalized velocity %v exceeds max speed %.1f", c.ownerName(), sync.Velocity, c.opts.MaxSpeed)
}

// InitializeSimulationState seeds the initial state from the current transform of the updated component.
func (c *MovementComponent) InitializeSimulationState(sync *simulation.SyncState, _ *simulation.AuxState) {
	assert.IsTrue(c.updated != nil && sync != nil, "simulation state initialized without an updated component")
	sync.Location = c.updated.Location()
	sync.Rotation = c.updated.Rotation()
}

// MaxSpeed ...
func (c *MovementComponent) MaxSpeed() float32 {
	return c.opts.MaxSpeed
}

// SetMaxSpeed ...
func (c *MovementComponent) SetMaxSpeed(speed float32) {
	c.opts.MaxSpeed = speed
}

// NewInputProducer creates an input producer turning at the configured look rate and binds it as the input
// function of the component.
func (c *MovementComponent) NewInputProducer() *InputProducer {
	p := NewInputProducer(c.opts.LookRateYaw)
	c.SetProduceInput(p.Produce)
	return p
}

// History returns the finalized frames recorded by Advance.
func (c *MovementComponent) History() *entity.History {
	return c.history
}

// Advance runs a single predicted frame in the order the prediction framework does: it produces input,
// ticks the simulation from in and finalizes the result. The finalized state is recorded in the history under
// the frame of step.
func (c *MovementComponent) Advance(step simulation.TimeStep, in simulation.Input) (simulation.InputCmd, simulation.Output) {
	assert.IsTrue(c.activeSim != nil, "movement component advanced before its simulation was initialized")

	c.ProduceInput(step.StepMS, &in.Cmd)
	out := c.activeSim.Tick(step, in)
	c.FinalizeFrame(&out.Sync, &out.Aux)
	c.history.Add(entity.Snapshot{
		Frame:    int64(step.Frame),
		Location: out.Sync.Location,
		Velocity: out.Sync.Velocity,
		Rotation: out.Sync.Rotation,
	})
	return in.Cmd, out
}

// CheckAuthority compares the authority state for frame against what was predicted for it. It returns true
// if the prediction must be corrected, along with a report describing the comparison. Frames that are no
// longer in the history always need correcting.
func (c *MovementComponent) CheckAuthority(frame int64, authority simulation.SyncState) (bool, *orderedmap.OrderedMap[string, any]) {
	report := orderedmap.NewOrderedMap[string, any]()
	report.Set("entity", c.ownerName())
	report.Set("frame", frame)

	snapshot, ok := c.history.Get(frame)
	if !ok {
		report.Set("predicted", "<missing>")
		return true, report
	}
	predicted := simulation.SyncState{Location: snapshot.Location, Velocity: snapshot.Velocity, Rotation: snapshot.Rotation}
	reconcile := c.opts.Reconciler.ShouldReconcile(predicted, authority)

	report.Set("predicted", game.RoundVec32(predicted.Location, 3))
	report.Set("authority", game.RoundVec32(authority.Location, 3))
	report.Set("error", game.Round32(authority.Location.Sub(predicted.Location).Len(), 3))
	report.Set("reconcile", reconcile)
	c.dbg.Notify(debug.ModeReconcile, reconcile, "authority mismatch %s", utils.ReportString(report))
	return reconcile, report
}

func (c *MovementComponent) ownerName() string {
	if c.owner == nil {
		return "<unowned>"
	}
	return c.owner.Name()
}
