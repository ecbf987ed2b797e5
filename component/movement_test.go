package component

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/entity"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/simulation"
	"github.com/mesa-game/mesa/world"
)

var standing = mgl32.Vec3{0, 0, 88.1}

func newTestComponent() (*MovementComponent, *entity.Entity) {
	e := entity.NewEntity("pawn", entity.DefaultShape, standing, game.Rotator{Yaw: 10})
	c := NewMovementComponent(e, DefaultOptions(), nil)
	c.InitializeSimulation(world.New(nil, cube.Box(-10000, -10000, -100, 10000, 10000, 0)))
	return c, e
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected a panic", name)
		}
	}()
	f()
}

func TestComponentBindsOwnerRoot(t *testing.T) {
	c, e := newTestComponent()
	if c.UpdatedComponent() != e.Root() {
		t.Fatalf("expected the owner root to be the updated component")
	}
	if c.Simulation() == nil || c.Simulation().Mover().UpdatedComponent() != e.Root() {
		t.Fatalf("expected the simulation to move the owner root")
	}
}

func TestInitializeSimulationContract(t *testing.T) {
	c, _ := newTestComponent()
	expectPanic(t, "double init", func() {
		c.InitializeSimulation(world.New(nil))
	})

	orphan := NewMovementComponent(nil, DefaultOptions(), nil)
	expectPanic(t, "no updated component", func() {
		orphan.InitializeSimulation(world.New(nil))
	})
}

func TestRestoreFrame(t *testing.T) {
	c, e := newTestComponent()
	sync := simulation.SyncState{Location: mgl32.Vec3{5, 6, 7}, Velocity: mgl32.Vec3{1, 0, 0}, Rotation: game.Rotator{Yaw: -45}}
	c.RestoreFrame(&sync, &simulation.AuxState{})

	root := e.Root()
	if root.Location() != sync.Location || root.Rotation() != sync.Rotation || root.Velocity() != sync.Velocity {
		t.Fatalf("restore did not apply the state: %v %v %v", root.Location(), root.Rotation(), root.Velocity())
	}
}

func TestFinalizeFrameOnlyWritesOnDifference(t *testing.T) {
	c, e := newTestComponent()
	root := e.Root()
	aux := &simulation.AuxState{}

	writes := root.TransformWrites()
	converged := simulation.SyncState{Location: standing.Add(mgl32.Vec3{0.00005, 0, 0}), Rotation: game.Rotator{Yaw: 10.0005}}
	c.FinalizeFrame(&converged, aux)
	if root.TransformWrites() != writes {
		t.Fatalf("a converged frame must not write the transform")
	}

	moved := simulation.SyncState{Location: standing.Add(mgl32.Vec3{0, 0.01, 0}), Rotation: game.Rotator{Yaw: 10}}
	c.FinalizeFrame(&moved, aux)
	if root.TransformWrites() != writes+1 || root.Location() != moved.Location {
		t.Fatalf("expected a location difference to be written")
	}

	turned := simulation.SyncState{Location: moved.Location, Rotation: game.Rotator{Yaw: 10.01}}
	c.FinalizeFrame(&turned, aux)
	if root.TransformWrites() != writes+2 || root.Rotation() != turned.Rotation {
		t.Fatalf("expected a rotation difference to be written")
	}
}

func TestInitializeSimulationState(t *testing.T) {
	c, _ := newTestComponent()
	var sync simulation.SyncState
	c.InitializeSimulationState(&sync, &simulation.AuxState{})
	if sync.Location != standing || sync.Rotation != (game.Rotator{Yaw: 10}) {
		t.Fatalf("expected the spawn transform, got %v", &sync)
	}
	if sync.Velocity != (mgl32.Vec3{}) {
		t.Fatalf("spawn velocity should be zero")
	}
}

func TestAdvanceAndCheckAuthority(t *testing.T) {
	c, _ := newTestComponent()
	producer := NewInputProducer(game.LookRateYaw)
	c.SetProduceInput(producer.Produce)

	var sync simulation.SyncState
	c.InitializeSimulationState(&sync, &simulation.AuxState{})
	producer.Move(0, 1)
	cmd, out := c.Advance(simulation.TimeStep{StepMS: 16, Frame: 1}, simulation.Input{Sync: sync})
	if cmd.MovementInput != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected the produced input to be used, got %v", &cmd)
	}
	if c.UpdatedComponent().Location() != out.Sync.Location {
		t.Fatalf("the component should end up at the simulated location")
	}

	reconcile, report := c.CheckAuthority(1, out.Sync)
	if reconcile {
		t.Fatalf("an identical authority state must not reconcile")
	}
	if v, _ := report.Get("entity"); v != "pawn" {
		t.Fatalf("unexpected report entity %v", v)
	}

	far := out.Sync
	far.Location = far.Location.Add(mgl32.Vec3{0, 20, 0})
	if reconcile, _ := c.CheckAuthority(1, far); !reconcile {
		t.Fatalf("expected a distant authority state to reconcile")
	}
	if reconcile, report := c.CheckAuthority(7, out.Sync); !reconcile || report.Len() != 3 {
		t.Fatalf("frames missing from the history should reconcile")
	}
}

func TestNewInputProducerUsesLookRate(t *testing.T) {
	opts := DefaultOptions()
	opts.LookRateYaw = 90
	e := entity.NewEntity("pawn", entity.DefaultShape, standing, game.Rotator{})
	c := NewMovementComponent(e, opts, nil)

	p := c.NewInputProducer()
	p.Look(1, 0)
	var cmd simulation.InputCmd
	c.ProduceInput(16, &cmd)
	if cmd.YawInput != 90 {
		t.Fatalf("expected the bound producer to turn at 90 degrees per second, got %v", cmd.YawInput)
	}
}
