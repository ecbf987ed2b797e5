package mover

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/entity"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/world"
)

// MoveFlags change how sweeps treat geometry the moved primitive already overlaps.
type MoveFlags uint8

const (
	// FlagNeverIgnoreBlockingOverlaps makes sweeps stop on every overlap the primitive starts in, even ones the
	// move would leave.
	FlagNeverIgnoreBlockingOverlaps MoveFlags = 1 << iota
)

// Options are the collision tunables of a Mover.
type Options struct {
	// PullbackDistance is added to the penetration depth when pushing the primitive out of geometry.
	PullbackDistance float32
	// OverlapInflation grows the shape used to check whether a penetration adjustment lands somewhere free.
	OverlapInflation float32
	// Flags are the move flags in effect outside of penetration recovery.
	Flags MoveFlags
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		PullbackDistance: game.PenetrationPullbackDistance,
		OverlapInflation: game.PenetrationOverlapCheckInflation,
	}
}

// Mover moves a primitive through the world, sweeping it against geometry and recovering it from penetration.
type Mover struct {
	world   world.Querier
	updated *entity.Primitive
	opts    Options
	flags   MoveFlags
	dbg     *debug.Debugger
}

// New creates a Mover moving updated through w. dbg may be nil.
func New(w world.Querier, updated *entity.Primitive, opts Options, dbg *debug.Debugger) *Mover {
	return &Mover{world: w, updated: updated, opts: opts, flags: opts.Flags, dbg: dbg}
}

// UpdatedComponent returns the primitive moved by the mover.
func (m *Mover) UpdatedComponent() *entity.Primitive {
	return m.updated
}

// SetUpdatedComponent changes the primitive moved by the mover.
func (m *Mover) SetUpdatedComponent(p *entity.Primitive) {
	m.updated = p
}

// World returns the query service the mover sweeps against.
func (m *Mover) World() world.Querier {
	return m.world
}

// Flags returns the move flags currently in effect.
func (m *Mover) Flags() MoveFlags {
	return m.flags
}

// Move moves the updated primitive by delta and sets its rotation. When sweep is true the move stops at the
// first blocking hit, otherwise the primitive is placed at the destination as is. It returns true if the
// transform changed at all, along with the hit that stopped the move.
func (m *Mover) Move(delta mgl32.Vec3, rot game.Rotator, sweep bool) (bool, world.HitResult) {
	if m.updated == nil {
		return false, world.NoHit(mgl32.Vec3{}, delta)
	}

	start := m.updated.Location()
	end := start.Add(delta)
	rotated := !m.updated.Rotation().Equals(rot, 0)
	if !sweep || delta == (mgl32.Vec3{}) {
		if delta != (mgl32.Vec3{}) || rotated {
			m.updated.SetLocationAndRotation(end, rot)
		}
		return true, world.NoHit(start, end)
	}

	hit := m.world.Sweep(m.updated.Shape(), start, delta, world.QueryParams{
		IgnoreExitingOverlaps: m.flags&FlagNeverIgnoreBlockingOverlaps == 0,
	})
	moved := hit.Location != start
	if moved || rotated {
		m.updated.SetLocationAndRotation(hit.Location, rot)
	}
	return moved || rotated, hit
}

// SafeMove moves like Move, but if the primitive starts the move inside geometry it is first pushed out and
// the move is then tried once more.
func (m *Mover) SafeMove(delta mgl32.Vec3, rot game.Rotator, sweep bool) (bool, world.HitResult) {
	if m.updated == nil {
		return false, world.NoHit(mgl32.Vec3{}, delta)
	}

	moved, hit := m.Move(delta, rot, sweep)
	if hit.StartPenetrating {
		adjustment := m.PenetrationAdjustment(hit)
		if m.ResolvePenetration(adjustment, hit, rot) {
			moved, hit = m.Move(delta, rot, sweep)
		}
	}
	return moved, hit
}

// PenetrationAdjustment returns the translation that should take the primitive out of the geometry hit
// started inside of.
func (m *Mover) PenetrationAdjustment(hit world.HitResult) mgl32.Vec3 {
	if !hit.StartPenetrating {
		return mgl32.Vec3{}
	}
	depth := hit.PenetrationDepth
	if depth <= 0 {
		depth = game.DefaultPenetrationDepth
	}
	pullback := m.opts.PullbackDistance
	if pullback < 0 {
		pullback = -pullback
	}
	return hit.Normal.Mul(depth + pullback)
}

// OverlapTest returns true if shape centred on location overlaps blocking geometry.
func (m *Mover) OverlapTest(location mgl32.Vec3, shape world.Shape) bool {
	return m.world.Overlap(shape, location)
}

// ResolvePenetration tries to move the primitive out of the geometry hit started inside of. It teleports by
// the adjustment when that lands somewhere free, and otherwise sweeps out with progressively different
// deltas. At most four geometry queries are made. It returns true if the primitive moved.
func (m *Mover) ResolvePenetration(adjustment mgl32.Vec3, hit world.HitResult, rot game.Rotator) bool {
	if adjustment == (mgl32.Vec3{}) || m.updated == nil {
		return false
	}
	m.dbg.Notify(debug.ModeCollision, true, "resolving penetration at %v by %v (depth %.3f)", m.updated.Location(), adjustment, hit.PenetrationDepth)

	inflated := m.updated.CollisionShape(m.opts.OverlapInflation)
	if !m.OverlapTest(hit.TraceStart.Add(adjustment), inflated) {
		m.Move(adjustment, rot, false)
		m.dbg.Notify(debug.ModeCollision, true, "penetration resolved: teleport by %v", adjustment)
		return true
	}

	// Overlaps we are sweeping out of must not block the recovery sweeps.
	prev := m.flags
	m.flags &^= FlagNeverIgnoreBlockingOverlaps
	defer func() { m.flags = prev }()

	moved, sweepOut := m.Move(adjustment, rot, true)
	m.dbg.Notify(debug.ModeCollision, true, "penetration sweep by %v (moved=%v)", adjustment, moved)

	if !moved && sweepOut.StartPenetrating {
		// Combine both MTDs to find a direction out of several surfaces at once.
		second := m.PenetrationAdjustment(sweepOut)
		combined := adjustment.Add(second)
		if second != adjustment && combined != (mgl32.Vec3{}) {
			moved, _ = m.Move(combined, rot, true)
			m.dbg.Notify(debug.ModeCollision, true, "penetration sweep by combined MTD %v (moved=%v)", combined, moved)
		}
	}

	if !moved {
		moveDelta := hit.TraceEnd.Sub(hit.TraceStart)
		if moveDelta != (mgl32.Vec3{}) {
			moved, _ = m.Move(adjustment.Add(moveDelta), rot, true)
			m.dbg.Notify(debug.ModeCollision, true, "penetration sweep by adjusted attempt %v (moved=%v)", adjustment.Add(moveDelta), moved)
		}
	}
	return moved
}
