package world

import (
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// HitResult describes the outcome of a sweep or trace. A HitResult with Time 1 and Blocking false means
// nothing was hit.
type HitResult struct {
	// Blocking is true if the query was stopped by geometry.
	Blocking bool
	// StartPenetrating is true if the shape already overlapped the geometry at the start of the query. In that
	// case Normal and PenetrationDepth describe the smallest translation that separates them.
	StartPenetrating bool
	// Time is the fraction of the query, in [0, 1], travelled before the hit.
	Time float32
	// Normal is the surface normal facing away from the hit geometry.
	Normal           mgl32.Vec3
	PenetrationDepth float32

	TraceStart, TraceEnd mgl32.Vec3
	// Location is where the shape (or point, for traces) came to rest.
	Location mgl32.Vec3
}

// NoHit returns the result of a query from start to end that touched nothing.
func NoHit(start, end mgl32.Vec3) HitResult {
	return HitResult{Time: 1, TraceStart: start, TraceEnd: end, Location: end}
}

// IsValidBlockingHit returns true if the hit stopped a move part way, rather than starting inside geometry.
func (h HitResult) IsValidBlockingHit() bool {
	return h.Blocking && !h.StartPenetrating
}

func (h HitResult) String() string {
	return fmt.Sprintf("Hit{blocking=%v penetrating=%v time=%.4f normal=%v depth=%.4f}", h.Blocking, h.StartPenetrating, h.Time, h.Normal, h.PenetrationDepth)
}

// Shape is an axis aligned collision box centred on a location.
type Shape struct {
	HalfExtents mgl32.Vec3
}

// BoxShape returns a shape with the given half extents.
func BoxShape(x, y, z float32) Shape {
	return Shape{HalfExtents: mgl32.Vec3{x, y, z}}
}

// Inflate returns the shape grown by amount on every side.
func (s Shape) Inflate(amount float32) Shape {
	return Shape{HalfExtents: s.HalfExtents.Add(mgl32.Vec3{amount, amount, amount})}
}

// HalfHeight returns the distance from the centre of the shape to its base.
func (s Shape) HalfHeight() float32 {
	return s.HalfExtents[2]
}

// BBoxAt returns the box occupied by the shape when centred on location.
func (s Shape) BBoxAt(location mgl32.Vec3) cube.BBox {
	min, max := location.Sub(s.HalfExtents), location.Add(s.HalfExtents)
	return cube.Box(min[0], min[1], min[2], max[0], max[1], max[2])
}

// QueryParams adjust how a sweep treats geometry the shape already overlaps.
type QueryParams struct {
	// IgnoreExitingOverlaps skips geometry the shape starts inside of when the sweep moves away from it.
	IgnoreExitingOverlaps bool
}

// Querier is the geometry query service movement runs against. Implementations must be deterministic: the
// same query against the same geometry always gives the same result.
type Querier interface {
	// Sweep moves shape from start by delta and reports the first blocking hit.
	Sweep(shape Shape, start, delta mgl32.Vec3, params QueryParams) HitResult
	// Overlap returns true if shape centred on location overlaps any blocking geometry.
	Overlap(shape Shape, location mgl32.Vec3) bool
	// LineTrace traces a ray from start to end and reports the first blocking hit.
	LineTrace(start, end mgl32.Vec3) HitResult
}
