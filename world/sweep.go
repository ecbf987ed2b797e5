package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/utils"
)

const (
	sweepEpsilon = float32(1e-5)
	// sweepPullback is how far, in world units, a blocked sweep stops short of the surface it hit so the shape
	// never comes to rest touching it.
	sweepPullback = float32(0.1)
	faceEpsilon   = float32(1e-3)
)

// Sweep moves shape from start by delta against every box in the world. Boxes the shape already overlaps
// produce a start-penetrating hit carrying the minimum translation out of the box, unless params allows
// ignoring them and the sweep moves away from them.
func (w *World) Sweep(shape Shape, start, delta mgl32.Vec3, params QueryParams) HitResult {
	end := start.Add(delta)
	result := NoHit(start, end)
	startBB := shape.BBoxAt(start)

	list := utils.GetBBoxList()
	defer utils.PutBBoxList(list)
	w.nearbyBBoxes(startBB.Extend(delta).Grow(broadphaseMargin), list)

	var (
		penetrating bool
		penNormal   mgl32.Vec3
		penDepth    float32
	)
	hitTime := float32(2)
	var hitNormal mgl32.Vec3
	for _, bb := range *list {
		if bb.IntersectsWith(startBB) {
			normal, depth := minimumTranslation(startBB, bb)
			if params.IgnoreExitingOverlaps && delta.Dot(normal) > 0 {
				w.dbg.Notify(debug.ModeCollision, true, "sweep ignoring exited overlap normal=%v depth=%.4f", normal, depth)
				continue
			}
			if !penetrating {
				penetrating, penNormal, penDepth = true, normal, depth
			}
			continue
		}
		if t, normal, ok := sweepBox(bb, shape.HalfExtents, start, delta); ok && t < hitTime {
			hitTime, hitNormal = t, normal
		}
	}

	if penetrating {
		w.dbg.Notify(debug.ModeCollision, true, "sweep started penetrating normal=%v depth=%.4f", penNormal, penDepth)
		result.Blocking, result.StartPenetrating = true, true
		result.Time, result.Normal, result.PenetrationDepth = 0, penNormal, penDepth
		result.Location = start
		return result
	}
	if hitTime > 1 {
		return result
	}

	if dist := delta.Len(); dist > 0 {
		hitTime = max(hitTime-sweepPullback/dist, 0)
	}
	result.Blocking = true
	result.Time = hitTime
	result.Normal = hitNormal
	result.Location = start.Add(delta.Mul(hitTime))
	w.dbg.Notify(debug.ModeCollision, true, "sweep blocked time=%.4f normal=%v", hitTime, hitNormal)
	return result
}

// LineTrace returns the closest box the segment from start to end enters.
func (w *World) LineTrace(start, end mgl32.Vec3) HitResult {
	result := NoHit(start, end)
	length := end.Sub(start).Len()
	if length == 0 {
		return result
	}

	list := utils.GetBBoxList()
	defer utils.PutBBoxList(list)
	w.nearbyBBoxes(segmentBBox(start, end).Grow(broadphaseMargin), list)

	dir := end.Sub(start).Mul(1 / length)
	for _, bb := range *list {
		res, ok := trace.BBoxIntercept(bb, start, end)
		if !ok {
			continue
		}
		pos := res.Position()
		t := min(pos.Sub(start).Len()/length, 1)
		if result.Blocking && t >= result.Time {
			continue
		}
		result.Blocking = true
		result.Time = t
		result.Location = pos
		result.Normal = faceNormal(bb, pos, dir)
	}
	return result
}

// sweepBox intersects the segment start+delta*t against bb expanded by half, returning the entry time and the
// normal of the face entered.
func sweepBox(bb cube.BBox, half, start, delta mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	boxMin, boxMax := bb.Min().Sub(half), bb.Max().Add(half)
	tEnter, tExit := float32(-math32.MaxFloat32), float32(math32.MaxFloat32)
	var normal mgl32.Vec3

	for i := 0; i < 3; i++ {
		if math32.Abs(delta[i]) < sweepEpsilon {
			// Parallel to this slab: touching the face does not count as entering it.
			if start[i] <= boxMin[i] || start[i] >= boxMax[i] {
				return 0, normal, false
			}
			continue
		}

		inv := 1 / delta[i]
		t1, t2 := (boxMin[i]-start[i])*inv, (boxMax[i]-start[i])*inv
		axisNormal := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			axisNormal = 1
		}
		if t1 > tEnter {
			tEnter = t1
			normal = mgl32.Vec3{}
			normal[i] = axisNormal
		}
		if t2 < tExit {
			tExit = t2
		}
	}

	if tEnter >= tExit || tExit <= sweepEpsilon || tEnter < -sweepEpsilon || tEnter > 1 {
		return 0, normal, false
	}
	return max(tEnter, 0), normal, true
}

// minimumTranslation returns the direction and distance of the smallest move that takes shapeBB out of bb.
// Ties resolve to the lowest axis, pushing in the positive direction first.
func minimumTranslation(shapeBB, bb cube.BBox) (mgl32.Vec3, float32) {
	shapeMin, shapeMax := shapeBB.Min(), shapeBB.Max()
	boxMin, boxMax := bb.Min(), bb.Max()

	depth := float32(math32.MaxFloat32)
	var normal mgl32.Vec3
	for i := 0; i < 3; i++ {
		if d := boxMax[i] - shapeMin[i]; d < depth {
			depth = d
			normal = mgl32.Vec3{}
			normal[i] = 1
		}
		if d := shapeMax[i] - boxMin[i]; d < depth {
			depth = d
			normal = mgl32.Vec3{}
			normal[i] = -1
		}
	}
	return normal, depth
}

// faceNormal finds the face of bb that pos lies on and that a ray travelling along dir could enter.
func faceNormal(bb cube.BBox, pos, dir mgl32.Vec3) mgl32.Vec3 {
	boxMin, boxMax := bb.Min(), bb.Max()
	for i := 0; i < 3; i++ {
		var n mgl32.Vec3
		if math32.Abs(pos[i]-boxMin[i]) <= faceEpsilon && dir[i] > 0 {
			n[i] = -1
			return n
		}
		if math32.Abs(pos[i]-boxMax[i]) <= faceEpsilon && dir[i] < 0 {
			n[i] = 1
			return n
		}
	}
	return dir.Mul(-1)
}

func segmentBBox(a, b mgl32.Vec3) cube.BBox {
	return cube.Box(
		min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2]),
		max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2]),
	)
}
