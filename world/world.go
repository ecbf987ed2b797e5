package world

import (
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/utils"
)

// broadphaseMargin pads query areas so boxes resting exactly on an edge are still considered.
const broadphaseMargin = float32(0.01)

// World is a static collection of blocking axis aligned boxes implementing Querier. Queries may run
// concurrently. Boxes may be added at any time, but movement ticked while boxes change is not deterministic.
type World struct {
	boxes []cube.BBox
	dbg   *debug.Debugger

	sync.RWMutex
}

// New creates a World containing the given boxes. dbg may be nil.
func New(dbg *debug.Debugger, boxes ...cube.BBox) *World {
	w := &World{dbg: dbg}
	w.boxes = append(w.boxes, boxes...)
	return w
}

// AddBox adds a blocking box to the world.
func (w *World) AddBox(bb cube.BBox) {
	w.Lock()
	defer w.Unlock()
	w.boxes = append(w.boxes, bb)
}

// Boxes returns a copy of every box in the world, in insertion order.
func (w *World) Boxes() []cube.BBox {
	w.RLock()
	defer w.RUnlock()
	out := make([]cube.BBox, len(w.boxes))
	copy(out, w.boxes)
	return out
}

// nearbyBBoxes appends every box intersecting area to list, in insertion order.
func (w *World) nearbyBBoxes(area cube.BBox, list *[]cube.BBox) {
	w.RLock()
	defer w.RUnlock()
	for _, bb := range w.boxes {
		if bb.IntersectsWith(area) {
			*list = append(*list, bb)
		}
	}
}

// Overlap ...
func (w *World) Overlap(shape Shape, location mgl32.Vec3) bool {
	shapeBB := shape.BBoxAt(location)

	list := utils.GetBBoxList()
	defer utils.PutBBoxList(list)
	w.nearbyBBoxes(shapeBB.Grow(broadphaseMargin), list)

	for _, bb := range *list {
		if bb.IntersectsWith(shapeBB) {
			return true
		}
	}
	return false
}
