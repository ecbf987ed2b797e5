package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
	"github.com/mesa-game/mesa/world"
)

func TestNewEntityOwnsRoot(t *testing.T) {
	e := NewEntity("pawn", world.BoxShape(1, 2, 3), mgl32.Vec3{1, 2, 3}, game.Rotator{Yaw: 45})
	root := e.Root()
	if root == nil || root.Owner() != e {
		t.Fatalf("expected the root primitive to be owned by the entity")
	}
	if root.HalfHeight() != 3 {
		t.Fatalf("expected half height 3, got %v", root.HalfHeight())
	}
	if got := root.CollisionShape(0.5).HalfExtents; got != (mgl32.Vec3{1.5, 2.5, 3.5}) {
		t.Fatalf("unexpected inflated shape %v", got)
	}
	if root.TransformWrites() != 0 {
		t.Fatalf("construction should not count as a transform write")
	}
	root.SetLocationAndRotation(mgl32.Vec3{4, 5, 6}, game.Rotator{})
	if root.Location() != (mgl32.Vec3{4, 5, 6}) || root.TransformWrites() != 1 {
		t.Fatalf("transform write not applied")
	}
}

func TestHistoryGetAndWrap(t *testing.T) {
	h := NewHistory(3)
	for frame := int64(1); frame <= 4; frame++ {
		h.Add(Snapshot{Frame: frame, Location: mgl32.Vec3{float32(frame), 0, 0}})
	}
	if h.Size() != 3 {
		t.Fatalf("expected size 3, got %d", h.Size())
	}
	if _, ok := h.Get(1); ok {
		t.Fatalf("frame 1 should have been dropped")
	}
	if s, ok := h.Get(3); !ok || s.Location.X() != 3 {
		t.Fatalf("Get(3) = %v, %v", s, ok)
	}
	if s, _ := h.Latest(); s.Frame != 4 {
		t.Fatalf("expected latest frame 4, got %d", s.Frame)
	}
}

func TestHistoryRewritesAfterRollback(t *testing.T) {
	h := NewHistory(8)
	for frame := int64(1); frame <= 5; frame++ {
		h.Add(Snapshot{Frame: frame})
	}
	h.Add(Snapshot{Frame: 3, Location: mgl32.Vec3{0, 0, 9}})
	if h.Size() != 3 {
		t.Fatalf("expected frames 4 and 5 to be dropped, size=%d", h.Size())
	}
	if _, ok := h.Get(5); ok {
		t.Fatalf("frame 5 should be gone after the rollback")
	}
	if s, ok := h.Get(3); !ok || s.Location.Z() != 9 {
		t.Fatalf("expected the replayed frame 3, got %v", s)
	}
}
