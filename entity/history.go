package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mesa-game/mesa/game"
)

// Snapshot is the finalized state of a primitive at a simulation frame.
type Snapshot struct {
	Frame    int64
	Location mgl32.Vec3
	Velocity mgl32.Vec3
	Rotation game.Rotator
}

// History is a fixed-size circular buffer of snapshots, ordered by the frame they were added in.
type History struct {
	buffer   []Snapshot
	capacity int
	head     int // Points to the next write position
	size     int // Current number of elements
}

// NewHistory creates a new history holding at most capacity snapshots.
func NewHistory(capacity int) *History {
	return &History{
		buffer:   make([]Snapshot, capacity),
		capacity: capacity,
	}
}

// Add inserts a snapshot, dropping the oldest one if the history is full. Snapshots for a frame that is not
// newer than the latest one replace everything from that frame onwards, as happens after a rollback.
func (h *History) Add(s Snapshot) {
	if h.capacity == 0 {
		return
	}
	for h.size > 0 {
		latest, _ := h.Latest()
		if latest.Frame < s.Frame {
			break
		}
		h.head = (h.head - 1 + h.capacity) % h.capacity
		h.size--
	}

	h.buffer[h.head] = s
	h.head = (h.head + 1) % h.capacity
	if h.size < h.capacity {
		h.size++
	}
}

// Get retrieves a snapshot by frame, returns the snapshot and true if found.
func (h *History) Get(frame int64) (Snapshot, bool) {
	// Search backwards from most recent
	for i := 0; i < h.size; i++ {
		idx := (h.head - 1 - i + h.capacity) % h.capacity
		if h.buffer[idx].Frame == frame {
			return h.buffer[idx], true
		}
		// If we've gone past the frame we're looking for, stop searching
		if h.buffer[idx].Frame < frame {
			break
		}
	}
	return Snapshot{}, false
}

// Latest returns the most recently added snapshot.
func (h *History) Latest() (Snapshot, bool) {
	if h.size == 0 {
		return Snapshot{}, false
	}
	return h.buffer[(h.head-1+h.capacity)%h.capacity], true
}

// Size returns the current number of snapshots in the history.
func (h *History) Size() int {
	return h.size
}

// Capacity returns the maximum capacity of the history.
func (h *History) Capacity() int {
	return h.capacity
}

// Clear removes all snapshots from the history.
func (h *History) Clear() {
	h.head = 0
	h.size = 0
}
