package utils

import "testing"

func TestCircularQueueOverwritesOldest(t *testing.T) {
	q := NewCircularQueue[int](3)
	if q.Len() != 0 || q.Full() {
		t.Fatalf("expected a new queue to be empty")
	}
	for i := 1; i <= 4; i++ {
		if err := q.Append(i); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if !q.Full() || q.Len() != 3 {
		t.Fatalf("expected full queue of 3, got len %d", q.Len())
	}
	got := q.Slice()
	want := []int{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slice() = %v, want %v", got, want)
		}
	}
	if v, _ := q.Get(0); v != 2 {
		t.Fatalf("Get(0) = %d, want 2", v)
	}
	if _, err := q.Get(3); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestCircularQueuePop(t *testing.T) {
	q := NewCircularQueue[string](2)
	_ = q.Append("a")
	_ = q.Append("b")
	if v, ok := q.Pop(); !ok || v != "a" {
		t.Fatalf("Pop() = %q, %v", v, ok)
	}
	_ = q.Append("c")
	if got := q.Slice(); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("unexpected contents %v", got)
	}
	q.Clear()
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected cleared queue to be empty")
	}
}

func TestCircularQueueZeroCapacity(t *testing.T) {
	if err := NewCircularQueue[int](0).Append(1); err == nil {
		t.Fatalf("expected error appending to zero-capacity queue")
	}
}
