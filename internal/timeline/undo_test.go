package timeline

import (
	"testing"
	"time"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(DefaultHistoryCap)

	original := New("proj", fixedTime)
	original.Entries = []Entry{{ID: "a", Filename: "recording-1.mp4"}}

	mutated := original.Clone()
	mutated.Entries[0].Label = "renamed"

	h.Push(original)

	undone, ok := h.Undo(mutated)
	if !ok {
		t.Fatal("expected Undo to succeed")
	}
	if undone.Entries[0].Label != "" {
		t.Fatalf("Undo(mutated) should restore the original state, got %+v", undone.Entries[0])
	}

	redone, ok := h.Redo(undone)
	if !ok {
		t.Fatal("expected Redo to succeed")
	}
	if redone.Entries[0].Label != "renamed" {
		t.Fatalf("Redo(Undo(s)) should equal s, got %+v", redone.Entries[0])
	}
}

func TestPushClearsFuture(t *testing.T) {
	h := NewHistory(DefaultHistoryCap)
	s1 := New("proj", fixedTime)
	s2 := s1.Clone()
	s2.Entries = append(s2.Entries, Entry{ID: "b"})

	h.Push(s1)
	if _, ok := h.Undo(s2); !ok {
		t.Fatal("expected undo to succeed")
	}
	if !h.CanRedo() {
		t.Fatal("expected redo available before new mutation")
	}

	h.Push(s1)
	if h.CanRedo() {
		t.Fatal("a new mutation must clear the redo stack")
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(2)
	base := New("proj", fixedTime)

	for i := 0; i < 5; i++ {
		h.Push(base)
	}
	if len(h.past) != 2 {
		t.Fatalf("expected history capped at 2, got %d", len(h.past))
	}
}

var fixedTime = func() time.Time {
	t, err := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")
	if err != nil {
		panic(err)
	}
	return t
}()
