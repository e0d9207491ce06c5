package timeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	t1, err := store.Append(Entry{Filename: "recording-1.mp4", DurationMs: 3000, RecordedAt: time.Now()})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(t1.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(t1.Entries))
	}
	if t1.Entries[0].ID == "" {
		t.Fatal("expected generated ID")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Entries) != 1 || loaded.Entries[0].Filename != "recording-1.mp4" {
		t.Fatalf("unexpected loaded timeline: %+v", loaded)
	}
}

func TestSoftDeleteHidesFromVisibleButKeepsInFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	t1, _ := store.Append(Entry{Filename: "recording-1.mp4"})
	id := t1.Entries[0].ID

	t2, err := store.SoftDelete(id)
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if len(t2.Entries) != 1 {
		t.Fatalf("soft delete must not remove the entry from storage")
	}
	if !t2.Entries[0].Deleted || t2.Entries[0].DeletedAt == nil {
		t.Fatalf("expected deleted marker set")
	}
	if len(t2.Visible()) != 0 {
		t.Fatalf("deleted entry must not appear in Visible()")
	}
}

func TestSaveIsAtomicRename(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if _, err := store.Append(Entry{Filename: "recording-1.mp4"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "timeline.json" {
			t.Fatalf("leftover temp file after save: %s", e.Name())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "timeline.json")); err != nil {
		t.Fatalf("expected timeline.json to exist: %v", err)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	writeFile(t, dir, "recording-1.mp4", "hello world")
	writeFile(t, dir, "recording-2.mp4", "goodbye world")

	n1, err := Reconcile(store, dir)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if n1 != 2 {
		t.Fatalf("expected 2 promotions, got %d", n1)
	}

	n2, err := Reconcile(store, dir)
	if err != nil {
		t.Fatalf("Reconcile (2nd): %v", err)
	}
	if n2 != 0 {
		t.Fatalf("second reconcile should promote nothing, got %d", n2)
	}

	tl, _ := store.Load()
	if len(tl.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tl.Entries))
	}
}

func TestReconcileDetectsRename(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	writeFile(t, dir, "recording-2.mp4", "clip contents")
	if _, err := Reconcile(store, dir); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	tl, _ := store.Load()
	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 entry before rename")
	}
	tl.Entries[0].Label = "My Clip"
	tl.Entries[0].DurationMs = 5000
	before := tl.Entries[0]
	if err := store.Replace(tl); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if err := os.Rename(filepath.Join(dir, "recording-2.mp4"), filepath.Join(dir, "demo.mp4")); err != nil {
		t.Fatal(err)
	}

	n, err := Reconcile(store, dir)
	if err != nil {
		t.Fatalf("Reconcile after rename: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no promotions (a rename relinks the existing entry), got %d", n)
	}

	after, _ := store.Load()
	if len(after.Entries) != 1 {
		t.Fatalf("rename must not create a new entry, got %d entries", len(after.Entries))
	}
	got := after.Entries[0]
	if got.Filename != "demo.mp4" {
		t.Fatalf("expected filename updated to demo.mp4, got %s", got.Filename)
	}
	if got.ID != before.ID || got.Label != before.Label || got.DurationMs != before.DurationMs {
		t.Fatalf("rename must preserve id/label/duration, got %+v want id=%s label=%s dur=%d",
			got, before.ID, before.Label, before.DurationMs)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
