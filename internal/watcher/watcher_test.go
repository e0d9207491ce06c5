package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestControlStartsEnabled(t *testing.T) {
	c := NewControl()
	if !c.Enabled() {
		t.Fatal("expected a new Control to start enabled")
	}
	c.Pause()
	if c.Enabled() {
		t.Fatal("expected Pause to disable")
	}
	c.Resume()
	if !c.Enabled() {
		t.Fatal("expected Resume to re-enable")
	}
}

func TestWatcherDropsEventsWhilePaused(t *testing.T) {
	dir := t.TempDir()
	control := NewControl()

	events := make(chan struct{}, 16)
	w, err := New(dir, control, func() { events <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	control.Pause()
	writeFile(t, dir, "recording-1.mp4")

	select {
	case <-events:
		t.Fatal("expected no event while watcher is paused")
	case <-time.After(300 * time.Millisecond):
	}

	control.Resume()
	writeFile(t, dir, "recording-2.mp4")

	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an event after resume")
	}
}

func TestWatcherIgnoresNonVideoFiles(t *testing.T) {
	dir := t.TempDir()
	control := NewControl()

	events := make(chan struct{}, 16)
	w, err := New(dir, control, func() { events <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, dir, "notes.txt")

	select {
	case <-events:
		t.Fatal("expected non-video file changes to be ignored")
	case <-time.After(300 * time.Millisecond):
	}
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}
