package coordinator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pushtohold/internal/events"
	"pushtohold/internal/timeline"
	"pushtohold/internal/watcher"
)

type fakeSession struct {
	startErr error
	stopErr  error
	duration int64
	started  bool
	stopped  bool
	outPath  string
}

func (f *fakeSession) Start(outputPath string) error {
	f.outPath = outputPath
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeSession) Stop() (int64, error) {
	f.stopped = true
	if f.stopErr != nil {
		return 0, f.stopErr
	}
	return f.duration, nil
}

type fakeProvider struct {
	session       *fakeSession
	acquireErr    error
	reinitialized int
	acquires      int
}

func (p *fakeProvider) Acquire() (Session, bool, time.Duration, error) {
	p.acquires++
	if p.acquireErr != nil {
		return nil, false, 0, p.acquireErr
	}
	return p.session, true, 5 * time.Millisecond, nil
}

func (p *fakeProvider) RequestReinitialize() { p.reinitialized++ }

type fakeProjects struct {
	dir     string
	project string
	ok      bool
}

func (p *fakeProjects) CurrentProject() (string, string, bool) {
	return p.dir, p.project, p.ok
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPressReleaseHappyPath(t *testing.T) {
	dir := t.TempDir()
	session := &fakeSession{duration: 2500}
	provider := &fakeProvider{session: session}
	projects := &fakeProjects{dir: dir, project: "demo", ok: true}
	wc := watcher.NewControl()
	bus := events.NewBus()

	var statuses []string
	bus.Subscribe(events.RecordingStatus, func(p any) { statuses = append(statuses, p.(string)) })
	clipSaved := make(chan events.ClipSavedPayload, 1)
	bus.Subscribe(events.ClipSaved, func(p any) { clipSaved <- p.(events.ClipSavedPayload) })

	c := New(provider, projects, wc, bus, nil)

	c.OnPress()
	if !c.IsRecording() {
		t.Fatal("expected IsRecording true after press")
	}
	if wc.Enabled() {
		t.Fatal("expected watcher paused while recording")
	}
	if !session.started {
		t.Fatal("expected session.Start to have been called")
	}

	c.OnRelease()
	if c.IsRecording() {
		t.Fatal("expected IsRecording false immediately after release")
	}

	select {
	case saved := <-clipSaved:
		if saved.DurationMs != 2500 {
			t.Fatalf("unexpected duration: %d", saved.DurationMs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected ClipSaved event")
	}

	waitFor(t, func() bool { return wc.Enabled() })
	waitFor(t, func() bool { return provider.reinitialized == 1 })

	store := timeline.NewStore(dir)
	tl, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Entries) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(tl.Entries))
	}
	if tl.Entries[0].Filename != "recording-1.mp4" {
		t.Fatalf("unexpected filename: %s", tl.Entries[0].Filename)
	}

	if len(statuses) < 2 || statuses[0] != "recording" || statuses[1] != "idle" {
		t.Fatalf("unexpected status sequence: %v", statuses)
	}
}

func TestPressWithoutProjectEmitsProjectRequired(t *testing.T) {
	provider := &fakeProvider{session: &fakeSession{}}
	projects := &fakeProjects{ok: false}
	wc := watcher.NewControl()
	bus := events.NewBus()

	got := make(chan struct{}, 1)
	bus.Subscribe(events.ProjectRequired, func(any) { got <- struct{}{} })

	c := New(provider, projects, wc, bus, nil)
	c.OnPress()

	if c.IsRecording() {
		t.Fatal("expected is_recording to be rolled back to false")
	}
	if !wc.Enabled() {
		t.Fatal("expected watcher resumed after rollback")
	}

	select {
	case <-got:
	case <-time.After(1 * time.Second):
		t.Fatal("expected ProjectRequired event")
	}
}

func TestRepeatedPressIsDebounced(t *testing.T) {
	dir := t.TempDir()
	session := &fakeSession{duration: 1000}
	provider := &fakeProvider{session: session}
	projects := &fakeProjects{dir: dir, project: "demo", ok: true}
	wc := watcher.NewControl()
	bus := events.NewBus()

	c := New(provider, projects, wc, bus, nil)
	c.OnPress()
	c.OnPress() // simulated auto-repeat
	c.OnPress()

	if !session.started {
		t.Fatal("expected session started once")
	}
	if provider.acquires != 1 {
		t.Fatalf("expected repeated presses to acquire one session, got %d", provider.acquires)
	}
	c.OnRelease()
	c.OnRelease() // simulated repeat release
}

func TestStartFailureResumesWatcherAndEmitsError(t *testing.T) {
	dir := t.TempDir()
	session := &fakeSession{startErr: errors.New("device busy")}
	provider := &fakeProvider{session: session}
	projects := &fakeProjects{dir: dir, project: "demo", ok: true}
	wc := watcher.NewControl()
	bus := events.NewBus()

	errs := make(chan events.ErrorPayload, 1)
	bus.Subscribe(events.RecordingError, func(p any) { errs <- p.(events.ErrorPayload) })

	c := New(provider, projects, wc, bus, nil)
	c.OnPress()

	if c.IsRecording() {
		t.Fatal("expected is_recording false after start failure")
	}
	if !wc.Enabled() {
		t.Fatal("expected watcher resumed after start failure")
	}

	select {
	case e := <-errs:
		if e.Code != ErrCodeCaptureUnavailable {
			t.Fatalf("unexpected error code: %s", e.Code)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("expected RecordingError event")
	}
}

func TestOutputPathsPreserveExistingNumbering(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "recording-1.mp4"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	session := &fakeSession{duration: 500}
	provider := &fakeProvider{session: session}
	projects := &fakeProjects{dir: dir, project: "demo", ok: true}
	wc := watcher.NewControl()
	bus := events.NewBus()

	c := New(provider, projects, wc, bus, nil)
	c.OnPress()
	if filepath.Base(session.outPath) != "recording-2.mp4" {
		t.Fatalf("expected recording-2.mp4, got %s", session.outPath)
	}
	c.OnRelease()
}
