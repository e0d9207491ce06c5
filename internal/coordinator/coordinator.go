// Package coordinator implements the Recording Coordinator: it turns
// hotkey press/release events into correct, race-free recordings, guarded
// by a single atomic "at-most-one-recording" invariant.
package coordinator

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"pushtohold/internal/events"
	"pushtohold/internal/timeline"
	"pushtohold/internal/watcher"
)

// Session is the subset of capture.Session the coordinator drives. The
// output path is supplied to Start rather than baked into the session at
// pre-init time, because the path can only be resolved once a recording is
// actually starting. Pre-initialization must not be invalidated just
// because another clip was recorded meanwhile.
type Session interface {
	Start(outputPath string) error
	// Stop finalizes the recording and returns its wall-clock duration.
	Stop() (durationMs int64, err error)
}

// SessionProvider is the Pre-Init Manager's facade as seen by the
// coordinator.
type SessionProvider interface {
	// Acquire returns a session ready to Start(). wasReady reports whether
	// it came from the warm pre-initialized slot (the fast path) or had to
	// be built on demand (the slow path); latency is the time Acquire
	// itself took.
	Acquire() (session Session, wasReady bool, latency time.Duration, err error)
	// RequestReinitialize kicks off a fresh background pre-init so the
	// next press is fast again.
	RequestReinitialize()
}

// ProjectResolver answers "what is the current project", the one piece of
// state the coordinator needs from project management.
type ProjectResolver interface {
	CurrentProject() (dir string, name string, ok bool)
}

// ActivityTracker is notified on every successful recording, feeding the
// Pre-Init Manager's idle-timeout gate.
type ActivityTracker interface {
	Touch()
}

// Error codes surfaced via events.RecordingError.
const (
	ErrCodeProjectRequired     = "project-required"
	ErrCodeCaptureUnavailable  = "capture-unavailable"
	ErrCodeFinalizationFailed  = "finalization-failed"
	ErrCodeTimelineWriteFailed = "timeline-write-failed"
)

// SlowStartThreshold is the "slow start" budget: exceeding it during
// Acquire is not a failure, but logs a warning with the measured delay.
const SlowStartThreshold = 100 * time.Millisecond

// Coordinator implements the press/release handlers that turn a held
// hotkey into a recording.
type Coordinator struct {
	sessions SessionProvider
	projects ProjectResolver
	watcher  *watcher.Control
	bus      *events.Bus
	activity ActivityTracker

	isRecording atomic.Bool

	// active holds the in-flight session and its resolved output path
	// between a successful press and the matching release. It is only
	// ever written by the goroutine that won the press CAS, and read by
	// the one that wins the matching release CAS, so no extra locking is
	// needed beyond the CAS itself providing the handoff.
	active atomic.Pointer[activeRecording]
}

type activeRecording struct {
	session    Session
	outputPath string
	projectDir string
	project    string
}

// New creates a Coordinator. activity may be nil if idle-timeout tracking
// is not wired up.
func New(sessions SessionProvider, projects ProjectResolver, wc *watcher.Control, bus *events.Bus, activity ActivityTracker) *Coordinator {
	return &Coordinator{
		sessions: sessions,
		projects: projects,
		watcher:  wc,
		bus:      bus,
		activity: activity,
	}
}

// IsRecording reports the current value of the is_recording atomic.
func (c *Coordinator) IsRecording() bool { return c.isRecording.Load() }

// OnPress is the hotkey Pressed callback. Auto-repeated Pressed callbacks
// during an already-active recording are silently dropped by the CAS;
// this is the mechanism's only debounce.
func (c *Coordinator) OnPress() {
	if !c.isRecording.CompareAndSwap(false, true) {
		return
	}

	// Emit Recording immediately, never an intermediate "Preparing" state,
	// which could be overtaken by a later press's Recording event on rapid
	// re-press.
	c.bus.Emit(events.RecordingStatus, "recording")

	// Pause the watcher before anything touches the filesystem.
	c.watcher.Pause()

	// Resolve the current project.
	dir, project, ok := c.projects.CurrentProject()
	if !ok {
		c.watcher.Resume()
		c.isRecording.Store(false)
		c.bus.Emit(events.ProjectRequired, nil)
		return
	}

	// Acquire a session, fast path or slow path.
	session, wasReady, latency, err := c.sessions.Acquire()
	if err != nil {
		c.watcher.Resume()
		c.isRecording.Store(false)
		c.emitError(ErrCodeCaptureUnavailable, fmt.Sprintf("capture session unavailable: %v", err))
		return
	}
	if !wasReady {
		slog.Warn("pre-initialized capture session was not ready, used slow path",
			"measuredDelay", latency, "note", "this recording may be missing its first moments")
	} else if latency > SlowStartThreshold {
		slog.Warn("capture session acquisition exceeded the start budget",
			"measuredDelay", latency, "budget", SlowStartThreshold)
	}

	// Resolve the next output path.
	outputPath, err := NextOutputPath(dir)
	if err != nil {
		c.watcher.Resume()
		c.isRecording.Store(false)
		c.emitError(ErrCodeCaptureUnavailable, fmt.Sprintf("failed to resolve output path: %v", err))
		return
	}

	// Start the session.
	if err := session.Start(outputPath); err != nil {
		c.watcher.Resume()
		c.isRecording.Store(false)
		c.emitError(ErrCodeCaptureUnavailable, fmt.Sprintf("failed to start recording: %v", err))
		return
	}

	c.active.Store(&activeRecording{
		session:    session,
		outputPath: outputPath,
		projectDir: dir,
		project:    project,
	})
}

// OnRelease is the hotkey Released callback.
func (c *Coordinator) OnRelease() {
	if !c.isRecording.CompareAndSwap(true, false) {
		return
	}

	// Emit Idle immediately, before any finalization work. Any delay here
	// can be overtaken by the next press's Recording event.
	c.bus.Emit(events.RecordingStatus, "idle")

	rec := c.active.Swap(nil)
	if rec == nil {
		// Should not happen: a successful release CAS implies a prior
		// successful press CAS that always sets active. Fail safe rather
		// than leave the watcher paused forever.
		c.watcher.Resume()
		return
	}

	// Finalize on a background worker goroutine. finalize emits ClipSaved
	// before it resumes the watcher, but the bus delivers asynchronously:
	// Emit only enqueues, so subscribers may still be handling ClipSaved
	// when the watcher resumes.
	go c.finalize(rec)
}

func (c *Coordinator) finalize(rec *activeRecording) {
	durationMs, err := rec.session.Stop()
	if err != nil {
		c.watcher.Resume()
		c.emitError(ErrCodeFinalizationFailed, fmt.Sprintf("failed to finalize recording: %v", err))
		return
	}

	checksum, err := timeline.Checksum(rec.outputPath)
	if err != nil {
		slog.Warn("failed to checksum new recording", "path", rec.outputPath, "error", err)
	}

	entry := timeline.Entry{
		Filename:   baseName(rec.outputPath),
		RecordedAt: time.Now().Add(-time.Duration(durationMs) * time.Millisecond).UTC(),
		DurationMs: durationMs,
		Checksum:   checksum,
	}

	store := timeline.NewStore(rec.projectDir)
	if _, err := store.Append(entry); err != nil {
		c.watcher.Resume()
		c.emitError(ErrCodeTimelineWriteFailed, fmt.Sprintf("recording saved but timeline write failed: %v", err))
		return
	}

	// Emit ClipSaved before resuming the watcher, not after: the watcher
	// must never observe the in-progress file.
	c.bus.Emit(events.ClipSaved, events.ClipSavedPayload{
		Path:       rec.outputPath,
		DurationMs: durationMs,
	})

	c.watcher.Resume()

	// Kick off a fresh pre-init so the next press is fast again.
	c.sessions.RequestReinitialize()

	if c.activity != nil {
		c.activity.Touch()
	}
}

func (c *Coordinator) emitError(code, message string) {
	c.bus.Emit(events.RecordingStatus, "error")
	c.bus.Emit(events.RecordingError, events.ErrorPayload{Code: code, Message: message})
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
