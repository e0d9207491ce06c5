// Package watcher implements a pausable filesystem watcher: it observes
// external changes under the output root and emits filesystem-changed, but
// can be paused around a recording so that the in-progress write of the
// very file being recorded is never mistaken for an externally dropped
// clip. It is grounded in original_source/src-tauri/src/fs_watcher.rs,
// which uses the Rust `notify` crate the same way this uses its
// Go-ecosystem counterpart, fsnotify.
package watcher

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Control is the shared atomic pause gate: every Pause() on the hot path
// must be paired with a Resume() on all exit paths, including error.
type Control struct {
	enabled atomic.Bool
}

// NewControl returns a Control starting in the enabled state.
func NewControl() *Control {
	c := &Control{}
	c.enabled.Store(true)
	return c
}

// Pause stops event emission until Resume is called.
func (c *Control) Pause() { c.enabled.Store(false) }

// Resume re-enables event emission.
func (c *Control) Resume() { c.enabled.Store(true) }

// Enabled reports whether events are currently being emitted.
func (c *Control) Enabled() bool { return c.enabled.Load() }

var videoExtensions = map[string]bool{
	".mp4": true,
}

// Watcher watches an output root for new or removed clip files and project
// directories.
type Watcher struct {
	root    string
	control *Control
	onEvent func()

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string]bool

	done chan struct{}
}

// New creates a Watcher over root. onEvent is invoked (never with a
// payload, filesystem-changed carries none) whenever a relevant, unpaused
// change is observed. Start must be called to begin watching.
func New(root string, control *Control, onEvent func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:    root,
		control: control,
		onEvent: onEvent,
		fsw:     fsw,
		watched: make(map[string]bool),
		done:    make(chan struct{}),
	}
	return w, nil
}

// Start begins watching root and all of its existing project subdirectories,
// and launches the background event loop.
func (w *Watcher) Start() error {
	if err := w.addDir(w.root); err != nil {
		return err
	}

	entries, err := readDirSafe(w.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = w.addDir(filepath.Join(w.root, e.Name()))
		}
	}

	go w.loop()
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("filesystem watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	isDir := isDirEvent(event)
	if isDir && event.Op&(fsnotify.Create) != 0 {
		// A new project directory. Start watching it so its own clip
		// files are observed too.
		_ = w.addDir(event.Name)
	}

	relevant := isDir || isVideoFile(event.Name)
	if !relevant {
		return
	}

	if !w.control.Enabled() {
		// Paused: we still received the event from the OS but drop it
		// before emission.
		return
	}

	if w.onEvent != nil {
		w.onEvent()
	}
}

func isVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

func isDirEvent(event fsnotify.Event) bool {
	// fsnotify doesn't tell us whether the removed/renamed path was a
	// directory; for Create we can stat it, for Remove/Rename we treat an
	// extension-less path as a directory hint, matching the Rust original's
	// path.is_dir() heuristic as closely as a removed path allows.
	if event.Op&fsnotify.Create != 0 {
		return isDir(event.Name)
	}
	return filepath.Ext(event.Name) == ""
}
