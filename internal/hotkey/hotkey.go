// Package hotkey wraps an external global-hotkey provider: it delivers
// Pressed/Released callbacks for a held key combination and nothing else.
// Registration, platform key codes, and the raw event loop are the
// library's concern, not the capture engine's. This uses
// github.com/robotn/gohook, already present in the teacher's go.mod but
// unused in the retrieved snapshot; gohook is cross-platform where the
// teacher's own internal/input (Windows RegisterHotKey via syscall) was
// not, so it is the better fit for press/hold semantics.
package hotkey

import (
	"log/slog"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// Combo is a chord of key names as gohook spells them (lowercase, e.g.
// "r", "shift", "ctrl", "cmd").
type Combo []string

// DefaultCombo is "command/control + shift + R", the platform-conventional
// binding for this hold-to-record behavior.
func DefaultCombo() Combo {
	return Combo{"ctrl", "shift", "r"}
}

// Manager registers one press-and-hold combo and delivers Pressed/Released
// callbacks for it. It does not itself debounce auto-repeat, that is the
// Recording Coordinator's job via its is_recording CAS; it only forwards
// what the OS reports.
type Manager struct {
	combo    Combo
	Pressed  func()
	Released func()

	mu      sync.Mutex
	started bool
}

// New creates a Manager for combo. Pressed and Released should be set
// before calling Start.
func New(combo Combo) *Manager {
	return &Manager{combo: combo}
}

// Start registers the combo and begins the gohook event loop on a
// background goroutine. It returns once registration has been issued;
// gohook's own startup is asynchronous.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}

	hook.Register(hook.KeyDown, m.combo, func(e hook.Event) {
		if m.Pressed != nil {
			m.Pressed()
		}
	})

	// Released fires on release of the bare key (without requiring the
	// modifiers still be held, since releasing shift/ctrl first is a
	// common real-world sequence and must still end the recording).
	releaseKey := m.combo[len(m.combo)-1]
	hook.Register(hook.KeyUp, []string{releaseKey}, func(e hook.Event) {
		if m.Released != nil {
			m.Released()
		}
	})

	s := hook.Start()
	m.started = true

	go func() {
		<-hook.Process(s)
		slog.Info("hotkey event loop stopped")
	}()

	slog.Info("registered global hotkey", "combo", strings.Join(m.combo, "+"))
	return nil
}

// Stop unregisters the combo and ends the gohook event loop.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	hook.End()
	m.started = false
}
