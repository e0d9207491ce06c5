package capture

import (
	"log/slog"
	"sync"
	"time"
)

// preInitState is the pre-initialization state machine.
type preInitState int

const (
	stateNotInitialized preInitState = iota
	stateInitializing
	stateReady
	stateShuttingDown
)

func (s preInitState) String() string {
	switch s {
	case stateNotInitialized:
		return "NotInitialized"
	case stateInitializing:
		return "Initializing"
	case stateReady:
		return "Ready"
	case stateShuttingDown:
		return "ShuttingDown"
	default:
		return "Unknown"
	}
}

// SessionFactory builds a pre-initialized Session for cfg. It is supplied
// by the engine wiring layer, which knows how to construct the concrete
// internal/native backends (ffmpegnative, malgonative) for the current
// platform and detected hardware.
type SessionFactory func(cfg RecordingConfig) (*Session, error)

// DefaultIdleTimeout is the Pre-Init Manager's idle-timeout auto-shutdown
// default, configurable with a sane default in the 2-5 minute range.
const DefaultIdleTimeout = 3 * time.Minute

// PreInitManager keeps one CaptureSession "warm" so a hotkey press is
// fast, tearing it down on configuration change, idle timeout, or
// explicit shutdown.
type PreInitManager struct {
	factory     SessionFactory
	idleTimeout time.Duration

	mu           sync.Mutex
	state        preInitState
	cfg          RecordingConfig
	cfgSet       bool
	session      *Session
	lastActivity time.Time
	generation   int

	stopIdleWatcher chan struct{}
}

// NewPreInitManager creates a manager in state NotInitialized.
func NewPreInitManager(factory SessionFactory, idleTimeout time.Duration) *PreInitManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	m := &PreInitManager{
		factory:     factory,
		idleTimeout: idleTimeout,
	}
	m.startIdleWatcher()
	return m
}

// Touch records user activity, gating the idle-timeout shutdown.
func (m *PreInitManager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
}

func (m *PreInitManager) startIdleWatcher() {
	m.stopIdleWatcher = make(chan struct{})
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-m.stopIdleWatcher:
				return
			case <-ticker.C:
				m.checkIdle()
			}
		}
	}()
}

func (m *PreInitManager) checkIdle() {
	m.mu.Lock()
	idle := m.state == stateReady && time.Since(m.lastActivity) > m.idleTimeout
	m.mu.Unlock()
	if idle {
		slog.Info("pre-init manager shutting down after idle timeout", "timeout", m.idleTimeout)
		m.Shutdown()
	}
}

// StopIdleWatcher halts the background idle ticker, for clean process
// shutdown.
func (m *PreInitManager) StopIdleWatcher() {
	m.mu.Lock()
	ch := m.stopIdleWatcher
	m.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// SetConfig updates the recording configuration. Every field participates
// in the rebuild key, so any change at all tears down a held session and
// kicks off a fresh Initialize.
func (m *PreInitManager) SetConfig(cfg RecordingConfig) {
	m.mu.Lock()
	changed := !m.cfgSet || m.cfg.key() != cfg.key()
	m.cfg = cfg
	m.cfgSet = true
	m.mu.Unlock()

	if changed {
		m.Shutdown()
		go m.Initialize()
	}
}

// Initialize transitions toward Ready: a no-op in Ready, idempotent in
// Initializing (by virtue of the mutex serializing callers), and queued
// after ShuttingDown completes.
func (m *PreInitManager) Initialize() error {
	m.mu.Lock()
	if m.state == stateReady {
		m.mu.Unlock()
		return nil
	}
	if m.state == stateShuttingDown {
		// Wait for the in-progress teardown to land on NotInitialized.
		m.mu.Unlock()
		for {
			time.Sleep(10 * time.Millisecond)
			m.mu.Lock()
			if m.state != stateShuttingDown {
				break
			}
			m.mu.Unlock()
		}
	}
	if m.state != stateNotInitialized {
		m.mu.Unlock()
		return nil
	}
	m.state = stateInitializing
	cfg := m.cfg
	gen := m.generation
	m.mu.Unlock()

	session, err := m.factory(cfg)
	if err != nil {
		m.mu.Lock()
		if m.generation == gen {
			m.state = stateNotInitialized
		}
		m.mu.Unlock()
		slog.Error("pre-init failed", "error", err)
		return newError(ErrCaptureUnavailable, "pre-initialization failed", err)
	}

	if err := session.PreInitialize(); err != nil {
		m.mu.Lock()
		if m.generation == gen {
			m.state = stateNotInitialized
		}
		m.mu.Unlock()
		slog.Error("pre-init failed", "error", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		// A shutdown/reinit raced us; discard this session rather than
		// leaking it into a slot nobody will acquire.
		session.Close()
		return nil
	}
	m.session = session
	m.state = stateReady
	m.lastActivity = time.Now()
	return nil
}

// Shutdown tears down any held session and returns to NotInitialized.
func (m *PreInitManager) Shutdown() {
	m.mu.Lock()
	if m.state == stateNotInitialized {
		m.mu.Unlock()
		return
	}
	m.state = stateShuttingDown
	session := m.session
	m.session = nil
	m.generation++
	m.mu.Unlock()

	if session != nil {
		session.Close()
	}

	m.mu.Lock()
	m.state = stateNotInitialized
	m.mu.Unlock()
}

// Toggle flips between NotInitialized and Ready for explicit user
// control.
func (m *PreInitManager) Toggle() {
	m.mu.Lock()
	ready := m.state == stateReady
	m.mu.Unlock()
	if ready {
		m.Shutdown()
	} else {
		go m.Initialize()
	}
}

// Acquire takes the pre-initialized session out of the slot (fast path)
// or builds one on demand (slow path), reporting which happened and how
// long it took. Its signature matches coordinator.SessionProvider
// structurally; internal/engine adapts it with a small wrapper since
// *Session, not the coordinator.Session interface, is the concrete return
// type (capture must not import coordinator).
func (m *PreInitManager) Acquire() (*Session, bool, time.Duration, error) {
	start := time.Now()

	m.mu.Lock()
	if m.state == stateReady && m.session != nil {
		session := m.session
		m.session = nil
		m.state = stateNotInitialized
		m.mu.Unlock()
		return session, true, time.Since(start), nil
	}
	cfg := m.cfg
	m.mu.Unlock()

	session, err := m.factory(cfg)
	if err != nil {
		return nil, false, time.Since(start), newError(ErrCaptureUnavailable, "slow-path session build failed", err)
	}
	if err := session.PreInitialize(); err != nil {
		return nil, false, time.Since(start), err
	}

	return session, false, time.Since(start), nil
}

// RequestReinitialize kicks off a fresh background Initialize so the next
// press is fast again.
func (m *PreInitManager) RequestReinitialize() {
	go func() {
		if err := m.Initialize(); err != nil {
			slog.Error("background reinitialize failed", "error", err)
		}
	}()
}

// State reports the manager's current PreInitState, for diagnostics and
// the get_pre_init_status command.
func (m *PreInitManager) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.String()
}

