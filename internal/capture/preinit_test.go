package capture

import (
	"errors"
	"testing"
	"time"
)

func newFakeFactory() (SessionFactory, *int) {
	calls := 0
	factory := func(cfg RecordingConfig) (*Session, error) {
		calls++
		return NewSession(cfg, &fakeVideoStream{}, nil, &fakeMuxer{}), nil
	}
	return factory, &calls
}

func waitForState(t *testing.T, m *PreInitManager, want string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, got %s", want, m.State())
}

func TestInitializeReachesReady(t *testing.T) {
	factory, _ := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if m.State() != "Ready" {
		t.Fatalf("expected Ready, got %s", m.State())
	}
}

func TestInitializeIsNoopWhenAlreadyReady(t *testing.T) {
	factory, calls := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := m.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("expected factory called once, got %d", *calls)
	}
}

func TestInitializeFailurePropagatesAndResetsState(t *testing.T) {
	factory := func(cfg RecordingConfig) (*Session, error) {
		return nil, errors.New("no capture device")
	}
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	err := m.Initialize()
	if err == nil {
		t.Fatal("expected Initialize to fail")
	}
	if m.State() != "NotInitialized" {
		t.Fatalf("expected NotInitialized after failure, got %s", m.State())
	}
}

func TestShutdownReturnsToNotInitialized(t *testing.T) {
	factory, _ := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	_ = m.Initialize()
	m.Shutdown()
	if m.State() != "NotInitialized" {
		t.Fatalf("expected NotInitialized after shutdown, got %s", m.State())
	}
}

func TestSetConfigChangeRebuildsSession(t *testing.T) {
	factory, calls := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	cfg := DefaultRecordingConfig()
	m.SetConfig(cfg)
	waitForState(t, m, "Ready")
	if *calls != 1 {
		t.Fatalf("expected 1 build after first SetConfig, got %d", *calls)
	}

	cfg.Width = 1280
	cfg.Height = 720
	m.SetConfig(cfg)
	waitForState(t, m, "Ready")
	if *calls != 2 {
		t.Fatalf("expected rebuild on config change, got %d calls", *calls)
	}
}

func TestSetConfigNoChangeDoesNotRebuild(t *testing.T) {
	factory, calls := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	cfg := DefaultRecordingConfig()
	m.SetConfig(cfg)
	waitForState(t, m, "Ready")

	m.SetConfig(cfg)
	time.Sleep(50 * time.Millisecond)
	if *calls != 1 {
		t.Fatalf("expected no rebuild for identical config, got %d calls", *calls)
	}
}

func TestAcquireFastPathTakesReadySession(t *testing.T) {
	factory, calls := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	_ = m.Initialize()
	session, fast, _, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !fast {
		t.Fatal("expected fast path when a session is Ready")
	}
	if session == nil {
		t.Fatal("expected non-nil session")
	}
	if m.State() != "NotInitialized" {
		t.Fatalf("expected manager emptied to NotInitialized after acquire, got %s", m.State())
	}
	if *calls != 1 {
		t.Fatalf("expected exactly one factory call, got %d", *calls)
	}
}

func TestAcquireSlowPathBuildsOnDemand(t *testing.T) {
	factory, calls := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	session, fast, _, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if fast {
		t.Fatal("expected slow path when no session is pre-initialized")
	}
	if session == nil {
		t.Fatal("expected non-nil session from slow path")
	}
	if *calls != 1 {
		t.Fatalf("expected exactly one factory call, got %d", *calls)
	}
}

func TestToggleFlipsBetweenReadyAndNotInitialized(t *testing.T) {
	factory, _ := newFakeFactory()
	m := NewPreInitManager(factory, time.Hour)
	defer m.StopIdleWatcher()

	m.Toggle()
	waitForState(t, m, "Ready")

	m.Toggle()
	if m.State() != "NotInitialized" {
		t.Fatalf("expected NotInitialized after second toggle, got %s", m.State())
	}
}
