package engine

import (
	"fmt"
	"time"

	"pushtohold/internal/app"
	"pushtohold/internal/capture"
	"pushtohold/internal/coordinator"
	"pushtohold/internal/events"
	"pushtohold/internal/hardware"
	"pushtohold/internal/hotkey"
	"pushtohold/internal/project"
	"pushtohold/internal/watcher"
)

// Engine wires every component into the facade a UI shell (or
// cmd/pushtoholdd's systray-only shell) drives, matching the role the
// teacher's internal/app.App played for its Wails bindings.
type Engine struct {
	Bus *events.Bus

	cfg     app.Config
	sysInfo *hardware.SystemInfo

	projects    *project.Manager
	preinit     *capture.PreInitManager
	coordinator *coordinator.Coordinator
	watcher     *watcher.Watcher
	watcherCtl  *watcher.Control
	hotkeyMgr   *hotkey.Manager

	region         *capture.Region
	regionSelector RegionSelectorState
}

// New assembles the Engine from a loaded AmbientConfig and a one-time
// hardware detection result. It does not yet register the hotkey or start
// watching the filesystem, call Start for that.
func New(cfg app.Config, sysInfo *hardware.SystemInfo) (*Engine, error) {
	projects, err := project.New(cfg.OutputRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize project manager: %w", err)
	}
	if cfg.CurrentProject != "" {
		_ = projects.SetCurrent(cfg.CurrentProject)
	}

	bus := events.NewBus()
	watcherCtl := watcher.NewControl()

	idleTimeout := time.Duration(cfg.IdleTimeoutMinutes) * time.Minute
	preinit := capture.NewPreInitManager(newSessionFactory(sysInfo), idleTimeout)

	w, err := watcher.New(cfg.OutputRoot, watcherCtl, func() {
		bus.Emit(events.FilesystemChanged, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filesystem watcher: %w", err)
	}

	e := &Engine{
		Bus:        bus,
		cfg:        cfg,
		sysInfo:    sysInfo,
		projects:   projects,
		preinit:    preinit,
		watcher:    w,
		watcherCtl: watcherCtl,
		region:     cfg.Region,
	}

	e.coordinator = coordinator.New(newPreInitAdapter(preinit), projects, watcherCtl, bus, preinitActivityAdapter{preinit})

	combo := hotkey.DefaultCombo()
	if len(cfg.HotkeyCombo) > 0 {
		combo = hotkey.Combo(cfg.HotkeyCombo)
	}
	e.hotkeyMgr = hotkey.New(combo)
	e.hotkeyMgr.Pressed = e.coordinator.OnPress
	e.hotkeyMgr.Released = e.coordinator.OnRelease

	e.rebuildPreInit()

	return e, nil
}

// preinitActivityAdapter satisfies coordinator.ActivityTracker by
// forwarding to PreInitManager.Touch, which gates the idle-timeout.
type preinitActivityAdapter struct{ m *capture.PreInitManager }

func (a preinitActivityAdapter) Touch() { a.m.Touch() }

// Start begins filesystem watching and registers the global hotkey. The
// first pre-initialization is already kicked off by New.
func (e *Engine) Start() error {
	if err := e.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start filesystem watcher: %w", err)
	}
	if err := e.hotkeyMgr.Start(); err != nil {
		return fmt.Errorf("failed to register hotkey: %w", err)
	}
	return nil
}

// Close tears down the hotkey, watcher, and any pre-initialized session.
func (e *Engine) Close() {
	e.hotkeyMgr.Stop()
	_ = e.watcher.Close()
	e.preinit.StopIdleWatcher()
	e.preinit.Shutdown()
}

// rebuildPreInit pushes the current AmbientConfig and region selection
// into the Pre-Init Manager. Every command that changes recording
// settings calls this after updating state.
func (e *Engine) rebuildPreInit() {
	defaults := capture.DefaultRecordingConfig()
	rc := e.cfg.RecordingConfig(defaults.Width, defaults.Height, defaults.FPS, defaults.Quality)
	rc.Region = e.region
	e.preinit.SetConfig(rc)
}
