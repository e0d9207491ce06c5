package engine

import (
	"fmt"
	"strings"

	"pushtohold/internal/app"
	"pushtohold/internal/capture"
	"pushtohold/internal/native/malgonative"
	"pushtohold/internal/timeline"
	"pushtohold/internal/utils"
)

// AudioDevice is the payload shape get_audio_devices returns.
type AudioDevice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	IsBuiltin bool   `json:"is_builtin"`
}

// AuthorizeCapture is a no-op: it neither requests nor checks OS
// screen-recording permission. On the platforms that require consent
// (darwin) the OS asks when ffmpeg first attempts a capture; nothing in the
// capture path produces the permission-denied error code.
func (e *Engine) AuthorizeCapture() error {
	return nil
}

// ClearCaptureRegion clears any selected region, falling back to full
// screen, and triggers a pre-init rebuild.
func (e *Engine) ClearCaptureRegion() error {
	e.region = nil
	e.cfg.Region = nil
	if err := app.Save(e.cfg); err != nil {
		return fmt.Errorf("failed to persist capture region: %w", err)
	}
	e.rebuildPreInit()
	return nil
}

// SetCaptureRegion selects a capture region and triggers a pre-init
// rebuild.
func (e *Engine) SetCaptureRegion(x, y, w, h int) error {
	region := &capture.Region{X: x, Y: y, Width: w, Height: h}
	e.region = region
	e.cfg.Region = region
	if err := app.Save(e.cfg); err != nil {
		return fmt.Errorf("failed to persist capture region: %w", err)
	}
	e.rebuildPreInit()
	return nil
}

// CreateProject creates (but does not select) a project directory.
func (e *Engine) CreateProject(name string) error {
	return e.projects.Create(name)
}

// GetProjects lists every project under the output root.
func (e *Engine) GetProjects() ([]string, error) {
	return e.projects.List()
}

// GetCurrentProject returns the selected project's name, if any.
func (e *Engine) GetCurrentProject() (string, bool) {
	return e.projects.Current()
}

// SetCurrentProject selects the current project, persists the selection,
// and triggers a pre-init rebuild.
func (e *Engine) SetCurrentProject(name string) error {
	if err := e.projects.SetCurrent(name); err != nil {
		return err
	}
	e.cfg.CurrentProject = name
	if err := app.Save(e.cfg); err != nil {
		return fmt.Errorf("failed to persist current project: %w", err)
	}
	e.rebuildPreInit()
	return nil
}

// GetAudioDevices enumerates the system's microphone devices. The first
// device malgo reports is treated as the system default, matching the
// convention most platform audio APIs use of listing the default device
// first.
func (e *Engine) GetAudioDevices() ([]AudioDevice, error) {
	devices, err := malgonative.ListInputDevices()
	if err != nil {
		return nil, err
	}

	out := make([]AudioDevice, 0, len(devices))
	for i, d := range devices {
		out = append(out, AudioDevice{
			ID:        d.ID,
			Name:      d.Name,
			IsDefault: i == 0,
			IsBuiltin: strings.Contains(strings.ToLower(d.Name), "built-in"),
		})
	}
	return out, nil
}

// SetAudioDevice selects the microphone device used by future recordings
// and triggers a pre-init rebuild.
func (e *Engine) SetAudioDevice(deviceID string) error {
	e.cfg.MicrophoneDeviceID = deviceID
	if err := app.Save(e.cfg); err != nil {
		return fmt.Errorf("failed to persist audio device: %w", err)
	}
	e.rebuildPreInit()
	return nil
}

// GetOutputFolder returns the current output root.
func (e *Engine) GetOutputFolder() string {
	return e.projects.Root()
}

// SetOutputFolder changes the output root, clearing the current project
// selection (a project name only means something relative to its root),
// and triggers a pre-init rebuild.
func (e *Engine) SetOutputFolder(path string) error {
	if err := e.projects.SetRoot(path); err != nil {
		return err
	}
	e.cfg.OutputRoot = path
	e.cfg.CurrentProject = ""
	if err := app.Save(e.cfg); err != nil {
		return fmt.Errorf("failed to persist output folder: %w", err)
	}
	e.rebuildPreInit()
	return nil
}

// GetProjectTimeline loads a project's timeline.json.
func (e *Engine) GetProjectTimeline(projectName string) (*timeline.Timeline, error) {
	store := timeline.NewStore(e.projects.Dir(projectName))
	return store.Load()
}

// SaveProjectTimeline overwrites a project's timeline.json, used by the
// reorder and label-edit flows that rewrite the whole entry sequence.
func (e *Engine) SaveProjectTimeline(projectName string, t *timeline.Timeline) error {
	store := timeline.NewStore(e.projects.Dir(projectName))
	return store.Replace(t)
}

// ReconcileProjectTimeline cross-checks a project's directory against its
// timeline and returns the number of newly promoted (orphaned) entries.
func (e *Engine) ReconcileProjectTimeline(projectName string) (int, error) {
	store := timeline.NewStore(e.projects.Dir(projectName))
	return timeline.Reconcile(store, e.projects.Dir(projectName))
}

// SetMicEnabled toggles microphone capture and triggers a pre-init
// rebuild.
func (e *Engine) SetMicEnabled(enabled bool) error {
	e.cfg.MicEnabled = enabled
	if err := app.Save(e.cfg); err != nil {
		return fmt.Errorf("failed to persist mic setting: %w", err)
	}
	e.rebuildPreInit()
	return nil
}

// GetPreInitStatus reports the Pre-Init Manager's current state.
func (e *Engine) GetPreInitStatus() string {
	return e.preinit.State()
}

// TogglePreInit flips the Pre-Init Manager between NotInitialized and
// Ready, for explicit user control over standby resource usage.
func (e *Engine) TogglePreInit() {
	e.preinit.Toggle()
}

// UpdateActivity records user activity, gating the idle-timeout shutdown.
func (e *Engine) UpdateActivity() {
	e.preinit.Touch()
}

// OpenFile opens a file with the OS's default handler.
func (e *Engine) OpenFile(path string) error {
	return utils.OpenPath(path)
}

// OpenFolder opens a folder in the OS's file browser.
func (e *Engine) OpenFolder(path string) error {
	return utils.OpenPath(path)
}

// RegionSelectorState is the narrow state open_region_selector /
// close_region_selector track. The overlay UI itself is out of scope; the
// daemon only remembers the aspect ratio hint a future overlay would need
// to redraw itself.
type RegionSelectorState struct {
	Open          bool
	AspectRatio   string
	ScaleToPreset bool
}

// OpenRegionSelector records that a region-selection overlay session has
// started. The overlay itself is drawn by a UI shell; this command only
// tracks the state a shell would need to redraw it.
func (e *Engine) OpenRegionSelector(aspectRatio string, scaleToPreset bool) {
	e.regionSelector = RegionSelectorState{Open: true, AspectRatio: aspectRatio, ScaleToPreset: scaleToPreset}
}

// CloseRegionSelector ends the region-selection overlay session.
func (e *Engine) CloseRegionSelector() {
	e.regionSelector = RegionSelectorState{}
}
