// Package app implements AmbientConfig, the narrow user-settings document
// the daemon persists: it has no settings UI of its own, but still needs
// somewhere to keep the handful of fields a future UI shell would
// otherwise own. It is grounded in the teacher's
// internal/app/config.go load/save pair (encoding/json, atomic rename),
// generalized from the teacher's single OutputDir field to every field a
// pre-init rebuild depends on.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pushtohold/internal/capture"
	"pushtohold/internal/utils"
)

const configFileName = "settings.json"

// Config is AmbientConfig: the persisted subset of RecordingConfig plus
// the bits the daemon itself needs to remember (current project, idle
// timeout, hotkey combo).
type Config struct {
	OutputRoot         string          `json:"outputRoot"`
	CurrentProject     string          `json:"currentProject"`
	MicEnabled         bool            `json:"micEnabled"`
	MicrophoneDeviceID string          `json:"microphoneDeviceId"`
	CaptureCursor      bool            `json:"captureCursor"`
	DisplayID          string          `json:"displayId"`
	Region             *capture.Region `json:"region,omitempty"`
	IdleTimeoutMinutes int             `json:"idleTimeoutMinutes"`
	HotkeyCombo        []string        `json:"hotkeyCombo,omitempty"`
}

// Default returns the out-of-the-box AmbientConfig: primary display,
// cursor captured, mic disabled, no project selected yet.
func Default() Config {
	root, err := utils.DefaultOutputRoot()
	if err != nil {
		root = "."
	}
	return Config{
		OutputRoot:         root,
		CaptureCursor:      true,
		IdleTimeoutMinutes: int(capture.DefaultIdleTimeout.Minutes()),
	}
}

func configPath() (string, error) {
	dir, err := utils.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads AmbientConfig from its on-disk location, returning Default()
// if no file exists yet.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		slog.Warn("failed to resolve config path, using defaults", "error", err)
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("failed to parse config file, using defaults", "error", err)
		return Default(), nil
	}
	return cfg, nil
}

// Save atomically persists cfg (temp file + rename, matching the teacher's
// pattern and internal/timeline.Store's write discipline).
func Save(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	slog.Info("config saved", "path", path)
	return nil
}

// RecordingConfig builds a capture.RecordingConfig from the persisted
// settings, for the engine's pre-init rebuild.
func (c Config) RecordingConfig(width, height, fps, quality int) capture.RecordingConfig {
	return capture.RecordingConfig{
		OutputDir:          filepath.Join(c.OutputRoot, c.CurrentProject),
		Width:              width,
		Height:             height,
		FPS:                fps,
		Quality:            quality,
		CaptureCursor:      c.CaptureCursor,
		CaptureMicrophone:  c.MicEnabled,
		MicrophoneDeviceID: c.MicrophoneDeviceID,
		DisplayID:          c.DisplayID,
		Region:             c.Region,
	}
}
