// Package system assembles the detected hardware (internal/hardware) into
// a RecordingConfig ready for internal/capture, the same role the
// teacher's system.Info played for its Wails-facing Config.
package system

import (
	"fmt"
	"log/slog"

	"pushtohold/internal/capture"
	"pushtohold/internal/hardware"
)

// Info wraps a detected SystemInfo with the config-building helpers the
// engine layer needs at startup and on display/microphone changes.
type Info struct {
	*hardware.SystemInfo
}

// Detect probes GPUs and displays once at startup.
func Detect() (*Info, error) {
	sysInfo, err := hardware.DetectSystemInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to detect system hardware: %w", err)
	}
	return &Info{SystemInfo: sysInfo}, nil
}

// Print logs a summary of detected hardware, for startup diagnostics.
func (i *Info) Print() {
	for _, g := range i.GPUs {
		enc := "none"
		if best := hardware.FindBestEncoder(i.GPUs); best != nil {
			enc = best.Name
		}
		slog.Info("GPU", "index", g.Index, "name", g.Name, "vendor", g.Vendor, "bestEncoder", enc)
	}
	for _, d := range i.Displays {
		slog.Info("display", "index", d.Index, "resolution", fmt.Sprintf("%dx%d", d.Width, d.Height), "primary", d.IsPrimary)
	}
}

// DefaultRecordingConfig builds a RecordingConfig targeting the primary
// display, resolved against the detected hardware.
func (i *Info) DefaultRecordingConfig() (capture.RecordingConfig, error) {
	cfg := capture.DefaultRecordingConfig()
	if err := cfg.Resolve(i.SystemInfo); err != nil {
		return capture.RecordingConfig{}, err
	}
	return cfg, nil
}
