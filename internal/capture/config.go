// Package capture implements the Timestamp Normalizer, Encoder Sink,
// Capture Session, and Pre-Init Manager, wired over the internal/native
// interface boundary. It is grounded in the teacher's internal/capture
// package (its Config.Resolve against a detected hardware.SystemInfo),
// generalized from a fixed Windows-only pipeline to a cross-platform,
// push-to-hold recording model.
package capture

import (
	"fmt"

	"pushtohold/internal/hardware"
	"pushtohold/internal/native"
)

// Region is an optional capture sub-rectangle.
type Region struct {
	X, Y, Width, Height int
}

// RecordingConfig is the immutable-per-pre-init-generation configuration
// a Session is built from.
type RecordingConfig struct {
	OutputDir          string
	Width, Height      int
	FPS                int
	Quality            int // 0-100 hint; Bitrate does not read it
	CaptureCursor      bool
	CaptureMicrophone  bool
	MicrophoneDeviceID string
	DisplayID          string
	Region             *Region

	display *hardware.Display
}

// DefaultRecordingConfig returns the reference defaults: 1920x1080 at
// 30fps, cursor captured, quality 80. At this resolution and frame rate
// Bitrate returns 46,656,000 bit/s (about 46.7 Mbit/s).
func DefaultRecordingConfig() RecordingConfig {
	return RecordingConfig{
		Width:         1920,
		Height:        1080,
		FPS:           30,
		Quality:       80,
		CaptureCursor: true,
	}
}

// Resolve looks up the target display in sysInfo, the same pattern the
// teacher's Config.Resolve used against a DisplayIndex, adapted to the
// spec's string DisplayID ("" selects the primary display).
func (c *RecordingConfig) Resolve(sysInfo *hardware.SystemInfo) error {
	if sysInfo == nil {
		return fmt.Errorf("system info is required to resolve a display")
	}

	if c.DisplayID == "" {
		c.display = sysInfo.Displays.FindPrimary()
	} else {
		for _, d := range sysInfo.Displays {
			if d.Name == c.DisplayID || fmt.Sprint(d.Index) == c.DisplayID {
				c.display = d
				break
			}
		}
	}
	if c.display == nil {
		return fmt.Errorf("display not found: %q", c.DisplayID)
	}

	return c.Validate()
}

// Bitrate returns the bitrate hint width * height * 3 * fps / 4; Quality
// is not part of the formula.
func (c RecordingConfig) Bitrate() int {
	return native.DefaultBitrate(c.Width, c.Height, c.FPS)
}

// VideoParams builds the internal/native video configuration this
// RecordingConfig implies, for the session factory that wires up an
// internal/native/ffmpegnative.VideoStream. Resolve must have been called
// first so the resolved display's index is available.
func (c RecordingConfig) VideoParams() native.VideoParams {
	displayID := c.DisplayID
	if displayID == "" && c.display != nil {
		displayID = fmt.Sprint(c.display.Index)
	}

	var region *native.Region
	if c.Region != nil {
		region = &native.Region{X: c.Region.X, Y: c.Region.Y, Width: c.Region.Width, Height: c.Region.Height}
	}

	return native.VideoParams{
		Width:         c.Width,
		Height:        c.Height,
		FPS:           c.FPS,
		BitrateBps:    c.Bitrate(),
		CaptureCursor: c.CaptureCursor,
		DisplayID:     displayID,
		Region:        region,
	}
}

// Validate checks basic invariants: fps, width, height must be positive,
// and a region, if present, must lie inside the display (the resolved
// display's size, or Width x Height when no display has been resolved).
func (c RecordingConfig) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if c.Region != nil {
		r := c.Region
		boundW, boundH := c.Width, c.Height
		if c.display != nil {
			boundW, boundH = c.display.Width, c.display.Height
		}
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("region width and height must be positive")
		}
		if r.X < 0 || r.Y < 0 || r.X+r.Width > boundW || r.Y+r.Height > boundH {
			return fmt.Errorf("region must lie inside the display")
		}
	}
	return nil
}

// rebuildKey is equal for two configs iff they would produce an identical
// pre-initialized CaptureSession. The list of settings safe to change
// without a rebuild is deliberately empty: every field participates.
type rebuildKey struct {
	outputDir          string
	width, height, fps int
	quality            int
	captureCursor      bool
	captureMicrophone  bool
	micDeviceID        string
	displayID          string
	region             Region
}

func (c RecordingConfig) key() rebuildKey {
	k := rebuildKey{
		outputDir:         c.OutputDir,
		width:             c.Width,
		height:            c.Height,
		fps:               c.FPS,
		quality:           c.Quality,
		captureCursor:     c.CaptureCursor,
		captureMicrophone: c.CaptureMicrophone,
		micDeviceID:       c.MicrophoneDeviceID,
		displayID:         c.DisplayID,
	}
	if c.Region != nil {
		k.region = *c.Region
	}
	return k
}
