// Package native is the narrow interface boundary between the capture
// engine and the operating system. On macOS the original implementation
// this module is descended from drives ScreenCaptureKit and AVAssetWriter
// directly; Go has no equivalent first-party bindings, so these interfaces
// describe the same contract: push raw samples in, get an MP4 out, and
// are satisfied by subprocess- and cgo-library-backed implementations
// instead (see internal/native/ffmpegnative and internal/native/malgonative).
package native

import "time"

// Sample is one piece of raw media handed to a Muxer: either an H.264
// access unit or a block of PCM frames, each carrying its capture-time
// timestamp. The Timestamp Normalizer (internal/capture) rebases NativeTS
// before a Sample is written.
type Sample struct {
	Data     []byte
	NativeTS time.Duration
	Duration time.Duration
	Keyframe bool
}

// VideoStream delivers encoded video access units from a running capture.
type VideoStream interface {
	// Start begins capturing with the parameters the stream was built with
	// and invokes onSample for every encoded unit until Stop is called.
	Start(onSample func(Sample)) error
	Stop() error
}

// AudioStream delivers raw PCM frames from a microphone capture.
type AudioStream interface {
	Start(onSample func(Sample)) error
	Stop() error
}

// Muxer implements an open -> write -> finalize protocol: Open must be
// called before any WriteVideo/WriteAudio, and Finalize exactly once,
// after which the Muxer must not be reused.
type Muxer interface {
	Open(outputPath string) error
	WriteVideo(s Sample) error
	WriteAudio(s Sample) error
	// Finalize flushes and closes the output file, returning the
	// recording's duration as the implementation measures it
	// (ffmpegnative.Muxer: wall-clock time since Open).
	Finalize() (time.Duration, error)
}

// VideoParams describes the encoder configuration: H.264 High profile,
// YUV420P, a keyframe every 2*FPS frames, and a bitrate computed from
// resolution and frame rate.
type VideoParams struct {
	Width, Height int
	FPS           int
	BitrateBps    int
	CaptureCursor bool
	DisplayID     string
	Region        *Region
}

// Region is an optional capture sub-rectangle, in the coordinate space of
// the target display.
type Region struct {
	X, Y, Width, Height int
}

// KeyframeInterval returns one keyframe every 2*fps frames.
func (p VideoParams) KeyframeInterval() int {
	if p.FPS <= 0 {
		return 60
	}
	return 2 * p.FPS
}

// DefaultBitrate computes the bitrate hint: width * height * 3 * fps / 4.
func DefaultBitrate(width, height, fps int) int {
	return width * height * 3 * fps / 4
}

// AudioParams describes the AAC-LC track: 48kHz mono 128kbit/s.
type AudioParams struct {
	SampleRate int
	Channels   int
	BitrateBps int
}

// DefaultAudioParams returns the fixed audio encoding parameters this
// daemon uses for every recording.
func DefaultAudioParams() AudioParams {
	return AudioParams{SampleRate: 48000, Channels: 1, BitrateBps: 128000}
}
