package capture

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pushtohold/internal/native"
)

// sessionState is the CaptureSession state machine.
type sessionState int

const (
	stateCreated sessionState = iota
	statePreInitialized
	stateRecording
	stateStopping
	stateFinalized
)

// Session owns one screen stream and optionally one audio stream, wiring
// both through a Normalizer into a Muxer.
type Session struct {
	config RecordingConfig

	video native.VideoStream
	audio native.AudioStream // nil if microphone capture is disabled
	muxer native.Muxer

	normalizer *Normalizer

	mu             sync.Mutex
	state          sessionState
	startWallClock time.Time
}

// NewSession wires a pre-built video stream, optional audio stream, and
// muxer into a Session in state Created. The Pre-Init Manager calls
// PreInitialize immediately after construction.
func NewSession(cfg RecordingConfig, video native.VideoStream, audio native.AudioStream, muxer native.Muxer) *Session {
	return &Session{
		config:     cfg,
		video:      video,
		audio:      audio,
		muxer:      muxer,
		normalizer: NewNormalizer(),
		state:      stateCreated,
	}
}

// PreInitialize starts the audio stream immediately (its samples are
// buffered but discarded until Start) but does NOT start the video stream
// or open the muxer. Those happen on Start, which is the <100ms fast
// path.
func (s *Session) PreInitialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateCreated {
		return fmt.Errorf("pre-initialize called in state %v", s.state)
	}

	if s.audio != nil {
		if err := s.audio.Start(s.onAudioSample); err != nil {
			return newError(ErrCaptureUnavailable, "failed to start microphone pre-capture", err)
		}
	}

	s.state = statePreInitialized
	return nil
}

// Start implements coordinator.Session: it opens the muxer, resets the
// Normalizer, sets isRecording-equivalent state before starting the video
// stream (so an audio buffer arriving mid-call is never dropped), and
// records the start wall-clock.
//
// The ffmpegnative muxer writes audio as raw s16le PCM bytes and does not
// read the rebased NativeTS. For video, the ffmpegnative backend
// writes the raw H.264 Annex-B stream through ffmpeg's -c:v copy with no
// per-sample PTS, so ffmpeg derives video timestamps from -framerate
// instead of consuming the rebased value here. The normalized video
// timestamp is therefore advisory in this backend; start_time=0 in the
// output is actually achieved by +faststart/-c:v copy muxing, not by the
// rebased timestamp.
func (s *Session) Start(outputPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != statePreInitialized {
		return fmt.Errorf("start called in state %v, want PreInitialized", s.state)
	}

	if err := s.muxer.Open(outputPath); err != nil {
		return newError(ErrConfigurationRejected, "failed to open muxer output", err)
	}

	s.normalizer.Reset()
	s.state = stateRecording
	s.startWallClock = time.Now()

	if err := s.video.Start(s.onVideoSample); err != nil {
		s.state = statePreInitialized
		return newError(ErrCaptureUnavailable, "failed to start video stream", err)
	}

	return nil
}

func (s *Session) onVideoSample(sample native.Sample) {
	normalized, ok := s.normalizer.NormalizeVideo(sample)
	if !ok {
		s.normalizer.RearmFirstVideo()
		return
	}
	if err := s.muxer.WriteVideo(normalized); err != nil {
		slog.Warn("dropped video sample", "error", err)
	}
}

func (s *Session) onAudioSample(sample native.Sample) {
	s.mu.Lock()
	recording := s.state == stateRecording
	s.mu.Unlock()
	if !recording {
		// Pre-initialized but not yet recording: discard until Start.
		return
	}

	normalized, ok := s.normalizer.NormalizeAudio(sample)
	if !ok {
		s.normalizer.RearmFirstAudio()
		return
	}
	if err := s.muxer.WriteAudio(normalized); err != nil {
		slog.Warn("dropped audio sample", "error", err)
	}
}

// Stop implements coordinator.Session: stop capture, finalize the muxer,
// and return the wall-clock duration computed from Start, not from the
// last encoded timestamp, since samples may still be in flight at stop.
func (s *Session) Stop() (int64, error) {
	s.mu.Lock()
	if s.state != stateRecording {
		s.mu.Unlock()
		return 0, fmt.Errorf("stop called in state %v, want Recording", s.state)
	}
	s.state = stateStopping
	elapsed := time.Since(s.startWallClock)
	s.mu.Unlock()

	if err := s.video.Stop(); err != nil {
		slog.Warn("error stopping video stream", "error", err)
	}
	if s.audio != nil {
		if err := s.audio.Stop(); err != nil {
			slog.Warn("error stopping audio stream", "error", err)
		}
	}

	if _, err := s.muxer.Finalize(); err != nil {
		s.mu.Lock()
		s.state = stateFinalized
		s.mu.Unlock()
		return 0, newError(ErrFinalizationFailed, "failed to finalize recording", err)
	}

	s.mu.Lock()
	s.state = stateFinalized
	s.mu.Unlock()

	return elapsed.Milliseconds(), nil
}

// Close releases resources held by a pre-initialized-but-never-started
// session, for the Pre-Init Manager's teardown path.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio != nil {
		_ = s.audio.Stop()
	}
}
