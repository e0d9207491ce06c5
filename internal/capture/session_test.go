package capture

import (
	"errors"
	"testing"
	"time"
)

func TestSessionLifecycleHappyPath(t *testing.T) {
	video := &fakeVideoStream{}
	muxer := &fakeMuxer{}
	s := NewSession(DefaultRecordingConfig(), video, nil, muxer)

	if err := s.PreInitialize(); err != nil {
		t.Fatalf("PreInitialize: %v", err)
	}
	if err := s.Start("/tmp/recording-1.mp4"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !muxer.opened {
		t.Fatal("expected muxer to be opened")
	}
	if muxer.videoWrites == 0 {
		t.Fatal("expected at least one video sample written")
	}

	time.Sleep(5 * time.Millisecond)
	duration, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if duration <= 0 {
		t.Fatalf("expected positive duration, got %d", duration)
	}
	if muxer.opened {
		t.Fatal("expected muxer finalized (closed)")
	}
}

func TestStartBeforePreInitializeFails(t *testing.T) {
	s := NewSession(DefaultRecordingConfig(), &fakeVideoStream{}, nil, &fakeMuxer{})
	if err := s.Start("/tmp/x.mp4"); err == nil {
		t.Fatal("expected Start to fail before PreInitialize")
	}
}

func TestStopBeforeStartFails(t *testing.T) {
	s := NewSession(DefaultRecordingConfig(), &fakeVideoStream{}, nil, &fakeMuxer{})
	_ = s.PreInitialize()
	if _, err := s.Stop(); err == nil {
		t.Fatal("expected Stop to fail before Start")
	}
}

func TestFinalizeFailureReturnsCaptureError(t *testing.T) {
	video := &fakeVideoStream{}
	muxer := &fakeMuxer{finalizeErr: errors.New("disk full")}
	s := NewSession(DefaultRecordingConfig(), video, nil, muxer)
	_ = s.PreInitialize()
	_ = s.Start("/tmp/x.mp4")

	_, err := s.Stop()
	if err == nil {
		t.Fatal("expected finalize failure to propagate")
	}
	var ce *CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CaptureError, got %T", err)
	}
	if ce.Code != ErrFinalizationFailed {
		t.Fatalf("unexpected error code: %s", ce.Code)
	}
}

func TestAudioSamplesDiscardedBeforeStart(t *testing.T) {
	audio := &fakeAudioStream{}
	muxer := &fakeMuxer{}
	s := NewSession(DefaultRecordingConfig(), &fakeVideoStream{}, audio, muxer)

	if err := s.PreInitialize(); err != nil {
		t.Fatalf("PreInitialize: %v", err)
	}
	// Simulate an audio buffer arriving during pre-init, before Start.
	s.onAudioSample(sampleAt(10 * time.Millisecond))
	if muxer.audioWrites != 0 {
		t.Fatal("expected pre-init audio samples to be discarded")
	}

	if err := s.Start("/tmp/x.mp4"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.onAudioSample(sampleAt(20 * time.Millisecond))
	if muxer.audioWrites != 1 {
		t.Fatalf("expected one audio sample written after start, got %d", muxer.audioWrites)
	}
}
