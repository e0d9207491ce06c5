package capture

import (
	"fmt"
	"sync"
	"time"

	"pushtohold/internal/native"
)

type fakeVideoStream struct {
	startErr error
	mu       sync.Mutex
	running  bool
}

func (f *fakeVideoStream) Start(onSample func(native.Sample)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.running = true
	f.mu.Unlock()
	onSample(native.Sample{NativeTS: 0, Keyframe: true})
	return nil
}

func (f *fakeVideoStream) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

type fakeAudioStream struct {
	startErr error
	stopped  bool
}

func (f *fakeAudioStream) Start(onSample func(native.Sample)) error {
	if f.startErr != nil {
		return f.startErr
	}
	return nil
}

func (f *fakeAudioStream) Stop() error {
	f.stopped = true
	return nil
}

type fakeMuxer struct {
	openErr     error
	finalizeErr error
	opened      bool
	videoWrites int
	audioWrites int
}

func (f *fakeMuxer) Open(outputPath string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	return nil
}

func (f *fakeMuxer) WriteVideo(s native.Sample) error {
	if !f.opened {
		return fmt.Errorf("not open")
	}
	f.videoWrites++
	return nil
}

func (f *fakeMuxer) WriteAudio(s native.Sample) error {
	if !f.opened {
		return fmt.Errorf("not open")
	}
	f.audioWrites++
	return nil
}

func (f *fakeMuxer) Finalize() (time.Duration, error) {
	if f.finalizeErr != nil {
		return 0, f.finalizeErr
	}
	f.opened = false
	return time.Second, nil
}

func sampleAt(d time.Duration) native.Sample {
	return native.Sample{NativeTS: d}
}
