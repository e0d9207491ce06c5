package engine

import (
	"pushtohold/internal/capture"
	"pushtohold/internal/hardware"
	"pushtohold/internal/native"
	"pushtohold/internal/native/ffmpegnative"
	"pushtohold/internal/native/malgonative"
)

// newSessionFactory returns a capture.SessionFactory that builds a
// ffmpeg-backed video stream, an optional malgo-backed microphone stream,
// and an ffmpeg-backed muxer for the given RecordingConfig, wiring them
// into a capture.Session. sysInfo is captured once at daemon startup and
// reused for every rebuild, the way the teacher's App.sysInfo was detected
// once in Initialize and reused by every subsequent Start.
func newSessionFactory(sysInfo *hardware.SystemInfo) capture.SessionFactory {
	return func(cfg capture.RecordingConfig) (*capture.Session, error) {
		if err := cfg.Resolve(sysInfo); err != nil {
			return nil, err
		}

		video := ffmpegnative.NewVideoStream(cfg.VideoParams(), sysInfo)

		var audio native.AudioStream
		if cfg.CaptureMicrophone {
			audio = malgonative.New(cfg.MicrophoneDeviceID)
		}

		muxer := ffmpegnative.NewMuxer(native.DefaultAudioParams())

		return capture.NewSession(cfg, video, audio, muxer), nil
	}
}
