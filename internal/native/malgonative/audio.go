// Package malgonative implements native.AudioStream with malgo, the same
// cgo miniaudio binding the teacher's internal/audio package used for
// system/microphone capture. Where the teacher mixed a stereo microphone
// and a stereo loopback stream together, this package captures a single
// mono microphone device at the spec's fixed 48kHz to match the AAC-LC
// encoding target directly, no mixing required.
package malgonative

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"pushtohold/internal/native"
)

const (
	sampleRate = 48000
	channels   = 1
)

// AudioStream captures one microphone device as mono 16-bit PCM frames.
type AudioStream struct {
	deviceID string

	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running bool
	start   time.Time
}

// New creates an AudioStream for the given device, identified the way
// ListInputDevices reports it: a hex-encoded malgo.DeviceID. An empty
// deviceID selects the platform default input device.
func New(deviceID string) *AudioStream {
	return &AudioStream{deviceID: deviceID}
}

func (a *AudioStream) Start(onSample func(native.Sample)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("audio stream already running")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to init audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = channels
	deviceConfig.SampleRate = sampleRate

	if a.deviceID != "" {
		id, err := parseDeviceID(a.deviceID)
		if err != nil {
			ctx.Uninit()
			ctx.Free()
			return fmt.Errorf("invalid microphone device id: %w", err)
		}
		deviceConfig.Capture.DeviceID = id.Pointer()
	}

	started := time.Now()
	onRecv := func(_, input []byte, _ uint32) {
		onSample(native.Sample{
			Data:     append([]byte(nil), input...),
			NativeTS: time.Since(started),
		})
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecv})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to init microphone device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start microphone device: %w", err)
	}

	a.ctx = ctx
	a.device = device
	a.running = true
	a.start = started
	slog.Info("microphone capture started", "device", a.deviceID, "sampleRate", sampleRate, "channels", channels)
	return nil
}

func (a *AudioStream) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return nil
	}
	a.device.Uninit()
	a.ctx.Uninit()
	a.ctx.Free()
	a.running = false
	return nil
}

func parseDeviceID(idHex string) (malgo.DeviceID, error) {
	raw, err := hex.DecodeString(idHex)
	if err != nil {
		return malgo.DeviceID{}, err
	}
	var id malgo.DeviceID
	copy(id[:], raw)
	return id, nil
}
