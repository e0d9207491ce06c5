package malgonative

import (
	"encoding/hex"
	"fmt"

	"github.com/gen2brain/malgo"
)

// Device is one enumerable microphone returned by ListInputDevices, which
// backs the Engine's GetAudioDevices command.
type Device struct {
	ID   string
	Name string
}

// ListInputDevices enumerates capture (microphone) devices.
func ListInputDevices() ([]Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, Device{
			ID:   hex.EncodeToString(info.ID[:]),
			Name: info.Name(),
		})
	}
	return devices, nil
}
