//go:build darwin

package hardware

import (
	"fmt"
	"strings"

	"pushtohold/internal/utils"
)

// DetectGPUs enumerates GPUs on macOS via system_profiler, the same way
// display.go probes displays through ffmpeg rather than a native API.
// There is no cgo Metal binding wired into this module.
func DetectGPUs() (GPUList, error) {
	cmd := utils.Command("system_profiler", "SPDisplaysDataType", "-detailLevel", "mini")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("system_profiler GPU detection failed: %w", err)
	}

	var gpus GPUList
	idx := 0
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Chipset Model:") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(line, "Chipset Model:"))
		if name == "" {
			continue
		}
		gpus = append(gpus, &GPU{
			Index:  idx,
			Name:   name,
			Vendor: detectVendorFromName(name),
		})
		idx++
	}

	if len(gpus) == 0 {
		// Apple Silicon system_profiler output doesn't always use
		// "Chipset Model". Fall back to a single VideoToolbox-capable
		// GPU so hardware encoding is still attempted.
		gpus = append(gpus, &GPU{Index: 0, Name: "Apple GPU", Vendor: VendorApple})
	}

	return gpus, nil
}
