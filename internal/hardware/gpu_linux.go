//go:build linux

package hardware

import (
	"fmt"
	"strings"

	"pushtohold/internal/utils"
)

// DetectGPUs enumerates GPUs on Linux by grepping lspci, the same
// shell-out-and-parse idiom the Windows WMIC and macOS system_profiler
// detectors use.
func DetectGPUs() (GPUList, error) {
	cmd := utils.Command("lspci")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("lspci GPU detection failed: %w", err)
	}

	var gpus GPUList
	idx := 0
	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "vga compatible controller") && !strings.Contains(lower, "3d controller") {
			continue
		}
		parts := strings.SplitN(line, ": ", 2)
		name := line
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}
		gpus = append(gpus, &GPU{
			Index:  idx,
			Name:   name,
			Vendor: detectVendorFromName(name),
		})
		idx++
	}

	return gpus, nil
}
