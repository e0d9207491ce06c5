//go:build windows

package hardware

import (
	"fmt"
	"pushtohold/internal/utils"
	"strings"
)

// DetectGPUs enumerates GPUs on Windows via WMI.
func DetectGPUs() (GPUList, error) {
	gpus, err := detectGPUsFromWMIC()
	if err != nil || len(gpus) == 0 {
		return nil, fmt.Errorf("WMI GPU detection failed: %w", err)
	}
	return gpus, nil
}

// detectGPUsFromWMIC uses Windows WMI to get GPU information.
func detectGPUsFromWMIC() (GPUList, error) {
	cmd := utils.Command("wmic", "path", "win32_videocontroller", "get", "name,adapterram,pnpdeviceid", "/format:csv")
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var gpus GPUList
	lines := strings.Split(string(out), "\n")

	idx := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Node,") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			continue
		}
		name := strings.TrimSpace(parts[2])

		if name == "" || name == "Name" {
			continue
		}

		// Skip Microsoft Basic Display
		if strings.Contains(strings.ToLower(name), "microsoft") ||
			strings.Contains(strings.ToLower(name), "basic") {
			continue
		}

		vendor := detectVendorFromName(name)

		gpu := &GPU{
			Index:  idx,
			Name:   name,
			Vendor: vendor,
		}

		gpus = append(gpus, gpu)
		idx++
	}

	return gpus, nil
}
