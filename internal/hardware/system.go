package hardware

import "log/slog"

// candidateEncoders lists the hardware encoders a GPU of the given vendor
// could plausibly expose, before ffmpeg's own encoder list is consulted to
// find out which ones are actually usable.
func candidateEncoders(vendor Vendor) []Encoder {
	switch vendor {
	case VendorNVIDIA:
		return []Encoder{{Name: "h264_nvenc", Codec: "h264"}, {Name: "hevc_nvenc", Codec: "hevc"}}
	case VendorAMD:
		return []Encoder{{Name: "h264_amf", Codec: "h264"}, {Name: "hevc_amf", Codec: "hevc"}}
	case VendorIntel:
		return []Encoder{{Name: "h264_qsv", Codec: "h264"}, {Name: "hevc_qsv", Codec: "hevc"}}
	case VendorApple:
		return []Encoder{{Name: "h264_videotoolbox", Codec: "h264"}, {Name: "hevc_videotoolbox", Codec: "hevc"}}
	}
	return nil
}

// DetectSystemInfo enumerates GPUs, validates their encoders against the
// ffmpeg binary actually on PATH, and enumerates displays, assembling the
// SystemInfo a RecordingConfig resolves itself against.
func DetectSystemInfo() (*SystemInfo, error) {
	gpus, err := DetectGPUs()
	if err != nil {
		slog.Warn("GPU detection failed, falling back to CPU encoding", "error", err)
		gpus = GPUList{}
	}
	for _, g := range gpus {
		if len(g.Encoders) == 0 {
			g.Encoders = candidateEncoders(g.Vendor)
		}
		for i := range g.Encoders {
			g.Encoders[i].GPUIndex = g.Index
		}
	}
	ValidateEncoders(gpus)

	displays, err := DetectDisplays()
	if err != nil {
		return nil, err
	}

	var encoders []Encoder
	for _, g := range gpus {
		encoders = append(encoders, g.Encoders...)
	}

	info := &SystemInfo{
		GPUs:     gpus,
		Displays: displays,
		Encoders: encoders,
	}

	for _, g := range gpus {
		slog.Info("detected GPU", "index", g.Index, "name", g.Name, "vendor", g.Vendor)
	}
	for _, d := range displays {
		slog.Info("detected display", "index", d.Index, "resolution", d.String(), "primary", d.IsPrimary)
	}

	return info, nil
}
