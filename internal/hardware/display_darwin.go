//go:build darwin

package hardware

import (
	"bufio"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"pushtohold/internal/utils"
)

// DetectDisplays probes each avfoundation video device index with a
// one-frame capture, the same technique display.go (Windows) uses against
// ddagrab: ffmpeg's own startup log is the only portable source of a
// display's resolution once ScreenCaptureKit isn't reachable from Go.
func DetectDisplays() (DisplayList, error) {
	var displays DisplayList

	for idx := 0; idx < 8; idx++ {
		info, err := probeAVFoundationIndex(idx)
		if err != nil {
			break
		}
		if info == nil {
			break
		}
		info.Index = idx
		info.IsPrimary = idx == 0
		displays = append(displays, info)
	}

	if len(displays) == 0 {
		return nil, fmt.Errorf("avfoundation display detection found no displays")
	}

	for _, d := range displays {
		slog.Info("detected display",
			"index", d.Index,
			"resolution", fmt.Sprintf("%dx%d", d.Width, d.Height),
			"primary", d.IsPrimary,
		)
	}

	return displays, nil
}

func probeAVFoundationIndex(idx int) (*Display, error) {
	cmd := utils.Command(FFmpegPath,
		"-hide_banner",
		"-f", "avfoundation",
		"-framerate", "1",
		"-i", fmt.Sprintf("%d:none", idx),
		"-frames:v", "1",
		"-f", "null",
		"-",
	)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var width, height int
	resRegex := regexp.MustCompile(`(\d+)x(\d+)`)
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "Video:") {
			if m := resRegex.FindStringSubmatch(line); len(m) >= 3 {
				width, _ = strconv.Atoi(m[1])
				height, _ = strconv.Atoi(m[2])
				break
			}
		}
	}
	cmd.Wait()

	if width == 0 || height == 0 {
		return nil, nil
	}
	return &Display{
		Width:        width,
		Height:       height,
		FriendlyName: "Display " + strconv.Itoa(idx+1),
	}, nil
}
