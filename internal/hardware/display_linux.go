//go:build linux

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

// DetectDisplays parses `xrandr --query`, the standard way to enumerate
// X11 outputs without a cgo Xlib binding.
func DetectDisplays() (DisplayList, error) {
	cmd := utils.Command("xrandr", "--query")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("xrandr display detection failed: %w", err)
	}

	connected := regexp.MustCompile(`^(\S+) connected (primary )?(\d+)x(\d+)\+(\d+)\+(\d+)`)

	var displays DisplayList
	idx := 0
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		m := connected.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		width, _ := strconv.Atoi(m[3])
		height, _ := strconv.Atoi(m[4])
		x, _ := strconv.Atoi(m[5])
		y, _ := strconv.Atoi(m[6])
		displays = append(displays, &Display{
			Index:        idx,
			Name:         m[1],
			FriendlyName: m[1],
			IsPrimary:    m[2] != "",
			Width:        width,
			Height:       height,
			X:            x,
			Y:            y,
		})
		idx++
	}

	if len(displays) == 0 {
		return nil, fmt.Errorf("xrandr found no connected displays")
	}

	for _, d := range displays {
		slog.Info("detected display",
			"index", d.Index,
			"resolution", fmt.Sprintf("%dx%d", d.Width, d.Height),
			"primary", d.IsPrimary,
			"name", d.Name,
		)
	}

	return displays, nil
}
