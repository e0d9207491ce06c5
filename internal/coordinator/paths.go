package coordinator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

var recordingNamePattern = regexp.MustCompile(`^recording-(\d+)\.mp4$`)

// NextOutputPath scans dir for files matching recording-<N>.mp4, takes
// the maximum N (0 if none), and returns the path for N+1. Gaps are
// preserved: recordings are never renumbered and never overwritten.
func NextOutputPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return filepath.Join(dir, "recording-1.mp4"), nil
		}
		return "", fmt.Errorf("failed to scan project directory: %w", err)
	}

	max := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := recordingNamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	name := fmt.Sprintf("recording-%d.mp4", max+1)
	return filepath.Join(dir, name), nil
}
