package utils

import "os/exec"

// Command builds an *exec.Cmd for invoking external tools (ffmpeg, platform
// helpers). On Windows it suppresses the console window that would
// otherwise flash open for every subprocess; elsewhere it behaves exactly
// like exec.Command.
func Command(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	hideWindow(cmd)
	return cmd
}
