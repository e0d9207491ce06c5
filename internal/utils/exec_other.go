//go:build !windows

package utils

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
