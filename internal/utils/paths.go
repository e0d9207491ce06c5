package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user state directory the daemon writes under.
const AppName = "PushToHold"

// DefaultOutputRoot returns the platform-default recordings folder:
// ~/Movies/PushToHold on macOS, ~/Videos/PushToHold elsewhere.
func DefaultOutputRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	sub := "Videos"
	if runtime.GOOS == "darwin" {
		sub = "Movies"
	}

	return filepath.Join(home, sub, AppName), nil
}

func getSubDir(name string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}

	dir := filepath.Join(base, AppName, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}

// GetConfigDir returns the directory holding the daemon's persisted settings.
func GetConfigDir() (string, error) { return getSubDir("config") }

func ResolveAbsPath(path string, baseDir string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	if baseDir != "" {
		return filepath.Join(baseDir, path), nil
	}

	return filepath.Abs(path)
}

func ResolveAndValidatePath(path string, baseDir string) (string, error) {
	absPath, err := ResolveAbsPath(path, baseDir)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(absPath); err != nil {
		return "", err
	}

	return absPath, nil
}
