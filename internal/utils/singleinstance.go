package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// SingleInstanceLock holds an exclusive lock file that prevents a second
// pushtoholdd process from starting while one is already running.
type SingleInstanceLock struct {
	path string
	file *os.File
}

// AcquireSingleInstance creates a PID lock file in the lock directory
// beside the config directory. It fails whenever the lock file already
// exists; a file left by a process that exited without Release is not
// taken over.
func AcquireSingleInstance(name string) (*SingleInstanceLock, error) {
	dir, err := getSubDir("lock")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lock directory: %w", err)
	}
	path := filepath.Join(dir, name+".lock")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another instance is already running (lock: %s)", path)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	fmt.Fprintf(f, "%d", os.Getpid())
	return &SingleInstanceLock{path: path, file: f}, nil
}

// Release closes and removes the lock file.
func (l *SingleInstanceLock) Release() {
	if l == nil || l.file == nil {
		return
	}
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
}
