package utils

import "runtime"

// OpenPath opens a file or folder with the OS's default handler, backing
// the open-file/open-folder commands. It launches the platform opener
// through Command so the subprocess is spawned the same hidden-window way
// ffmpeg is.
func OpenPath(path string) error {
	name, args := "xdg-open", []string{path}
	switch runtime.GOOS {
	case "windows":
		name, args = "explorer", []string{path}
	case "darwin":
		name, args = "open", []string{path}
	}
	return Command(name, args...).Start()
}
