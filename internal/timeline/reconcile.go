package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var videoExtensions = map[string]bool{
	".mp4": true,
}

// Reconcile cross-checks the project directory against the timeline:
// files are matched to entries by filename first, then, for files whose
// filename has no match, by content checksum against entries whose file
// has gone missing, which detects renames. Unmatched files are promoted to
// new orphan entries. Entries whose file is missing and whose checksum
// matches nothing on disk are left untouched; they are not auto-deleted,
// since the user may restore the file later.
//
// Reconcile is idempotent: running it twice in a row with no filesystem
// change in between produces the same timeline and reports zero newly
// promoted entries on the second pass. The returned count reflects only
// orphan files promoted to new entries in step 3, not renames detected in
// step 1.
func Reconcile(store *Store, dir string) (promoted int, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	t, err := store.load()
	if err != nil {
		return 0, err
	}

	files, err := listVideoFiles(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read project directory: %w", err)
	}

	fileChecksums := make(map[string]string, len(files)) // filename -> checksum
	for _, name := range files {
		sum, err := Checksum(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		fileChecksums[name] = sum
	}

	byChecksum := make(map[string]string, len(fileChecksums)) // checksum -> filename
	for name, sum := range fileChecksums {
		byChecksum[sum] = name
	}

	// Step 1: detect renames. An entry whose filename vanished but whose
	// checksum survives under a new name is re-pointed, not orphaned. This
	// does not count toward promoted: the entry already existed, it is
	// only being relinked to its renamed file.
	changed := false
	for i := range t.Entries {
		e := &t.Entries[i]
		if e.Checksum == "" {
			continue
		}
		if _, stillThere := fileChecksums[e.Filename]; stillThere {
			continue
		}
		if newName, ok := byChecksum[e.Checksum]; ok && newName != e.Filename {
			e.Filename = newName
			changed = true
		}
	}

	// Step 2: refresh checksums for entries whose file is present.
	for i := range t.Entries {
		e := &t.Entries[i]
		if sum, ok := fileChecksums[e.Filename]; ok && sum != e.Checksum {
			e.Checksum = sum
			changed = true
		}
	}

	// Step 3: promote orphan files with no matching entry.
	known := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		known[e.Filename] = true
	}

	for _, name := range files {
		if known[name] {
			continue
		}

		full := filepath.Join(dir, name)
		info, statErr := os.Stat(full)
		recordedAt := time.Now().UTC()
		if statErr == nil {
			recordedAt = info.ModTime().UTC()
		}

		entry := Entry{
			Filename:   name,
			RecordedAt: recordedAt,
			Checksum:   fileChecksums[name],
			MicEnabled: false,
		}
		t.Entries = append(t.Entries, entry)
		promoted++
	}

	if promoted > 0 || changed {
		if err := store.save(t); err != nil {
			return promoted, err
		}
	}

	return promoted, nil
}

func listVideoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if videoExtensions[ext] {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
