package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const fileName = "timeline.json"

// Store owns the on-disk timeline.json for one project directory. All
// writes go through atomic temp-file-then-rename so readers never observe a
// partially-written file.
//
// Only one Store should be writing to a given project directory at a time;
// the Recording Coordinator and the UI's save/reconcile commands are
// expected to serialize through the same Store instance via mu.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore opens (but does not yet read) the timeline for the project
// directory at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Load reads the timeline file, creating an empty one in memory (not on
// disk, the first write will create it) if none exists yet.
func (s *Store) Load() (*Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Timeline, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return New(filepath.Base(s.dir), time.Now().UTC()), nil
		}
		return nil, fmt.Errorf("failed to read timeline: %w", err)
	}

	var t Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse timeline: %w", err)
	}
	return &t, nil
}

// Save atomically persists t, stamping LastModified.
func (s *Store) Save(t *Timeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(t)
}

func (s *Store) save(t *Timeline) error {
	t.LastModified = time.Now().UTC()
	t.recomputeMetadata()

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".timeline-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Append adds a new entry on recording completion and returns the saved
// timeline.
func (s *Store) Append(entry Entry) (*Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load()
	if err != nil {
		return nil, err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	t.Entries = append(t.Entries, entry)

	if err := s.save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SoftDelete marks entry id as deleted without removing it from the file,
// preserving it for undo and reconciliation.
func (s *Store) SoftDelete(id string) (*Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	found := false
	for i := range t.Entries {
		if t.Entries[i].ID == id {
			t.Entries[i].Deleted = true
			t.Entries[i].DeletedAt = &now
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("entry not found: %s", id)
	}

	if err := s.save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Replace overwrites the full entry sequence. Used for reorder and label
// edits, which rewrite the whole slice while preserving soft-deleted
// entries the caller chose to keep in the slice it hands back.
func (s *Store) Replace(t *Timeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(t)
}
