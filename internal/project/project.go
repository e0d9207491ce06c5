// Package project implements the project lifecycle behind the
// create/list/get-current/set-current commands: a project is just a named
// subdirectory of the output root holding its own recordings and
// timeline.json. It is grounded in the teacher's internal/app.App
// treatment of OutputDir as the single recording destination, generalized
// to a set of named subdirectories of one output root, the way
// original_source/src-tauri/src/commands.rs layers projects under a
// single root.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_\- ]{1,100}$`)

// Manager owns the current project selection and the output root under
// which every project directory lives. Changing the current project is a
// pre-init rebuild trigger; Manager only tracks the selection, the
// rebuild itself is the caller's (internal/engine's) responsibility via
// capture.PreInitManager.SetConfig.
type Manager struct {
	mu      sync.RWMutex
	root    string
	current string
}

// New creates a Manager rooted at root. The root directory is created if
// it does not yet exist.
func New(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}
	return &Manager{root: root}, nil
}

// Root returns the output root directory.
func (m *Manager) Root() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// SetRoot changes the output root, clearing the current project selection
// since a project name is only meaningful relative to its root.
func (m *Manager) SetRoot(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create output root: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.root = root
	m.current = ""
	return nil
}

// Dir returns the absolute directory for a project name.
func (m *Manager) Dir(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filepath.Join(m.root, name)
}

// Create makes a new project directory. It is not an error if the project
// already exists, matching the idempotent feel of a "create or open" UI
// action.
func (m *Manager) Create(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid project name: %q", name)
	}
	dir := m.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	return nil
}

// List returns the names of every project directory under the root,
// alphabetically sorted.
func (m *Manager) List() ([]string, error) {
	root := m.Root()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list output root: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// SetCurrent selects name as the current project. The project directory is
// created if it does not already exist, so switching to a fresh name
// behaves like create_project followed by set_current_project.
func (m *Manager) SetCurrent(name string) error {
	if err := m.Create(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = name
	return nil
}

// Current returns the current project's name, or ok=false if none is
// selected.
func (m *Manager) Current() (name string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != ""
}

// CurrentProject implements coordinator.ProjectResolver.
func (m *Manager) CurrentProject() (dir string, name string, ok bool) {
	m.mu.RLock()
	name = m.current
	root := m.root
	m.mu.RUnlock()
	if name == "" {
		return "", "", false
	}
	return filepath.Join(root, name), name, true
}
