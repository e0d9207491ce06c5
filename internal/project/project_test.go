package project

import (
	"path/filepath"
	"testing"
)

func TestCreateAndListProjects(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := m.Create("demo"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Create("alpha"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	names, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "demo" {
		t.Fatalf("expected sorted [alpha demo], got %v", names)
	}
}

func TestSetCurrentCreatesAndSelects(t *testing.T) {
	root := t.TempDir()
	m, _ := New(root)

	if err := m.SetCurrent("my project"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	name, ok := m.Current()
	if !ok || name != "my project" {
		t.Fatalf("expected current project 'my project', got %q ok=%v", name, ok)
	}

	dir, resolvedName, ok := m.CurrentProject()
	if !ok || resolvedName != "my project" || dir != filepath.Join(root, "my project") {
		t.Fatalf("unexpected CurrentProject result: %q %q %v", dir, resolvedName, ok)
	}
}

func TestCurrentProjectFalseWhenNoneSelected(t *testing.T) {
	root := t.TempDir()
	m, _ := New(root)

	if _, _, ok := m.CurrentProject(); ok {
		t.Fatal("expected ok=false with no project selected")
	}
}

func TestInvalidProjectNameRejected(t *testing.T) {
	root := t.TempDir()
	m, _ := New(root)

	if err := m.Create("../escape"); err == nil {
		t.Fatal("expected invalid project name to be rejected")
	}
}

func TestSetRootClearsCurrentSelection(t *testing.T) {
	root := t.TempDir()
	m, _ := New(root)
	_ = m.SetCurrent("demo")

	newRoot := t.TempDir()
	if err := m.SetRoot(newRoot); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatal("expected current project to be cleared after SetRoot")
	}
}
