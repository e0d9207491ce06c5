package coordinator

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNextOutputPathEmptyDir(t *testing.T) {
	dir := t.TempDir()
	got, err := NextOutputPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "recording-1.mp4")
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestNextOutputPathPreservesGaps(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "recording-1.mp4")
	touch(t, dir, "recording-2.mp4")
	touch(t, dir, "recording-4.mp4")

	got, err := NextOutputPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "recording-5.mp4")
	if got != want {
		t.Fatalf("got %s, want %s (gaps must be preserved, not filled)", got, want)
	}
}

func TestNextOutputPathIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "my-clip.mp4")
	touch(t, dir, "recording-abc.mp4")
	touch(t, dir, "recording-3.mp4")

	got, err := NextOutputPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "recording-4.mp4")
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
