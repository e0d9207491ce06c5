package app

import "testing"

func TestDefaultConfigHasSaneValues(t *testing.T) {
	cfg := Default()
	if !cfg.CaptureCursor {
		t.Fatal("expected cursor capture on by default")
	}
	if cfg.IdleTimeoutMinutes <= 0 {
		t.Fatal("expected a positive default idle timeout")
	}
	if cfg.OutputRoot == "" {
		t.Fatal("expected a non-empty default output root")
	}
}

func TestRecordingConfigUsesCurrentProjectSubdirectory(t *testing.T) {
	cfg := Default()
	cfg.OutputRoot = "/tmp/pushtohold"
	cfg.CurrentProject = "demo"
	cfg.MicEnabled = true
	cfg.MicrophoneDeviceID = "abc"

	rc := cfg.RecordingConfig(1920, 1080, 30, 80)
	if rc.OutputDir != "/tmp/pushtohold/demo" {
		t.Fatalf("expected output dir under project subdirectory, got %q", rc.OutputDir)
	}
	if !rc.CaptureMicrophone || rc.MicrophoneDeviceID != "abc" {
		t.Fatal("expected microphone settings to carry over")
	}
}
