package capture

import (
	"testing"
	"time"

	"pushtohold/internal/native"
)

func TestNormalizerRebasesToFirstSample(t *testing.T) {
	n := NewNormalizer()

	v1, _ := n.NormalizeVideo(native.Sample{NativeTS: 500 * time.Millisecond})
	if v1.NativeTS != 0 {
		t.Fatalf("expected first video sample rebased to 0, got %v", v1.NativeTS)
	}

	v2, _ := n.NormalizeVideo(native.Sample{NativeTS: 533 * time.Millisecond})
	if v2.NativeTS != 33*time.Millisecond {
		t.Fatalf("expected second sample at +33ms, got %v", v2.NativeTS)
	}
}

func TestNormalizerSharesOriginAcrossTracks(t *testing.T) {
	n := NewNormalizer()

	// Audio arrives first.
	a1, _ := n.NormalizeAudio(native.Sample{NativeTS: 1000 * time.Millisecond})
	if a1.NativeTS != 0 {
		t.Fatalf("expected first audio sample rebased to 0, got %v", a1.NativeTS)
	}

	// Video's first sample arrives 20ms later in native time, it should
	// be rebased against the audio-set origin, not reset its own.
	v1, _ := n.NormalizeVideo(native.Sample{NativeTS: 1020 * time.Millisecond})
	if v1.NativeTS != 20*time.Millisecond {
		t.Fatalf("expected video rebased to +20ms against shared origin, got %v", v1.NativeTS)
	}
}

func TestRearmFirstVideoMakesNextSampleTheReference(t *testing.T) {
	n := NewNormalizer()
	n.NormalizeVideo(native.Sample{NativeTS: 100 * time.Millisecond})
	n.RearmFirstVideo()

	v, _ := n.NormalizeVideo(native.Sample{NativeTS: 500 * time.Millisecond})
	if v.NativeTS != 0 {
		t.Fatalf("expected re-armed sample rebased to 0, got %v", v.NativeTS)
	}
}

func TestResetClearsOriginForReuse(t *testing.T) {
	n := NewNormalizer()
	n.NormalizeVideo(native.Sample{NativeTS: 10 * time.Second})
	n.Reset()

	v, _ := n.NormalizeVideo(native.Sample{NativeTS: 20 * time.Second})
	if v.NativeTS != 0 {
		t.Fatalf("expected reset normalizer to rebase fresh sample to 0, got %v", v.NativeTS)
	}
}
