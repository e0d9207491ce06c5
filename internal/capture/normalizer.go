package capture

import (
	"log/slog"
	"sync"
	"time"

	"pushtohold/internal/native"
)

// Normalizer rebases video and audio sample timestamps to a single shared
// origin, whichever track's first sample arrives first, so the written
// MP4 starts at t=0 with both tracks aligned.
type Normalizer struct {
	mu         sync.Mutex
	originSet  bool
	origin     time.Duration
	videoArmed bool
	audioArmed bool
	// originByVideo records whether the current origin came from a video
	// sample, so RearmFirstVideo knows whether to clear it.
	originByVideo bool
}

// NewNormalizer returns a Normalizer with both tracks' first-sample flags
// armed, the state every session Start requires.
func NewNormalizer() *Normalizer {
	n := &Normalizer{}
	n.Reset()
	return n
}

// Reset re-arms both tracks' first-sample flags and clears the origin,
// for reuse across multiple recordings from the same pre-initialized
// session.
func (n *Normalizer) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.originSet = false
	n.origin = 0
	n.originByVideo = false
	n.videoArmed = true
	n.audioArmed = true
}

// NormalizeVideo rebases a video sample's timestamp against the shared
// origin, setting the origin if this is the first sample of either track.
func (n *Normalizer) NormalizeVideo(s native.Sample) (native.Sample, bool) {
	return n.normalize(s, &n.videoArmed)
}

// NormalizeAudio rebases an audio sample the same way.
func (n *Normalizer) NormalizeAudio(s native.Sample) (native.Sample, bool) {
	return n.normalize(s, &n.audioArmed)
}

func (n *Normalizer) normalize(s native.Sample, armed *bool) (native.Sample, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if *armed {
		*armed = false
		if !n.originSet {
			n.origin = s.NativeTS
			n.originSet = true
			n.originByVideo = armed == &n.videoArmed
		}
	}

	rebased := s.NativeTS - n.origin
	if rebased < 0 {
		// This track's origin-setting sample hasn't been rebased yet
		// relative to the other track's earlier origin; clamp to zero
		// rather than emit a negative timestamp the muxer would reject.
		rebased = 0
	}

	out := s
	out.NativeTS = rebased
	return out, true
}

// RearmFirstVideo re-arms the "first video frame" flag: a dropped first
// video sample re-arms the first-frame flag so the next incoming video
// sample becomes the reference. If the dropped sample had set the shared
// origin, the origin is cleared so the next video sample sets it anew; an
// origin set by audio is kept.
func (n *Normalizer) RearmFirstVideo() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.videoArmed = true
	if n.originByVideo {
		n.originSet = false
	}
	slog.Warn("dropped first video sample; re-arming timestamp origin")
}

// RearmFirstAudio is the audio-track analogue of RearmFirstVideo.
func (n *Normalizer) RearmFirstAudio() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.audioArmed = true
}
