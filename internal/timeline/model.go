// Package timeline implements the per-project clip record: an
// append-only, soft-delete, checksum-tracked JSON file reconciled against
// the files actually on disk.
package timeline

import "time"

// Resolution is the encoded pixel dimensions of a clip.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AspectRatio is one of the three buckets the UI groups clips by.
type AspectRatio string

const (
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatioNone AspectRatio = "none"
)

// DetectAspectRatio classifies a resolution using a small tolerance around
// the canonical 16:9 and 9:16 ratios.
func DetectAspectRatio(r Resolution) AspectRatio {
	if r.Width <= 0 || r.Height <= 0 {
		return AspectRatioNone
	}
	ratio := float64(r.Width) / float64(r.Height)
	const tolerance = 0.05
	if abs(ratio-16.0/9.0) < tolerance {
		return AspectRatio16x9
	}
	if abs(ratio-9.0/16.0) < tolerance {
		return AspectRatio9x16
	}
	return AspectRatioNone
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Entry is one recorded clip. Filename is a basename only; it is resolved
// against the owning project's directory.
type Entry struct {
	ID          string      `json:"id"`
	Filename    string      `json:"filename"`
	Label       string      `json:"label,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	RecordedAt  time.Time   `json:"recordedAt"`
	DurationMs  int64       `json:"durationMs"`
	Deleted     bool        `json:"deleted"`
	DeletedAt   *time.Time  `json:"deletedAt,omitempty"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Resolution  Resolution  `json:"resolution"`
	MicEnabled  bool        `json:"micEnabled"`
	Checksum    string      `json:"checksum,omitempty"`
}

// Metadata is the aggregate counters and defaults carried alongside a
// project's entries.
type Metadata struct {
	TotalVideos       int    `json:"totalVideos"`
	TotalDurationMs    int64  `json:"totalDurationMs"`
	DefaultAspectRatio string `json:"defaultAspectRatio,omitempty"`
}

// Timeline is the full per-project JSON document at
// <project_dir>/timeline.json.
type Timeline struct {
	ProjectName  string    `json:"projectName"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
	Entries      []Entry   `json:"entries"`
	Metadata     Metadata  `json:"metadata"`
}

// New creates an empty timeline for a freshly created project.
func New(projectName string, now time.Time) *Timeline {
	return &Timeline{
		ProjectName:  projectName,
		CreatedAt:    now,
		LastModified: now,
		Entries:      []Entry{},
	}
}

// Visible returns the entries that have not been soft-deleted, in durable
// (insertion) order. Presentation order (newest-first) is a reader's
// concern, not the store's.
func (t *Timeline) Visible() []Entry {
	out := make([]Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if !e.Deleted {
			out = append(out, e)
		}
	}
	return out
}

func (t *Timeline) recomputeMetadata() {
	var total int
	var dur int64
	for _, e := range t.Entries {
		if e.Deleted {
			continue
		}
		total++
		dur += e.DurationMs
	}
	t.Metadata.TotalVideos = total
	t.Metadata.TotalDurationMs = dur
}

// Clone performs a deep copy of the timeline, used by the undo history so
// pushed snapshots aren't aliased by later in-place mutation.
func (t *Timeline) Clone() *Timeline {
	clone := *t
	clone.Entries = make([]Entry, len(t.Entries))
	copy(clone.Entries, t.Entries)
	return &clone
}
