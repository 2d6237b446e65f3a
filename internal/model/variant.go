package model

import (
	"strings"
	"time"
)

// VariantKind tells whether a stream variant carries only video or only
// audio. Variants carrying both or neither are dropped during resolution.
type VariantKind string

const (
	VariantVideo VariantKind = "video"
	VariantAudio VariantKind = "audio"
)

// StreamVariant is one selectable encoded representation of a video's
// video or audio track. The ID is assigned at resolution time and is only
// valid for the resolution that produced it.
type StreamVariant struct {
	ID              string
	Kind            VariantKind
	Container       string        // file extension without dot, e.g. "mp4", "webm"
	URL             string        // direct media URL captured at resolution
	ContentLength   int64         // declared size in bytes, always > 0
	ApproxDuration  time.Duration // declared duration, used to normalize ffmpeg progress
	Bitrate         int           // total bitrate in bits per second (video variants)
	AudioBitrate    int           // audio bitrate in kbps (audio variants)
	AudioSampleRate int           // sample rate in Hz (audio variants)
	QualityLabel    string        // e.g. "1080p60" (video variants)
}

// VideoMetadata is the resolved description of one source video: its
// identity plus the selectable variants split into the two buckets.
type VideoMetadata struct {
	ID        string
	Title     string
	Thumbnail string
	Video     []StreamVariant
	Audio     []StreamVariant
}

// Variant looks up a stream variant by its synthetic id across both buckets.
func (vm *VideoMetadata) Variant(id string) (StreamVariant, bool) {
	for _, v := range vm.Video {
		if v.ID == id {
			return v, true
		}
	}
	for _, a := range vm.Audio {
		if a.ID == id {
			return a, true
		}
	}
	return StreamVariant{}, false
}

// DisplayTitle returns the title with surrounding whitespace trimmed,
// falling back to the video id when the title is empty.
func (vm *VideoMetadata) DisplayTitle() string {
	title := strings.TrimSpace(vm.Title)
	if title == "" {
		return vm.ID
	}
	return title
}
