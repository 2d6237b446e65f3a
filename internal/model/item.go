package model

import "fmt"

// Switches is the post-processing switch set a user picks per queue item.
type Switches struct {
	Merge      bool // merge video+audio into one mp4 container
	KeepFiles  bool // keep intermediate files after a successful merge
	VideoToMP4 bool // convert a downloaded video stream to mp4
	AudioToMP3 bool // convert a downloaded audio stream to mp3
}

// QueueItem is one user-submitted download intent. It references resolved
// metadata by video id only; the metadata cache must outlive the item.
// An item is never mutated once its job has started.
type QueueItem struct {
	ID          string
	VideoID     string
	VideoFormat string // selected video variant id, empty if none
	AudioFormat string // selected audio variant id, empty if none
	SaveDir     string
	Title       string // sanitized base filename, no extension
	Switches    Switches
}

// HasVideo reports whether a video variant is selected.
func (qi *QueueItem) HasVideo() bool { return qi.VideoFormat != "" }

// HasAudio reports whether an audio variant is selected.
func (qi *QueueItem) HasAudio() bool { return qi.AudioFormat != "" }

// Validate checks the item invariants: at least one selection must be
// present, and merge requires both.
func (qi *QueueItem) Validate() error {
	if !qi.HasVideo() && !qi.HasAudio() {
		return fmt.Errorf("queue item %s: no stream selected", qi.ID)
	}
	if qi.Switches.Merge && (!qi.HasVideo() || !qi.HasAudio()) {
		return fmt.Errorf("queue item %s: merge requires both a video and an audio selection", qi.ID)
	}
	if qi.SaveDir == "" {
		return fmt.Errorf("queue item %s: no destination directory", qi.ID)
	}
	if qi.Title == "" {
		return fmt.Errorf("queue item %s: no filename", qi.ID)
	}
	return nil
}

// PlanKind is the job execution plan derived once from an item's selections
// and switches. Phases are never re-derived from the booleans mid-flight.
type PlanKind int

const (
	PlanOnlyVideo PlanKind = iota
	PlanOnlyAudio
	PlanBothMerged
	PlanBothSeparate
)

// String returns the plan name for logs.
func (pk PlanKind) String() string {
	switch pk {
	case PlanOnlyVideo:
		return "only-video"
	case PlanOnlyAudio:
		return "only-audio"
	case PlanBothMerged:
		return "both-merged"
	case PlanBothSeparate:
		return "both-separate"
	}
	return "unknown"
}

// PlanFor computes the execution plan for an item. The item must already
// have passed Validate.
func PlanFor(qi *QueueItem) PlanKind {
	switch {
	case qi.HasVideo() && !qi.HasAudio():
		return PlanOnlyVideo
	case !qi.HasVideo() && qi.HasAudio():
		return PlanOnlyAudio
	case qi.Switches.Merge:
		return PlanBothMerged
	default:
		return PlanBothSeparate
	}
}
