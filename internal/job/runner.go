package job

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dlpal/dlpal/internal/fetch"
	"github.com/dlpal/dlpal/internal/ffmpeg"
	"github.com/dlpal/dlpal/internal/metacache"
	"github.com/dlpal/dlpal/internal/model"
	"github.com/dlpal/dlpal/internal/relay"
)

// Action labels shown next to the progress bar during each phase.
const (
	ActionVideo        = "Video"
	ActionAudio        = "Audio"
	ActionMerge        = "Merge"
	ActionConvertVideo = "Convert Video"
	ActionConvertAudio = "Convert Audio"
)

// Runner executes one queue item's job at a time. Errors are not handled
// internally; a failing phase aborts the job and propagates to the caller.
type Runner struct {
	store   metacache.Store
	fetcher fetch.Fetcher
	engine  ffmpeg.Transcoder
	emitter relay.Emitter
}

// NewRunner creates a runner over the shared cache and the two external
// byte services.
func NewRunner(store metacache.Store, fetcher fetch.Fetcher, engine ffmpeg.Transcoder, emitter relay.Emitter) *Runner {
	return &Runner{store: store, fetcher: fetcher, engine: engine, emitter: emitter}
}

// plan is the fully resolved execution plan of one job, computed once at
// start and never re-derived from the item's switches mid-flight.
type plan struct {
	kind  model.PlanKind
	video model.StreamVariant // zero unless a video selection is present
	audio model.StreamVariant // zero unless an audio selection is present

	// conversions that will actually run: switch set and the downloaded
	// container is not already the target
	convertVideo bool
	convertAudio bool

	// per-kind download phase prefixes, empty when not needed
	videoPrefix string
	audioPrefix string
}

// Run executes the item's job to completion. The final update on the relay
// is {completed, saved_at}; any error marks the item failed on the relay,
// aborts the job leaving partial files on disk, and propagates.
func (r *Runner) Run(ctx context.Context, item *model.QueueItem) error {
	if err := item.Validate(); err != nil {
		r.emitter.Progress(item.ID, relay.Failed())
		return err
	}

	entry, ok := r.store.Get(item.VideoID)
	if !ok {
		r.emitter.Progress(item.ID, relay.Failed())
		return fmt.Errorf("job %s: no metadata cached for video %s", item.ID, item.VideoID)
	}

	p, err := buildPlan(item, entry.Meta)
	if err != nil {
		r.emitter.Progress(item.ID, relay.Failed())
		return err
	}

	log.Printf("Job %s: plan %s for %q", item.ID, p.kind, item.Title)

	var lastPath string

	switch p.kind {
	case model.PlanOnlyVideo:
		lastPath, err = r.runVideoSide(ctx, item, p)

	case model.PlanOnlyAudio:
		lastPath, err = r.runAudioSide(ctx, item, p)

	case model.PlanBothMerged:
		lastPath, err = r.runMerged(ctx, item, p, entry.Generation)

	case model.PlanBothSeparate:
		// Video side first, then audio; the reported final path is
		// whichever output was produced last.
		if lastPath, err = r.runVideoSide(ctx, item, p); err == nil {
			lastPath, err = r.runAudioSide(ctx, item, p)
		}
	}
	if err != nil {
		r.emitter.Progress(item.ID, relay.Failed())
		return fmt.Errorf("job %s: %w", item.ID, err)
	}

	r.emitter.Progress(item.ID, relay.Completed(lastPath))
	return nil
}

// runVideoSide downloads the video selection and converts it when slated.
func (r *Runner) runVideoSide(ctx context.Context, item *model.QueueItem, p plan) (string, error) {
	dest := BuildFilePath(item.SaveDir, p.videoPrefix, item.Title, p.video.Container)

	r.beginPhase(item.ID, model.JobStatusDownloading, model.ColorPrimary, ActionVideo)
	path, err := r.fetcher.Fetch(ctx, p.video, dest, r.progressFn(item.ID))
	if err != nil {
		return "", err
	}

	if !p.convertVideo {
		return path, nil
	}

	r.beginPhase(item.ID, model.JobStatusConverting, model.ColorSuccess, ActionConvertVideo)
	return r.engine.Convert(ctx, ffmpeg.ConvertRequest{
		Input:      path,
		Output:     BuildFilePath(item.SaveDir, "", item.Title, ffmpeg.ContainerMP4),
		Target:     ffmpeg.ContainerMP4,
		Duration:   p.video.ApproxDuration,
		OnProgress: r.progressFn(item.ID),
	})
}

// runAudioSide downloads the audio selection and converts it when slated.
func (r *Runner) runAudioSide(ctx context.Context, item *model.QueueItem, p plan) (string, error) {
	dest := BuildFilePath(item.SaveDir, p.audioPrefix, item.Title, p.audio.Container)

	r.beginPhase(item.ID, model.JobStatusDownloading, model.ColorWarning, ActionAudio)
	path, err := r.fetcher.Fetch(ctx, p.audio, dest, r.progressFn(item.ID))
	if err != nil {
		return "", err
	}

	if !p.convertAudio {
		return path, nil
	}

	r.beginPhase(item.ID, model.JobStatusConverting, model.ColorSuccess, ActionConvertAudio)
	return r.engine.Convert(ctx, ffmpeg.ConvertRequest{
		Input:      path,
		Output:     BuildFilePath(item.SaveDir, "", item.Title, ffmpeg.ContainerMP3),
		Target:     ffmpeg.ContainerMP3,
		Duration:   p.audio.ApproxDuration,
		OnProgress: r.progressFn(item.ID),
	})
}

// runMerged downloads both selections then muxes them into one mp4.
func (r *Runner) runMerged(ctx context.Context, item *model.QueueItem, p plan, generation uint64) (string, error) {
	videoDest := BuildFilePath(item.SaveDir, p.videoPrefix, item.Title, p.video.Container)
	audioDest := BuildFilePath(item.SaveDir, p.audioPrefix, item.Title, p.audio.Container)

	r.beginPhase(item.ID, model.JobStatusDownloading, model.ColorPrimary, ActionVideo)
	videoPath, err := r.fetcher.Fetch(ctx, p.video, videoDest, r.progressFn(item.ID))
	if err != nil {
		return "", err
	}

	r.beginPhase(item.ID, model.JobStatusDownloading, model.ColorWarning, ActionAudio)
	audioPath, err := r.fetcher.Fetch(ctx, p.audio, audioDest, r.progressFn(item.ID))
	if err != nil {
		return "", err
	}

	// The downloads took a while; fail fast if a re-resolution replaced
	// the metadata this job was built from.
	if current, ok := r.store.Get(item.VideoID); !ok || current.Generation != generation {
		return "", metacache.ErrStaleSelection
	}

	r.beginPhase(item.ID, model.JobStatusMerging, model.ColorSuccess, ActionMerge)
	mergedPath, err := r.engine.Merge(ctx, ffmpeg.MergeRequest{
		VideoInput: videoPath,
		AudioInput: audioPath,
		Output:     BuildFilePath(item.SaveDir, "", item.Title, ffmpeg.ContainerMP4),
		Duration:   p.video.ApproxDuration,
		OnProgress: r.progressFn(item.ID),
	})
	if err != nil {
		return "", err
	}

	if !item.Switches.KeepFiles {
		for _, intermediate := range []string{videoPath, audioPath} {
			if err := os.Remove(intermediate); err != nil {
				log.Printf("Failed to remove intermediate %s: %v", intermediate, err)
			}
		}
	}
	return mergedPath, nil
}

// beginPhase resets the progress bar and announces the phase.
func (r *Runner) beginPhase(itemID string, status model.JobStatus, color model.ProgressColor, action string) {
	r.emitter.Progress(itemID, relay.WithAction(status, color, action))
	r.emitter.Progress(itemID, relay.WithValue(0))
}

func (r *Runner) progressFn(itemID string) func(float64) {
	return func(p float64) {
		r.emitter.Progress(itemID, relay.WithValue(p))
	}
}

// buildPlan resolves the item's selections against the cached metadata and
// decides the conversion and prefix policy up front.
func buildPlan(item *model.QueueItem, meta *model.VideoMetadata) (plan, error) {
	p := plan{kind: model.PlanFor(item)}

	if item.HasVideo() {
		variant, ok := meta.Variant(item.VideoFormat)
		if !ok {
			return plan{}, fmt.Errorf("video selection %s: %w", item.VideoFormat, metacache.ErrStaleSelection)
		}
		if variant.Kind != model.VariantVideo {
			return plan{}, fmt.Errorf("selection %s is not a video variant", item.VideoFormat)
		}
		p.video = variant
	}
	if item.HasAudio() {
		variant, ok := meta.Variant(item.AudioFormat)
		if !ok {
			return plan{}, fmt.Errorf("audio selection %s: %w", item.AudioFormat, metacache.ErrStaleSelection)
		}
		if variant.Kind != model.VariantAudio {
			return plan{}, fmt.Errorf("selection %s is not an audio variant", item.AudioFormat)
		}
		p.audio = variant
	}

	// Conversion switches are meaningless under a merge; the merge itself
	// produces the mp4 container.
	if p.kind != model.PlanBothMerged {
		p.convertVideo = item.HasVideo() && item.Switches.VideoToMP4 && p.video.Container != ffmpeg.ContainerMP4
		p.convertAudio = item.HasAudio() && item.Switches.AudioToMP3 && p.audio.Container != ffmpeg.ContainerMP3
	}

	// A kind's download gets a phase prefix whenever a second file could
	// plausibly coexist under the same title: both kinds are downloaded,
	// or the kind's own conversion output will appear next to it.
	bothKinds := item.HasVideo() && item.HasAudio()
	if bothKinds || p.convertVideo {
		p.videoPrefix = PhasePrefixVideo
	}
	if bothKinds || p.convertAudio {
		p.audioPrefix = PhasePrefixAudio
	}

	return p, nil
}
