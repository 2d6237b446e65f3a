// Package resolve adapts the external metadata lookup service: it turns a
// video URL into a classified summary of selectable stream variants,
// assigns each variant a synthetic id, and stores the full records in the
// shared metadata cache for later retrieval by id.
package resolve

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dlpal/dlpal/internal/metacache"
	"github.com/dlpal/dlpal/internal/model"
	"github.com/dlpal/dlpal/internal/units"
)

// Free-text signatures of a private-video failure as reported by the
// lookup client.
var privateVideoSignatures = []string{
	"private video",
	"this video is private",
}

// FormatOption is one selectable variant as shown to the user.
type FormatOption struct {
	ID        string
	Container string
	Label     string
}

// Summary is the result of a successful resolution.
type Summary struct {
	ID        string
	Title     string
	Thumbnail string
	Video     []FormatOption
	Audio     []FormatOption
}

// Resolver wraps the lookup client and feeds the shared metadata cache.
type Resolver struct {
	client Client
	store  metacache.Store
}

// NewResolver creates a resolver over a lookup client and a cache.
func NewResolver(client Client, store metacache.Store) *Resolver {
	return &Resolver{client: client, store: store}
}

// Invalidate drops the client's memoized lookup so the next Resolve hits
// the network again.
func (r *Resolver) Invalidate() {
	r.client.Invalidate()
}

// Resolve looks up a video URL and returns the selectable variants. Any
// failure comes back as a *ResolutionError with a classified reason; raw
// transport errors never escape.
func (r *Resolver) Resolve(ctx context.Context, url string) (*Summary, error) {
	videoID, err := r.client.VideoID(url)
	if err != nil {
		return nil, &ResolutionError{Reason: ReasonInvalidSource, Err: err}
	}

	// Look up through the canonical watch URL so equivalent input forms
	// (youtu.be, shorts, embed, bare id) resolve identically.
	watchURL := WatchURL(videoID)

	basic, err := r.client.BasicInfo(ctx, watchURL)
	if err != nil {
		return nil, classifyLookupError(err)
	}

	full, err := r.client.FullInfo(ctx, watchURL)
	if err != nil {
		return nil, classifyLookupError(err)
	}

	meta := &model.VideoMetadata{
		ID:        videoID,
		Title:     basic.Title,
		Thumbnail: lastThumbnail(basic.Thumbnails),
	}

	for _, f := range full.Formats {
		variant, kind, ok := bucketize(f)
		if !ok {
			continue
		}
		if kind == model.VariantVideo {
			meta.Video = append(meta.Video, variant)
		} else {
			meta.Audio = append(meta.Audio, variant)
		}
	}

	// Overwrites any prior entry for this video; ids issued by an earlier
	// resolution are invalid from here on.
	r.store.Set(videoID, meta)

	log.Printf("Resolved %s: %d video and %d audio variants", videoID, len(meta.Video), len(meta.Audio))

	summary := &Summary{
		ID:        videoID,
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
	}
	for _, v := range meta.Video {
		summary.Video = append(summary.Video, FormatOption{ID: v.ID, Container: v.Container, Label: VideoLabel(v)})
	}
	for _, a := range meta.Audio {
		summary.Audio = append(summary.Audio, FormatOption{ID: a.ID, Container: a.Container, Label: AudioLabel(a)})
	}
	return summary, nil
}

// bucketize filters one raw format into its bucket. Formats carrying both
// media kinds, neither, or no declared length are dropped.
func bucketize(f RawFormat) (model.StreamVariant, model.VariantKind, bool) {
	if f.ContentLength <= 0 || f.HasVideo == f.HasAudio {
		return model.StreamVariant{}, "", false
	}

	kind := model.VariantVideo
	if f.HasAudio {
		kind = model.VariantAudio
	}

	return model.StreamVariant{
		ID:              uuid.NewString(),
		Kind:            kind,
		Container:       f.Container,
		URL:             f.URL,
		ContentLength:   f.ContentLength,
		ApproxDuration:  time.Duration(f.ApproxDurationMs) * time.Millisecond,
		Bitrate:         f.Bitrate,
		AudioBitrate:    f.AudioBitrate,
		AudioSampleRate: f.AudioSampleRate,
		QualityLabel:    f.QualityLabel,
	}, kind, true
}

// VideoLabel renders the display label of a video variant.
func VideoLabel(v model.StreamVariant) string {
	kbps := units.BitsToHuman(float64(v.Bitrate), 0, false).KB
	return fmt.Sprintf("%s @ %skbps (%s) (.%s)",
		v.QualityLabel,
		strconv.FormatFloat(kbps, 'f', 0, 64),
		units.BytesToHuman(v.ContentLength),
		v.Container)
}

// AudioLabel renders the display label of an audio variant.
func AudioLabel(a model.StreamVariant) string {
	khz := units.HzToHuman(float64(a.AudioSampleRate), 1, false).KHz
	return fmt.Sprintf("%skHz @ %dkbps (%s) (.%s)",
		strconv.FormatFloat(khz, 'f', 1, 64),
		a.AudioBitrate,
		units.BytesToHuman(a.ContentLength),
		a.Container)
}

func classifyLookupError(err error) *ResolutionError {
	msg := strings.ToLower(err.Error())
	for _, sig := range privateVideoSignatures {
		if strings.Contains(msg, sig) {
			return &ResolutionError{Reason: ReasonPrivateVideo, Err: err}
		}
	}
	return &ResolutionError{Reason: ReasonUnavailable, Err: err}
}

func lastThumbnail(thumbs []string) string {
	if len(thumbs) == 0 {
		return ""
	}
	// yt thumbnails are ordered smallest first
	return thumbs[len(thumbs)-1]
}
