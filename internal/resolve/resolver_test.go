package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/dlpal/dlpal/internal/metacache"
	"github.com/dlpal/dlpal/internal/model"
)

type fakeClient struct {
	id          string
	idErr       error
	basic       BasicInfo
	basicErr    error
	full        FullInfo
	fullErr     error
	fullCalls   int
	lookupURLs  []string
	invalidated int
}

func (fc *fakeClient) VideoID(url string) (string, error) {
	return fc.id, fc.idErr
}

func (fc *fakeClient) BasicInfo(ctx context.Context, url string) (BasicInfo, error) {
	fc.lookupURLs = append(fc.lookupURLs, url)
	return fc.basic, fc.basicErr
}

func (fc *fakeClient) FullInfo(ctx context.Context, url string) (FullInfo, error) {
	fc.fullCalls++
	fc.lookupURLs = append(fc.lookupURLs, url)
	return fc.full, fc.fullErr
}

func (fc *fakeClient) Invalidate() {
	fc.invalidated++
}

func testFormats() []RawFormat {
	return []RawFormat{
		// video-only, kept
		{HasVideo: true, ContentLength: 500 * 1000 * 1000, Container: "mp4", Bitrate: 2509824, QualityLabel: "1080p", ApproxDurationMs: 212000},
		// audio-only, kept
		{HasAudio: true, ContentLength: 5 * 1000 * 1000, Container: "webm", AudioBitrate: 160, AudioSampleRate: 48000, ApproxDurationMs: 212000},
		// muxed, dropped
		{HasVideo: true, HasAudio: true, ContentLength: 100, Container: "mp4"},
		// no media at all, dropped
		{ContentLength: 100, Container: "mhtml"},
		// video-only without declared length, dropped
		{HasVideo: true, Container: "webm"},
	}
}

func TestResolveBuckets(t *testing.T) {
	store := metacache.NewMemoryStore()
	client := &fakeClient{
		id:    "dQw4w9WgXcQ",
		basic: BasicInfo{Title: "Some Title", Thumbnails: []string{"small.jpg", "big.jpg"}},
		full:  FullInfo{Formats: testFormats()},
	}

	summary, err := NewResolver(client, store).Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.Video) != 1 || len(summary.Audio) != 1 {
		t.Fatalf("Expected 1 video and 1 audio option, got %d and %d", len(summary.Video), len(summary.Audio))
	}
	if summary.Title != "Some Title" {
		t.Errorf("Expected title to be carried over, got %q", summary.Title)
	}
	if summary.Thumbnail != "big.jpg" {
		t.Errorf("Expected the last (largest) thumbnail, got %q", summary.Thumbnail)
	}

	// Every surfaced variant must be cached, single-bucketed, with a length.
	entry, ok := store.Get("dQw4w9WgXcQ")
	if !ok {
		t.Fatal("Expected metadata to be cached")
	}
	for _, v := range append(entry.Meta.Video, entry.Meta.Audio...) {
		if v.ID == "" {
			t.Error("Expected every variant to carry a synthetic id")
		}
		if v.ContentLength <= 0 {
			t.Error("Expected every variant to carry a declared length")
		}
		if v.Kind != model.VariantVideo && v.Kind != model.VariantAudio {
			t.Errorf("Variant in no bucket: %+v", v)
		}
	}

	cached, ok := entry.Meta.Variant(summary.Video[0].ID)
	if !ok {
		t.Fatal("Expected summary id to resolve against the cache")
	}
	if cached.Kind != model.VariantVideo {
		t.Errorf("Expected video variant, got %s", cached.Kind)
	}
}

func TestResolveOverwritesPriorEntry(t *testing.T) {
	store := metacache.NewMemoryStore()
	client := &fakeClient{
		id:    "dQw4w9WgXcQ",
		basic: BasicInfo{Title: "Some Title"},
		full:  FullInfo{Formats: testFormats()},
	}
	resolver := NewResolver(client, store)

	first, err := resolver.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := resolver.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first.Video[0].ID == second.Video[0].ID {
		t.Error("Expected fresh ids on re-resolution")
	}

	entry, _ := store.Get("dQw4w9WgXcQ")
	if _, ok := entry.Meta.Variant(first.Video[0].ID); ok {
		t.Error("Expected ids from the earlier resolution to be invalidated")
	}
	if entry.Generation != 2 {
		t.Errorf("Expected generation 2 after re-resolution, got %d", entry.Generation)
	}
}

func TestResolveLooksUpCanonicalWatchURL(t *testing.T) {
	store := metacache.NewMemoryStore()
	client := &fakeClient{
		id:    "dQw4w9WgXcQ",
		basic: BasicInfo{Title: "Some Title"},
		full:  FullInfo{Formats: testFormats()},
	}

	// Shortened and canonical input forms must hit the client identically.
	resolver := NewResolver(client, store)
	for _, input := range []string{"https://youtu.be/dQw4w9WgXcQ", "https://youtube.com/watch?v=dQw4w9WgXcQ"} {
		if _, err := resolver.Resolve(context.Background(), input); err != nil {
			t.Fatalf("Expected no error for %q, got %v", input, err)
		}
	}

	want := WatchURL("dQw4w9WgXcQ")
	for _, url := range client.lookupURLs {
		if url != want {
			t.Errorf("Expected lookup through %q, got %q", want, url)
		}
	}
}

func TestInvalidateReachesClient(t *testing.T) {
	client := &fakeClient{}
	resolver := NewResolver(client, metacache.NewMemoryStore())

	resolver.Invalidate()
	if client.invalidated != 1 {
		t.Errorf("Expected one invalidation, got %d", client.invalidated)
	}
}

func TestResolveErrorClassification(t *testing.T) {
	store := metacache.NewMemoryStore()

	// Unsupported URL
	client := &fakeClient{idErr: errors.New("no video id")}
	_, err := NewResolver(client, store).Resolve(context.Background(), "https://vimeo.com/1")
	assertReason(t, err, ReasonInvalidSource)

	// Private video signature in the lookup error text
	client = &fakeClient{id: "dQw4w9WgXcQ", basicErr: errors.New("ERROR: [youtube] dQw4w9WgXcQ: Private video. Sign in if you've been granted access")}
	_, err = NewResolver(client, store).Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assertReason(t, err, ReasonPrivateVideo)

	// Any other lookup failure
	client = &fakeClient{id: "dQw4w9WgXcQ", basic: BasicInfo{Title: "t"}, fullErr: errors.New("connection reset by peer")}
	_, err = NewResolver(client, store).Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assertReason(t, err, ReasonUnavailable)

	// Nothing may be cached on failure
	if store.Len() != 0 {
		t.Errorf("Expected empty cache after failures, got %d entries", store.Len())
	}
}

func assertReason(t *testing.T, err error, want ErrorReason) {
	t.Helper()
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected *ResolutionError, got %T: %v", err, err)
	}
	if resErr.Reason != want {
		t.Errorf("Expected reason %s, got %s", want, resErr.Reason)
	}
}

func TestLabels(t *testing.T) {
	video := model.StreamVariant{
		Kind:          model.VariantVideo,
		Container:     "mp4",
		ContentLength: 500 * 1000 * 1000,
		Bitrate:       2509824,
		QualityLabel:  "1080p",
	}
	if got := VideoLabel(video); got != "1080p @ 2451kbps (500 MB) (.mp4)" {
		t.Errorf("Unexpected video label: %q", got)
	}

	audio := model.StreamVariant{
		Kind:            model.VariantAudio,
		Container:       "webm",
		ContentLength:   5 * 1000 * 1000,
		AudioBitrate:    160,
		AudioSampleRate: 44100,
	}
	if got := AudioLabel(audio); got != "44.1kHz @ 160kbps (5.0 MB) (.webm)" {
		t.Errorf("Unexpected audio label: %q", got)
	}
}
