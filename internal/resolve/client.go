package resolve

import "context"

// BasicInfo is the result of the cheap metadata lookup.
type BasicInfo struct {
	Title      string
	Thumbnails []string
}

// RawFormat is one stream format as reported by the lookup client, before
// bucket filtering and id assignment.
type RawFormat struct {
	HasVideo         bool
	HasAudio         bool
	ContentLength    int64  // declared size in bytes, 0 if unknown
	Container        string // file extension, e.g. "mp4"
	URL              string // direct media URL
	Bitrate          int    // total bitrate in bits per second
	AudioBitrate     int    // audio bitrate in kbps
	AudioSampleRate  int    // sample rate in Hz
	QualityLabel     string // e.g. "1080p60"
	ApproxDurationMs int64
}

// FullInfo is the result of the extended metadata lookup.
type FullInfo struct {
	Formats []RawFormat
}

// Client is the external metadata lookup service. Errors surface as
// free-text messages; the resolver pattern-matches them for classification.
type Client interface {
	VideoID(url string) (string, error)
	BasicInfo(ctx context.Context, url string) (BasicInfo, error)
	FullInfo(ctx context.Context, url string) (FullInfo, error)
	Invalidate()
}
