package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// yt-dlp invocation constants
const (
	DefaultYtdlpCommand = "yt-dlp"
	DumpJSONFlag        = "--dump-single-json"
	NoWarningsFlag      = "--no-warnings"
	NoPlaylistFlag      = "--no-playlist"

	// Codec marker yt-dlp uses for an absent stream
	CodecNone = "none"

	DefaultLookupTimeout = 60 * time.Second
)

// YtdlpClient implements Client by executing the yt-dlp binary and parsing
// its JSON dump. The most recent dump is memoized per URL so the basic and
// extended lookups of one resolution cost a single process spawn.
type YtdlpClient struct {
	command string
	timeout time.Duration

	mu       sync.Mutex
	lastURL  string
	lastDump *ytdlpDump
}

// NewYtdlpClient creates a client using the given executable, or the
// default "yt-dlp" from PATH when command is empty.
func NewYtdlpClient(command string) *YtdlpClient {
	if command == "" {
		command = DefaultYtdlpCommand
	}
	return &YtdlpClient{command: command, timeout: DefaultLookupTimeout}
}

// SetTimeout sets the per-lookup timeout.
func (c *YtdlpClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// VideoID implements Client.
func (c *YtdlpClient) VideoID(url string) (string, error) {
	return ExtractVideoID(url)
}

// BasicInfo implements Client.
func (c *YtdlpClient) BasicInfo(ctx context.Context, url string) (BasicInfo, error) {
	dump, err := c.dump(ctx, url)
	if err != nil {
		return BasicInfo{}, err
	}

	thumbs := make([]string, 0, len(dump.Thumbnails)+1)
	for _, th := range dump.Thumbnails {
		if th.URL != "" {
			thumbs = append(thumbs, th.URL)
		}
	}
	if len(thumbs) == 0 && dump.Thumbnail != "" {
		thumbs = append(thumbs, dump.Thumbnail)
	}

	return BasicInfo{Title: dump.Title, Thumbnails: thumbs}, nil
}

// FullInfo implements Client.
func (c *YtdlpClient) FullInfo(ctx context.Context, url string) (FullInfo, error) {
	dump, err := c.dump(ctx, url)
	if err != nil {
		return FullInfo{}, err
	}
	return FullInfo{Formats: dump.rawFormats()}, nil
}

// Invalidate drops the memoized dump so the next lookup hits the network.
func (c *YtdlpClient) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastURL = ""
	c.lastDump = nil
}

func (c *YtdlpClient) dump(ctx context.Context, url string) (*ytdlpDump, error) {
	c.mu.Lock()
	if c.lastDump != nil && c.lastURL == url {
		dump := c.lastDump
		c.mu.Unlock()
		return dump, nil
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.command, DumpJSONFlag, NoPlaylistFlag, NoWarningsFlag, url)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// yt-dlp reports the human-readable cause on stderr; keep it in
		// the error text so the resolver can classify it.
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("yt-dlp failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	dump, err := parseDump(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastURL = url
	c.lastDump = dump
	c.mu.Unlock()

	return dump, nil
}

// ytdlpDump mirrors the subset of yt-dlp's --dump-single-json output the
// resolver needs.
type ytdlpDump struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Duration   float64       `json:"duration"`
	Thumbnail  string        `json:"thumbnail"`
	Thumbnails []ytdlpThumb  `json:"thumbnails"`
	Formats    []ytdlpFormat `json:"formats"`
}

type ytdlpThumb struct {
	URL string `json:"url"`
}

type ytdlpFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	URL            string  `json:"url"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"` // total bitrate in kbps
	ABR            float64 `json:"abr"` // audio bitrate in kbps
	ASR            int     `json:"asr"` // audio sample rate in Hz
	FormatNote     string  `json:"format_note"`
	Height         int     `json:"height"`
}

func parseDump(data []byte) (*ytdlpDump, error) {
	var dump ytdlpDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return &dump, nil
}

func (d *ytdlpDump) rawFormats() []RawFormat {
	durationMs := int64(d.Duration * 1000)

	formats := make([]RawFormat, 0, len(d.Formats))
	for _, f := range d.Formats {
		length := f.Filesize
		if length == 0 {
			length = f.FilesizeApprox
		}

		quality := f.FormatNote
		if quality == "" && f.Height > 0 {
			quality = fmt.Sprintf("%dp", f.Height)
		}

		formats = append(formats, RawFormat{
			HasVideo:         f.VCodec != "" && f.VCodec != CodecNone,
			HasAudio:         f.ACodec != "" && f.ACodec != CodecNone,
			ContentLength:    length,
			Container:        f.Ext,
			URL:              f.URL,
			Bitrate:          int(math.Round(f.TBR * 1000)),
			AudioBitrate:     int(f.ABR),
			AudioSampleRate:  f.ASR,
			QualityLabel:     quality,
			ApproxDurationMs: durationMs,
		})
	}
	return formats
}
