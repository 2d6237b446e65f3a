// Package ffmpeg drives the external transcode/mux engine for container
// conversion and video+audio merging. Progress is read from ffmpeg's
// -progress output and normalized against the declared duration of the
// source stream.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dlpal/dlpal/internal/model"
)

// FFmpeg invocation constants
const (
	FFmpegCommand = "ffmpeg"

	// Codec settings for mp4 conversion
	MP4VideoCodec = "libx264"
	MP4AudioCodec = "aac"

	// Codec settings for mp3 conversion
	MP3AudioCodec = "libmp3lame"

	// Merge directives: video track from input 0 copied verbatim, audio
	// track from input 1
	MergeMapVideo  = "0:v"
	MergeMapAudio  = "1:a"
	MergeCopyCodec = "copy"

	// Target containers
	ContainerMP4 = "mp4"
	ContainerMP3 = "mp3"

	ProgressPipeTarget = "pipe:2"
	ProgressTimePrefix = "out_time_us="
)

// ConversionError wraps a failed container conversion. The source file is
// guaranteed to still exist.
type ConversionError struct {
	Input string
	Err   error
}

// Error implements the error interface.
func (ce *ConversionError) Error() string {
	return fmt.Sprintf("conversion of %s failed: %v", ce.Input, ce.Err)
}

// Unwrap returns the underlying cause.
func (ce *ConversionError) Unwrap() error { return ce.Err }

// MergeError wraps a failed merge. The two source files are guaranteed to
// still exist.
type MergeError struct {
	VideoInput string
	AudioInput string
	Err        error
}

// Error implements the error interface.
func (me *MergeError) Error() string {
	return fmt.Sprintf("merge of %s + %s failed: %v", me.VideoInput, me.AudioInput, me.Err)
}

// Unwrap returns the underlying cause.
func (me *MergeError) Unwrap() error { return me.Err }

// ConvertRequest describes one container conversion.
type ConvertRequest struct {
	Input      string
	Output     string
	Target     string        // ContainerMP4 or ContainerMP3
	Duration   time.Duration // declared source duration, normalizes progress
	OnProgress func(float64)
}

// MergeRequest describes one video+audio merge into an mp4 container.
type MergeRequest struct {
	VideoInput string
	AudioInput string
	Output     string
	Duration   time.Duration // declared video duration, normalizes progress
	OnProgress func(float64)
}

// Transcoder is the engine interface the job controller consumes.
type Transcoder interface {
	Convert(ctx context.Context, req ConvertRequest) (string, error)
	Merge(ctx context.Context, req MergeRequest) (string, error)
}

// Engine executes the ffmpeg binary.
type Engine struct {
	command string
}

// NewEngine creates an engine using the given executable, or the default
// "ffmpeg" from PATH when command is empty.
func NewEngine(command string) *Engine {
	if command == "" {
		command = FFmpegCommand
	}
	return &Engine{command: command}
}

// Convert transcodes a file into the target container, writing req.Output.
// The source file is deleted only after a successful conversion. On
// failure a *ConversionError is returned; whatever partial output ffmpeg
// wrote stays on disk alongside the source.
func (e *Engine) Convert(ctx context.Context, req ConvertRequest) (string, error) {
	args := BuildConvertArgs(req.Input, req.Output, req.Target)

	if err := e.run(ctx, args, req.Duration, req.OnProgress); err != nil {
		return "", &ConversionError{Input: req.Input, Err: err}
	}

	if err := os.Remove(req.Input); err != nil {
		log.Printf("Failed to remove converted source %s: %v", req.Input, err)
	}
	return req.Output, nil
}

// Merge muxes a video-only and an audio-only file into one mp4, copying
// the video track verbatim. Source files are left in place; deleting them
// is the caller's decision. On failure a *MergeError is returned and any
// partial output stays on disk.
func (e *Engine) Merge(ctx context.Context, req MergeRequest) (string, error) {
	args := BuildMergeArgs(req.VideoInput, req.AudioInput, req.Output)

	if err := e.run(ctx, args, req.Duration, req.OnProgress); err != nil {
		return "", &MergeError{VideoInput: req.VideoInput, AudioInput: req.AudioInput, Err: err}
	}
	return req.Output, nil
}

// BuildConvertArgs builds the ffmpeg arguments for a container conversion.
func BuildConvertArgs(input, output, target string) []string {
	args := []string{
		"-y",
		"-i", input,
	}

	switch target {
	case ContainerMP3:
		args = append(args, "-vn", "-c:a", MP3AudioCodec)
	default:
		args = append(args, "-c:v", MP4VideoCodec, "-c:a", MP4AudioCodec)
	}

	return append(args,
		"-progress", ProgressPipeTarget,
		"-nostats",
		output,
	)
}

// BuildMergeArgs builds the ffmpeg arguments for a video+audio merge.
func BuildMergeArgs(videoInput, audioInput, output string) []string {
	return []string{
		"-y",
		"-i", videoInput,
		"-i", audioInput,
		"-map", MergeMapVideo,
		"-map", MergeMapAudio,
		"-c:v", MergeCopyCodec,
		"-f", ContainerMP4,
		"-progress", ProgressPipeTarget,
		"-nostats",
		output,
	}
}

// run executes ffmpeg and pumps its progress output until exit.
func (e *Engine) run(ctx context.Context, args []string, duration time.Duration, onProgress func(float64)) error {
	cmd := exec.CommandContext(ctx, e.command, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	monitorProgress(stderr, duration, onProgress)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited with error: %w", err)
	}
	return nil
}

// monitorProgress parses out_time_us lines from ffmpeg's progress output
// and reports percentages normalized by the total duration.
func monitorProgress(r io.Reader, total time.Duration, onProgress func(float64)) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ProgressTimePrefix) {
			continue
		}

		micros, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
		if err != nil {
			continue
		}

		if total > 0 && onProgress != nil {
			processed := time.Duration(micros) * time.Microsecond
			onProgress(model.ClampPercent(float64(processed) / float64(total) * 100))
		}
	}
}
