package config

import (
	"fyne.io/fyne/v2"

	"github.com/dlpal/dlpal/internal/model"
	"github.com/dlpal/dlpal/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeySaveDir           = "save_directory"
	KeyYtdlpPath         = "ytdlp_path"
	KeyFFmpegPath        = "ffmpeg_path"
	KeyDefaultMerge      = "default_merge"
	KeyDefaultKeepFiles  = "default_keep_files"
	KeyDefaultVideoToMP4 = "default_video_to_mp4"
	KeyDefaultAudioToMP3 = "default_audio_to_mp3"
	KeyRevealOnComplete  = "reveal_on_complete"
)

// Default values
const (
	DefaultMerge            = true
	DefaultKeepFiles        = false
	DefaultVideoToMP4       = true
	DefaultAudioToMP3       = true
	DefaultRevealOnComplete = true

	FallbackSaveDir = "/tmp/downloads"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetSaveDirectory returns the configured destination directory
func (s *Settings) GetSaveDirectory() string {
	dir := s.app.Preferences().String(KeySaveDir)
	if dir == "" {
		defaultDir, err := platform.HomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackSaveDir
		}
		s.SetSaveDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetSaveDirectory sets the destination directory
func (s *Settings) SetSaveDirectory(dir string) {
	s.app.Preferences().SetString(KeySaveDir, dir)
}

// GetYtdlpPath returns the yt-dlp executable override, empty for PATH lookup
func (s *Settings) GetYtdlpPath() string {
	return s.app.Preferences().String(KeyYtdlpPath)
}

// SetYtdlpPath sets the yt-dlp executable override
func (s *Settings) SetYtdlpPath(path string) {
	s.app.Preferences().SetString(KeyYtdlpPath, path)
}

// GetFFmpegPath returns the ffmpeg executable override, empty for PATH lookup
func (s *Settings) GetFFmpegPath() string {
	return s.app.Preferences().String(KeyFFmpegPath)
}

// SetFFmpegPath sets the ffmpeg executable override
func (s *Settings) SetFFmpegPath(path string) {
	s.app.Preferences().SetString(KeyFFmpegPath, path)
}

// GetDefaultSwitches returns the switch set used to prefill new queue items
func (s *Settings) GetDefaultSwitches() model.Switches {
	prefs := s.app.Preferences()
	return model.Switches{
		Merge:      prefs.BoolWithFallback(KeyDefaultMerge, DefaultMerge),
		KeepFiles:  prefs.BoolWithFallback(KeyDefaultKeepFiles, DefaultKeepFiles),
		VideoToMP4: prefs.BoolWithFallback(KeyDefaultVideoToMP4, DefaultVideoToMP4),
		AudioToMP3: prefs.BoolWithFallback(KeyDefaultAudioToMP3, DefaultAudioToMP3),
	}
}

// SetDefaultSwitches stores the switch set used to prefill new queue items
func (s *Settings) SetDefaultSwitches(sw model.Switches) {
	prefs := s.app.Preferences()
	prefs.SetBool(KeyDefaultMerge, sw.Merge)
	prefs.SetBool(KeyDefaultKeepFiles, sw.KeepFiles)
	prefs.SetBool(KeyDefaultVideoToMP4, sw.VideoToMP4)
	prefs.SetBool(KeyDefaultAudioToMP3, sw.AudioToMP3)
}

// GetRevealOnComplete returns whether to reveal finished files in the file manager
func (s *Settings) GetRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyRevealOnComplete, DefaultRevealOnComplete)
}

// SetRevealOnComplete sets whether to reveal finished files in the file manager
func (s *Settings) SetRevealOnComplete(reveal bool) {
	s.app.Preferences().SetBool(KeyRevealOnComplete, reveal)
}
