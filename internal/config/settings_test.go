package config

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/dlpal/dlpal/internal/model"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestSaveDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetSaveDirectory()
	if dir == "" {
		t.Error("Save directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetSaveDirectory(customDir)

	if got := settings.GetSaveDirectory(); got != customDir {
		t.Errorf("Expected save directory %s, got %s", customDir, got)
	}
}

func TestExecutableOverrides(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Empty by default: binaries are looked up on PATH
	if settings.GetYtdlpPath() != "" {
		t.Error("Expected empty yt-dlp override by default")
	}
	if settings.GetFFmpegPath() != "" {
		t.Error("Expected empty ffmpeg override by default")
	}

	settings.SetYtdlpPath("/opt/bin/yt-dlp")
	settings.SetFFmpegPath("/opt/bin/ffmpeg")

	if got := settings.GetYtdlpPath(); got != "/opt/bin/yt-dlp" {
		t.Errorf("Expected yt-dlp override, got %q", got)
	}
	if got := settings.GetFFmpegPath(); got != "/opt/bin/ffmpeg" {
		t.Errorf("Expected ffmpeg override, got %q", got)
	}
}

func TestDefaultSwitches(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	defaults := settings.GetDefaultSwitches()
	if !defaults.Merge || defaults.KeepFiles || !defaults.VideoToMP4 || !defaults.AudioToMP3 {
		t.Errorf("Unexpected default switches: %+v", defaults)
	}

	custom := model.Switches{Merge: false, KeepFiles: true, VideoToMP4: false, AudioToMP3: true}
	settings.SetDefaultSwitches(custom)

	if got := settings.GetDefaultSwitches(); got != custom {
		t.Errorf("Expected switches %+v, got %+v", custom, got)
	}
}

func TestRevealOnComplete(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if !settings.GetRevealOnComplete() {
		t.Error("Expected reveal-on-complete to default to true")
	}

	settings.SetRevealOnComplete(false)
	if settings.GetRevealOnComplete() {
		t.Error("Expected reveal-on-complete to be disabled")
	}
}
