package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/dlpal/dlpal/internal/config"
	"github.com/dlpal/dlpal/internal/fetch"
	"github.com/dlpal/dlpal/internal/ffmpeg"
	"github.com/dlpal/dlpal/internal/metacache"
	"github.com/dlpal/dlpal/internal/platform"
	"github.com/dlpal/dlpal/internal/resolve"
	"github.com/dlpal/dlpal/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.dlpal.dlpal"
	AppName = "dlpal"

	WindowWidth  = 900
	WindowHeight = 720
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	myApp := app.NewWithID(AppID)

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	saveDir := settings.GetSaveDirectory()
	if err := platform.EnsureDir(saveDir); err != nil {
		fmt.Printf("failed to ensure save dir: %v\n", err)
	}

	store := metacache.NewMemoryStore()
	resolver := resolve.NewResolver(resolve.NewYtdlpClient(settings.GetYtdlpPath()), store)
	fetcher := fetch.NewHTTPFetcher(nil)
	engine := ffmpeg.NewEngine(settings.GetFFmpegPath())

	ui.NewRootUI(myWindow, settings, resolver, store, fetcher, engine)

	myWindow.ShowAndRun()
}
