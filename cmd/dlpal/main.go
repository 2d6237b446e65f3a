package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/dlpal/dlpal/internal/config"
	"github.com/dlpal/dlpal/internal/fetch"
	"github.com/dlpal/dlpal/internal/ffmpeg"
	"github.com/dlpal/dlpal/internal/metacache"
	"github.com/dlpal/dlpal/internal/resolve"
	"github.com/dlpal/dlpal/internal/ui"
)

func main() {
	myApp := app.NewWithID("com.dlpal.dlpal")
	myWindow := myApp.NewWindow("dlpal")
	myWindow.Resize(fyne.NewSize(900, 720))

	settings := config.NewSettings(myApp)
	store := metacache.NewMemoryStore()
	resolver := resolve.NewResolver(resolve.NewYtdlpClient(settings.GetYtdlpPath()), store)

	ui.NewRootUI(myWindow, settings, resolver, store,
		fetch.NewHTTPFetcher(nil), ffmpeg.NewEngine(settings.GetFFmpegPath()))

	myWindow.ShowAndRun()
}
