package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/dlpal/dlpal/internal/config"
	"github.com/dlpal/dlpal/internal/fetch"
	"github.com/dlpal/dlpal/internal/ffmpeg"
	"github.com/dlpal/dlpal/internal/job"
	"github.com/dlpal/dlpal/internal/metacache"
	"github.com/dlpal/dlpal/internal/model"
	"github.com/dlpal/dlpal/internal/platform"
	"github.com/dlpal/dlpal/internal/queue"
	"github.com/dlpal/dlpal/internal/relay"
	"github.com/dlpal/dlpal/internal/resolve"
)

// UI constants
const (
	NoSelectionLabel = "None"
	ToastAutoHide    = 5 * time.Second
)

// RootUI wires the core services to the main window.
type RootUI struct {
	window    fyne.Window
	settings  *config.Settings
	resolver  *resolve.Resolver
	store     metacache.Store
	sequencer *queue.Sequencer
	list      *queue.List

	summary *resolve.Summary

	urlEntry    *widget.Entry
	fetchBtn    *widget.Button
	videoSelect *widget.Select
	audioSelect *widget.Select

	mergeCheck     *widget.Check
	keepCheck      *widget.Check
	videoMP4Check  *widget.Check
	audioMP3Check  *widget.Check
	addBtn         *widget.Button
	downloadBtn    *widget.Button
	clearBtn       *widget.Button
	queueList      *widget.List
	queueItems     []*model.QueueItem
	progressStates map[string]model.Progress
}

// NewRootUI creates and mounts the main window content. The job runner and
// sequencer are built here so their relay lands back in this UI.
func NewRootUI(window fyne.Window, settings *config.Settings, resolver *resolve.Resolver, store metacache.Store, fetcher fetch.Fetcher, engine ffmpeg.Transcoder) *RootUI {
	ui := &RootUI{
		window:         window,
		settings:       settings,
		resolver:       resolver,
		store:          store,
		list:           queue.NewList(),
		progressStates: make(map[string]model.Progress),
	}

	emitter := &relay.FuncEmitter{
		OnProgress:    ui.onProgress,
		OnFinishQueue: ui.onFinishQueue,
	}
	runner := job.NewRunner(store, fetcher, engine, emitter)
	ui.sequencer = queue.NewSequencer(runner, emitter)

	ui.buildUI()
	return ui
}

func (ui *RootUI) buildUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("https://youtube.com/watch?v=...")
	ui.fetchBtn = widget.NewButton("Fetch", ui.onFetchClick)

	ui.videoSelect = widget.NewSelect([]string{NoSelectionLabel}, nil)
	ui.audioSelect = widget.NewSelect([]string{NoSelectionLabel}, nil)

	defaults := ui.settings.GetDefaultSwitches()
	ui.mergeCheck = widget.NewCheck("Merge video and audio", nil)
	ui.mergeCheck.SetChecked(defaults.Merge)
	ui.keepCheck = widget.NewCheck("Keep intermediate files", nil)
	ui.keepCheck.SetChecked(defaults.KeepFiles)
	ui.videoMP4Check = widget.NewCheck("Convert video to mp4", nil)
	ui.videoMP4Check.SetChecked(defaults.VideoToMP4)
	ui.audioMP3Check = widget.NewCheck("Convert audio to mp3", nil)
	ui.audioMP3Check.SetChecked(defaults.AudioToMP3)

	ui.addBtn = widget.NewButton("Add to queue", ui.onAddClick)
	ui.downloadBtn = widget.NewButton("Download", ui.onDownloadClick)
	ui.clearBtn = widget.NewButton("Clear queue", ui.onClearClick)

	ui.queueList = widget.NewList(
		func() int { return len(ui.queueItems) },
		func() fyne.CanvasObject {
			return container.NewVBox(widget.NewLabel(""), widget.NewProgressBar())
		},
		ui.updateQueueRow,
	)

	topPanel := container.NewBorder(nil, nil, nil, ui.fetchBtn, ui.urlEntry)
	selections := container.NewGridWithColumns(2, ui.videoSelect, ui.audioSelect)
	switches := container.NewGridWithColumns(2, ui.mergeCheck, ui.keepCheck, ui.videoMP4Check, ui.audioMP3Check)
	actions := container.NewHBox(ui.addBtn, ui.downloadBtn, ui.clearBtn)

	content := container.NewBorder(
		container.NewVBox(topPanel, selections, switches, actions),
		nil, nil, nil,
		ui.queueList,
	)
	ui.window.SetContent(content)
}

func (ui *RootUI) onFetchClick() {
	url := ui.urlEntry.Text
	if url == "" {
		ui.toast("Please enter a URL")
		return
	}

	ui.fetchBtn.Disable()
	go func() {
		summary, err := ui.resolver.Resolve(context.Background(), url)

		fyne.Do(func() {
			ui.fetchBtn.Enable()
			if err != nil {
				ui.toast(resolutionMessage(err))
				return
			}
			ui.summary = summary
			ui.videoSelect.SetOptions(optionLabels(summary.Video))
			ui.audioSelect.SetOptions(optionLabels(summary.Audio))
			ui.videoSelect.SetSelectedIndex(0)
			ui.audioSelect.SetSelectedIndex(0)
		})
	}()
}

func (ui *RootUI) onAddClick() {
	if ui.summary == nil {
		ui.toast("Fetch a video first")
		return
	}

	item := &model.QueueItem{
		ID:          uuid.NewString(),
		VideoID:     ui.summary.ID,
		VideoFormat: selectedID(ui.videoSelect, ui.summary.Video),
		AudioFormat: selectedID(ui.audioSelect, ui.summary.Audio),
		SaveDir:     ui.settings.GetSaveDirectory(),
		Title:       platform.SanitizeFilename(ui.summary.Title),
		Switches: model.Switches{
			Merge:      ui.mergeCheck.Checked,
			KeepFiles:  ui.keepCheck.Checked,
			VideoToMP4: ui.videoMP4Check.Checked,
			AudioToMP3: ui.audioMP3Check.Checked,
		},
	}

	if err := ui.list.Add(item); err != nil {
		ui.toast("Cannot add: " + err.Error())
		return
	}
	ui.progressStates[item.ID] = model.Progress{Status: model.JobStatusPending}
	ui.refreshQueue()
}

// onClearClick is the explicit reset action: it drops the queue, the
// accumulated progress, and the resolved metadata cache.
func (ui *RootUI) onClearClick() {
	if err := ui.list.Clear(); err != nil {
		ui.toast(err.Error())
		return
	}
	ui.store.Clear()
	ui.resolver.Invalidate()
	ui.summary = nil
	ui.videoSelect.SetOptions([]string{NoSelectionLabel})
	ui.audioSelect.SetOptions([]string{NoSelectionLabel})
	ui.progressStates = make(map[string]model.Progress)
	ui.refreshQueue()
}

func (ui *RootUI) onDownloadClick() {
	items, err := ui.list.BeginRun()
	if err != nil {
		ui.toast(err.Error())
		return
	}
	ui.downloadBtn.Disable()

	go func() {
		err := ui.sequencer.Run(context.Background(), items)

		fyne.Do(func() {
			ui.list.EndRun()
			ui.downloadBtn.Enable()
			if err != nil {
				log.Printf("Queue run failed: %v", err)
				ui.toast("Download failed: " + err.Error())
			}
		})
	}()
}

// onProgress merge-accumulates relay updates into the row states.
func (ui *RootUI) onProgress(itemID string, u relay.Update) {
	fyne.Do(func() {
		state := relay.Apply(ui.progressStates[itemID], u)
		ui.progressStates[itemID] = state
		ui.queueList.Refresh()

		if u.Completed && state.SavedAt != "" && ui.settings.GetRevealOnComplete() {
			go func(path string) {
				if err := platform.RevealInFileManager(path); err != nil {
					log.Printf("Failed to reveal %s: %v", path, err)
				}
			}(state.SavedAt)
		}
	})
}

func (ui *RootUI) onFinishQueue(count int) {
	fyne.Do(func() {
		ui.toast("Queue finished")
		log.Printf("Queue finished: %d item(s)", count)
	})
}

func (ui *RootUI) updateQueueRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(ui.queueItems) {
		return
	}
	item := ui.queueItems[id]
	state := ui.progressStates[item.ID]

	box := obj.(*fyne.Container)
	label := box.Objects[0].(*widget.Label)
	bar := box.Objects[1].(*widget.ProgressBar)

	text := item.Title
	switch {
	case state.Status.IsFinished():
		if state.Completed {
			text += " - saved to " + state.SavedAt
		} else {
			text += " - failed"
		}
	case state.Status.IsActive():
		text += " - " + state.Action
	}
	label.SetText(text)
	bar.SetValue(state.Value / 100)
}

func (ui *RootUI) refreshQueue() {
	ui.queueItems = ui.list.Items()
	ui.queueList.Refresh()
}

func (ui *RootUI) toast(message string) {
	popup := widget.NewModalPopUp(widget.NewLabel(message), ui.window.Canvas())
	popup.Show()
	go func() {
		time.Sleep(ToastAutoHide)
		fyne.Do(popup.Hide)
	}()
}

// resolutionMessage maps a classified resolution error to user wording.
func resolutionMessage(err error) string {
	var resErr *resolve.ResolutionError
	if !errors.As(err, &resErr) {
		return "Could not fetch video data"
	}
	switch resErr.Reason {
	case resolve.ReasonInvalidSource:
		return "dlpal only works with YouTube videos"
	case resolve.ReasonPrivateVideo:
		return "This video is private"
	default:
		return "This video is unavailable"
	}
}

func optionLabels(options []resolve.FormatOption) []string {
	labels := make([]string, 0, len(options)+1)
	labels = append(labels, NoSelectionLabel)
	for _, opt := range options {
		labels = append(labels, opt.Label)
	}
	return labels
}

// selectedID maps a select widget's chosen label back to the variant id.
func selectedID(sel *widget.Select, options []resolve.FormatOption) string {
	idx := sel.SelectedIndex()
	if idx <= 0 || idx > len(options) {
		return ""
	}
	return options[idx-1].ID
}
