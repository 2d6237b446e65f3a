// Package relay is the one-way progress/event channel between a running
// job and the presentation layer. Each update carries only the fields that
// changed; the receiving side merge-accumulates them onto the item's last
// known progress state. Delivery is fire-and-forget with no acknowledgment
// and no backpressure.
package relay

import "github.com/dlpal/dlpal/internal/model"

// Update is a partial progress update for one queue item. Nil fields are
// left untouched by the receiver's merge. Completed and SavedAt are only
// ever set together on the final update of a job; when a job downloads and
// converts both media kinds without merging, SavedAt carries whichever
// output path was produced last.
type Update struct {
	Value     *float64
	Color     *model.ProgressColor
	Action    *string
	Status    *model.JobStatus
	Completed bool
	SavedAt   string
}

// Emitter pushes updates toward the presentation layer, keyed by item id.
type Emitter interface {
	Progress(itemID string, u Update)
	FinishQueue(count int)
}

// WithValue builds an update carrying only a progress value.
func WithValue(v float64) Update {
	v = model.ClampPercent(v)
	return Update{Value: &v}
}

// WithAction builds the phase-opening update carrying the job status, a
// color, and an action label.
func WithAction(status model.JobStatus, color model.ProgressColor, action string) Update {
	return Update{Status: &status, Color: &color, Action: &action}
}

// Completed builds the terminal update carrying the final saved path.
func Completed(savedAt string) Update {
	full := 100.0
	status := model.JobStatusCompleted
	return Update{Value: &full, Status: &status, Completed: true, SavedAt: savedAt}
}

// Failed builds the terminal update of a job that aborted with an error.
func Failed() Update {
	status := model.JobStatusError
	color := model.ColorError
	return Update{Status: &status, Color: &color}
}

// Apply is the merge-reducer for the receiving side: it folds a partial
// update onto the previous progress state and returns the new state.
func Apply(prev model.Progress, u Update) model.Progress {
	next := prev
	if u.Value != nil {
		next.Value = model.ClampPercent(*u.Value)
	}
	if u.Color != nil {
		next.Color = *u.Color
	}
	if u.Action != nil {
		next.Action = *u.Action
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.Completed {
		next.Completed = true
	}
	if u.SavedAt != "" {
		next.SavedAt = u.SavedAt
	}
	return next
}

// FuncEmitter adapts two closures into an Emitter. Either may be nil.
type FuncEmitter struct {
	OnProgress    func(itemID string, u Update)
	OnFinishQueue func(count int)
}

// Progress implements Emitter.
func (fe *FuncEmitter) Progress(itemID string, u Update) {
	if fe.OnProgress != nil {
		fe.OnProgress(itemID, u)
	}
}

// FinishQueue implements Emitter.
func (fe *FuncEmitter) FinishQueue(count int) {
	if fe.OnFinishQueue != nil {
		fe.OnFinishQueue(count)
	}
}
