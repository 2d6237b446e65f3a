package queue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dlpal/dlpal/internal/model"
)

// ErrQueueRunning is returned for edits attempted while the sequencer is
// processing the queue. Items are never mutated once their job started.
var ErrQueueRunning = errors.New("queue: editing is locked while downloading")

// List is the editable, ordered set of queue items the UI builds up before
// handing it to the sequencer.
type List struct {
	mu      sync.Mutex
	items   []*model.QueueItem
	running bool
}

// NewList creates an empty queue list.
func NewList() *List {
	return &List{}
}

// Add validates and appends an item.
func (l *List) Add(item *model.QueueItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return ErrQueueRunning
	}
	l.items = append(l.items, item)
	return nil
}

// Edit replaces a not-yet-started item in place, keeping its position and
// id. The caller's item is copied, never mutated.
func (l *List) Edit(id string, item *model.QueueItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return ErrQueueRunning
	}
	for i, existing := range l.items {
		if existing.ID == id {
			replacement := *item
			replacement.ID = id
			l.items[i] = &replacement
			return nil
		}
	}
	return fmt.Errorf("queue: no item %s", id)
}

// Delete removes an item.
func (l *List) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return ErrQueueRunning
	}
	for i, existing := range l.items {
		if existing.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("queue: no item %s", id)
}

// Clear empties the queue.
func (l *List) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return ErrQueueRunning
	}
	l.items = nil
	return nil
}

// Items returns the items in submission order.
func (l *List) Items() []*model.QueueItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*model.QueueItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of queued items.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// BeginRun snapshots the items and locks the list for the duration of a
// sequencer run. It fails if a run is already in flight.
func (l *List) BeginRun() ([]*model.QueueItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return nil, ErrQueueRunning
	}
	l.running = true
	out := make([]*model.QueueItem, len(l.items))
	copy(out, l.items)
	return out, nil
}

// EndRun unlocks the list after a sequencer run settles.
func (l *List) EndRun() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
}
