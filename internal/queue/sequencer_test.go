package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/dlpal/dlpal/internal/model"
	"github.com/dlpal/dlpal/internal/relay"
)

// recordingRunner notes the order items run in and whether runs overlap.
type recordingRunner struct {
	ran     []string
	running bool
	failOn  string
}

func (rr *recordingRunner) Run(ctx context.Context, item *model.QueueItem) error {
	if rr.running {
		return errors.New("jobs overlap")
	}
	rr.running = true
	defer func() { rr.running = false }()

	rr.ran = append(rr.ran, item.ID)
	if item.ID == rr.failOn {
		return errors.New("job failed")
	}
	return nil
}

func items(ids ...string) []*model.QueueItem {
	out := make([]*model.QueueItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, &model.QueueItem{ID: id})
	}
	return out
}

func TestRunProcessesInOrder(t *testing.T) {
	runner := &recordingRunner{}
	finishCount := -1
	emitter := &relay.FuncEmitter{OnFinishQueue: func(count int) { finishCount = count }}

	err := NewSequencer(runner, emitter).Run(context.Background(), items("a", "b", "c"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(runner.ran) != 3 || runner.ran[0] != "a" || runner.ran[1] != "b" || runner.ran[2] != "c" {
		t.Errorf("Expected submission order, got %v", runner.ran)
	}
	if finishCount != 3 {
		t.Errorf("Expected finish_queue(3), got %d", finishCount)
	}
}

func TestRunEmptyQueue(t *testing.T) {
	finishCount := -1
	emitter := &relay.FuncEmitter{OnFinishQueue: func(count int) { finishCount = count }}

	err := NewSequencer(&recordingRunner{}, emitter).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error for empty queue, got %v", err)
	}
	if finishCount != 0 {
		t.Errorf("Expected finish_queue(0), got %d", finishCount)
	}
}

func TestRunFailFast(t *testing.T) {
	runner := &recordingRunner{failOn: "a"}
	finished := false
	emitter := &relay.FuncEmitter{OnFinishQueue: func(count int) { finished = true }}

	err := NewSequencer(runner, emitter).Run(context.Background(), items("a", "b"))
	if err == nil {
		t.Fatal("Expected error when the first job fails")
	}

	if len(runner.ran) != 1 {
		t.Errorf("Expected item b to never start, ran %v", runner.ran)
	}
	if finished {
		t.Error("Expected no finish event after an aborted run")
	}
}
