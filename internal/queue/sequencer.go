// Package queue runs the submitted items' jobs strictly one at a time, in
// submission order, and signals aggregate completion once with the number
// of items processed. The single-worker constraint is structural: the next
// job is not even constructed until the previous one has returned.
package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/dlpal/dlpal/internal/model"
	"github.com/dlpal/dlpal/internal/relay"
)

// JobRunner executes one item's job to completion.
type JobRunner interface {
	Run(ctx context.Context, item *model.QueueItem) error
}

// Sequencer owns the ordered run over a batch of queue items.
type Sequencer struct {
	runner  JobRunner
	emitter relay.Emitter
}

// NewSequencer creates a sequencer over a job runner and the relay.
func NewSequencer(runner JobRunner, emitter relay.Emitter) *Sequencer {
	return &Sequencer{runner: runner, emitter: emitter}
}

// Run processes every item in order. The first job error aborts the run
// and propagates; remaining items never start (fail-fast, no per-item
// isolation, no retry). On success the finish event carries the processed
// count; an empty batch finishes immediately with a count of zero.
func (s *Sequencer) Run(ctx context.Context, items []*model.QueueItem) error {
	for i, item := range items {
		log.Printf("Queue: starting item %d/%d (%s)", i+1, len(items), item.ID)

		if err := s.runner.Run(ctx, item); err != nil {
			return fmt.Errorf("queue aborted at item %d/%d: %w", i+1, len(items), err)
		}
	}

	s.emitter.FinishQueue(len(items))
	return nil
}
