package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/gatherd/internal/selection"
)

// Engine is the subset of the selection engine the driver invokes.
type Engine interface {
	StartNewDay(ctx context.Context) error
	MaybeFinalize(ctx context.Context) error
}

// Driver fires the two selection jobs: "start new day" at each local
// midnight and "maybe finalize" on a fixed interval. Job failures are
// logged and contained; the loop only exits when ctx is cancelled.
type Driver struct {
	Engine           Engine
	FinalizeInterval time.Duration

	now func() time.Time
}

func (d *Driver) Run(ctx context.Context) error {
	now := d.clock()

	ticker := time.NewTicker(d.FinalizeInterval)
	defer ticker.Stop()

	midnight := time.NewTimer(nextMidnight(now()).Sub(now()))
	defer midnight.Stop()

	// kick a finalize check immediately so a restart inside the window
	// does not wait a full interval
	d.maybeFinalize(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-midnight.C:
			d.startNewDay(ctx)
			midnight.Reset(nextMidnight(now()).Sub(now()))
		case <-ticker.C:
			d.maybeFinalize(ctx)
		}
	}
}

func (d *Driver) startNewDay(ctx context.Context) {
	switch err := d.Engine.StartNewDay(ctx); {
	case err == nil:
	case errors.Is(err, selection.ErrAlreadySelected):
		log.Printf("scheduler: selection already made for today")
	default:
		log.Printf("scheduler: start new day failed: %v", err)
	}
}

func (d *Driver) maybeFinalize(ctx context.Context) {
	switch err := d.Engine.MaybeFinalize(ctx); {
	case err == nil:
	case errors.Is(err, selection.ErrNoSelection):
		log.Printf("scheduler: no selection to finalize yet")
	default:
		log.Printf("scheduler: finalize check failed: %v", err)
	}
}

func (d *Driver) clock() func() time.Time {
	if d.now != nil {
		return d.now
	}
	return time.Now
}

// nextMidnight returns the first local midnight strictly after now.
func nextMidnight(now time.Time) time.Time {
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, now.Location())
}
