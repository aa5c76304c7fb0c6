// Package worker isolates derivation runs from the caller's goroutine and
// relays progress and terminal messages through the event dispatcher.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/raceops/rewind/internal/events"
	"github.com/raceops/rewind/internal/yearly"
)

// Request identifies one derivation run.
type Request struct {
	Player   string `json:"player"`
	Year     int    `json:"year"`
	Timezone string `json:"timezone"`
}

// Deriver computes one player's yearly statistics.
type Deriver interface {
	Derive(ctx context.Context, name string, year int, tz string, onProgress yearly.ProgressFunc) (*yearly.Data, error)
}

// Runner executes derivation requests on dedicated goroutines. Each run
// publishes zero or more yearly:progress events followed by exactly one
// yearly:result or yearly:error event.
type Runner struct {
	engine     Deriver
	dispatcher *events.Dispatcher
	logger     *slog.Logger

	wg sync.WaitGroup
}

// NewRunner creates a runner publishing to the given dispatcher.
func NewRunner(engine Deriver, dispatcher *events.Dispatcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:     engine,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Submit starts one derivation run in its own goroutine and returns
// immediately. There is no mid-flight cancellation beyond ctx: once the
// store is loaded the run completes or fails, and an abandoned caller
// simply ignores the terminal event.
func (r *Runner) Submit(ctx context.Context, req Request) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx, req)
	}()
}

// Wait blocks until all submitted runs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, req Request) {
	onProgress := func(progress float64) {
		r.dispatcher.Dispatch(events.Event{
			Type: events.TypeYearlyProgress,
			Data: events.YearlyProgressEvent{
				Player:   req.Player,
				Year:     req.Year,
				Progress: progress,
			},
			Context: ctx,
		})
	}

	data, err := r.engine.Derive(ctx, req.Player, req.Year, req.Timezone, onProgress)
	if err != nil {
		r.logger.Error("derivation failed",
			"player", req.Player,
			"year", req.Year,
			"error", err)
		r.dispatcher.Dispatch(events.Event{
			Type: events.TypeYearlyError,
			Data: events.YearlyErrorEvent{
				Player: req.Player,
				Year:   req.Year,
				Error:  err.Error(),
			},
			Context: ctx,
		})
		return
	}

	r.dispatcher.Dispatch(events.Event{
		Type:    events.TypeYearlyResult,
		Data:    events.YearlyResultEvent{Data: data},
		Context: ctx,
	})
}
