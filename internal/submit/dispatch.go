package submit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/idilsaglam/recipes/internal/logging"
	"github.com/idilsaglam/recipes/internal/model"
)

// Outcome observes a finished submission. It runs on the submission goroutine.
type Outcome func(r model.Recipe, resp *Response, err error)

// Dispatcher runs submissions as detached goroutines. Callers hand a recipe
// over and move on; nothing waits for the result except process shutdown.
type Dispatcher struct {
	sub     Submitter
	log     *slog.Logger
	outcome Outcome

	wg sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

// WithOutcome registers an observer for finished submissions.
func WithOutcome(fn Outcome) DispatcherOption {
	return func(d *Dispatcher) { d.outcome = fn }
}

func NewDispatcher(s Submitter, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{sub: s, log: logging.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts the submission and returns immediately. Failures are logged
// and otherwise dropped.
func (d *Dispatcher) Dispatch(r model.Recipe) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		resp, err := d.sub.Submit(context.Background(), r)
		if err != nil {
			d.log.Debug("recipe submission dropped", "name", r.Name, "err", err)
		} else {
			d.log.Info("recipe submitted", "name", r.Name, "status", resp.Status)
		}
		if d.outcome != nil {
			d.outcome(r, resp, err)
		}
	}()
}

// Wait blocks until in-flight submissions finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
