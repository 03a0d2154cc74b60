// Package scheduler drives zero or more runner invocations of a single
// prepared prompt over a bounded window and run count.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roleflow/roleflow/internal/errors"
	"github.com/roleflow/roleflow/internal/observability"
)

// DefaultRepeatEverySeconds is the cadence applied when repeat_for is set
// without repeat_every.
const DefaultRepeatEverySeconds = 600

// Clock abstracts time for tests. Sleep returns early with the context
// error when the context is cancelled.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunFunc executes one runner invocation and reports its exit code. An error
// means the invocation itself failed (not a nonzero exit).
type RunFunc func(ctx context.Context) (int, error)

// Options configures a repeat schedule. Zero values mean unset.
type Options struct {
	// RepeatForSeconds bounds the total schedule. Unset means exactly one
	// run.
	RepeatForSeconds float64
	// RepeatEverySeconds is the sleep between runs; defaults to 10 minutes
	// when RepeatForSeconds is set.
	RepeatEverySeconds float64
	// MaxRuns caps the number of runs. Requires RepeatForSeconds.
	MaxRuns int
	// ContinueOnError records nonzero exits and keeps going instead of
	// stopping at the first failure. Requires RepeatForSeconds.
	ContinueOnError bool
}

// Validate enforces the cadence preconditions.
func (o Options) Validate() error {
	if o.MaxRuns < 0 {
		return errors.New(errors.CodeInvalidCadence, "--max-runs must be greater than zero")
	}
	if o.RepeatForSeconds == 0 {
		if o.MaxRuns != 0 {
			return errors.New(errors.CodeInvalidCadence, "--max-runs requires repeat-for (CLI or template default)")
		}
		if o.ContinueOnError {
			return errors.New(errors.CodeInvalidCadence, "--continue-on-error requires repeat-for (CLI or template default)")
		}
	}
	return nil
}

// Scheduler runs a prepared invocation on a repeat cadence.
type Scheduler struct {
	clock Clock
}

// New creates a scheduler on the real clock.
func New() *Scheduler {
	return &Scheduler{clock: realClock{}}
}

// NewWithClock creates a scheduler on an injected clock, for tests.
func NewWithClock(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Run executes the schedule and returns the final exit code: with no repeat
// window, the single run's code; with one, the last nonzero code seen (zero
// if none). A nonzero run stops the schedule immediately unless
// ContinueOnError is set. After each run the stop conditions are evaluated
// in order: max runs reached, then window exhausted or the interval no
// longer fitting into the remaining time.
func (s *Scheduler) Run(ctx context.Context, opts Options, run RunFunc) (int, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	if opts.RepeatForSeconds == 0 {
		return run(ctx)
	}

	every := opts.RepeatEverySeconds
	if every == 0 {
		every = DefaultRepeatEverySeconds
	}
	interval := secondsToDuration(every)
	deadline := s.clock.Now().Add(secondsToDuration(opts.RepeatForSeconds))
	scheduleID := uuid.New().String()

	runIndex := 0
	lastNonZero := 0
	for {
		runIndex++
		s.progress("run starting",
			zap.String("schedule_id", scheduleID),
			zap.Int("run", runIndex))

		code, err := run(ctx)
		if err != nil {
			return 0, err
		}
		if code != 0 {
			lastNonZero = code
			if !opts.ContinueOnError {
				return code, nil
			}
		}

		if opts.MaxRuns != 0 && runIndex >= opts.MaxRuns {
			break
		}
		remaining := deadline.Sub(s.clock.Now())
		if remaining <= 0 || interval > remaining {
			break
		}

		s.progress("sleeping before next run",
			zap.String("schedule_id", scheduleID),
			zap.Int("run", runIndex),
			zap.Duration("interval", interval))
		if err := s.clock.Sleep(ctx, interval); err != nil {
			return lastNonZero, err
		}
	}
	return lastNonZero, nil
}

func (s *Scheduler) progress(msg string, fields ...zap.Field) {
	if observability.CLILogger != nil {
		observability.CLILogger.Info(msg, fields...)
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
