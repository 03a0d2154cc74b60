package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roleflow/roleflow/internal/errors"
)

// fakeClock advances instantly on Sleep.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func countingRun(codes ...int) (*int, RunFunc) {
	calls := new(int)
	return calls, func(ctx context.Context) (int, error) {
		code := 0
		if *calls < len(codes) {
			code = codes[*calls]
		}
		*calls++
		return code, nil
	}
}

func TestRunWithoutRepeatExecutesOnce(t *testing.T) {
	clock := newFakeClock()
	calls, run := countingRun(7)

	code, err := NewWithClock(clock).Run(context.Background(), Options{}, run)
	require.NoError(t, err)
	require.Equal(t, 7, code)
	require.Equal(t, 1, *calls)
	require.Empty(t, clock.sleeps)
}

func TestRunRepeatsUntilWindowExhausted(t *testing.T) {
	clock := newFakeClock()
	calls, run := countingRun()

	code, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 3, RepeatEverySeconds: 1}, run)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	// Runs at t=0,1,2,3; the window is then exhausted. Runs cost no fake
	// time, so the boundary run at t=3 still fits.
	require.Equal(t, 4, *calls)
	require.Len(t, clock.sleeps, 3)
	require.Equal(t, time.Second, clock.sleeps[0])
}

func TestRunStopsWhenIntervalExceedsRemaining(t *testing.T) {
	clock := newFakeClock()
	calls, run := countingRun()

	_, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 10, RepeatEverySeconds: 30}, run)
	require.NoError(t, err)
	require.Equal(t, 1, *calls)
	require.Empty(t, clock.sleeps)
}

func TestRunHonorsMaxRuns(t *testing.T) {
	clock := newFakeClock()
	calls, run := countingRun()

	code, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 3600, RepeatEverySeconds: 1, MaxRuns: 1}, run)
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Equal(t, 1, *calls)
	require.Empty(t, clock.sleeps)
}

func TestRunStopsOnNonzeroExitWithoutContinueOnError(t *testing.T) {
	clock := newFakeClock()
	calls, run := countingRun(0, 3)

	code, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 3600, RepeatEverySeconds: 1}, run)
	require.NoError(t, err)
	require.Equal(t, 3, code)
	require.Equal(t, 2, *calls)
	require.Len(t, clock.sleeps, 1)
}

func TestRunContinueOnErrorReportsLastNonzero(t *testing.T) {
	clock := newFakeClock()
	calls, run := countingRun(2, 0, 5)

	code, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 3600, RepeatEverySeconds: 1, MaxRuns: 3, ContinueOnError: true}, run)
	require.NoError(t, err)
	require.Equal(t, 5, code)
	require.Equal(t, 3, *calls)
}

func TestRunDefaultsIntervalToTenMinutes(t *testing.T) {
	clock := newFakeClock()
	_, run := countingRun()

	_, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 3600}, run)
	require.NoError(t, err)
	require.NotEmpty(t, clock.sleeps)
	require.Equal(t, 10*time.Minute, clock.sleeps[0])
}

func TestRunPropagatesRunErrors(t *testing.T) {
	clock := newFakeClock()
	wantErr := errors.New(errors.CodeRunnerNotFound, "missing")
	run := func(ctx context.Context) (int, error) { return 0, wantErr }

	_, err := NewWithClock(clock).Run(context.Background(),
		Options{RepeatForSeconds: 10, RepeatEverySeconds: 1}, run)
	require.Equal(t, errors.CodeRunnerNotFound, errors.CodeOf(err))
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := newFakeClock()
	run := func(ctx context.Context) (int, error) {
		cancel()
		return 0, nil
	}

	_, err := NewWithClock(clock).Run(ctx,
		Options{RepeatForSeconds: 3600, RepeatEverySeconds: 1}, run)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, Options{}.Validate())
	require.NoError(t, Options{RepeatForSeconds: 60, MaxRuns: 2, ContinueOnError: true}.Validate())

	err := Options{MaxRuns: -1}.Validate()
	require.Equal(t, errors.CodeInvalidCadence, errors.CodeOf(err))

	err = Options{MaxRuns: 2}.Validate()
	require.Equal(t, errors.CodeInvalidCadence, errors.CodeOf(err))

	err = Options{ContinueOnError: true}.Validate()
	require.Equal(t, errors.CodeInvalidCadence, errors.CodeOf(err))
}
