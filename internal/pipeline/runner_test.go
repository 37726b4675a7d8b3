package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func newTestRunner(rec *recorder) *Runner {
	return NewRunner(DefaultSteps(), Options{
		Delay:    time.Millisecond,
		Metrics:  FixedMetrics{Duration: 1500 * time.Millisecond, RecordsProcessed: 2000, IssuesFound: 7},
		Observer: rec.observe,
	})
}

func TestDefaultSteps(t *testing.T) {
	t.Parallel()
	steps := DefaultSteps()
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
		require.Equal(t, StatusPending, s.Status)
		require.Nil(t, s.Duration)
	}
	require.Equal(t, []string{"extract", "validate", "clean", "transform", "load"}, ids)
}

func TestRunTransitionsInSequence(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	r := newTestRunner(rec)

	runID, ok := r.Start()
	require.True(t, ok)
	require.NotEmpty(t, runID)
	require.Zero(t, r.Snapshot().Progress)

	advances := 0
	for r.Advance(runID) {
		advances++
		require.Less(t, r.Snapshot().Progress, 100.0, "progress reaches 100 only after the last step")
	}
	require.Equal(t, 4, advances)

	events := rec.all()
	require.Len(t, events, 10, "pending→running→completed for each of 5 steps")
	last := 0.0
	for i, e := range events {
		step := i / 2
		require.Equal(t, step, e.Index)
		require.Equal(t, DefaultSteps()[step].ID, e.StepID)
		if i%2 == 0 {
			require.Equal(t, StatusPending, e.From)
			require.Equal(t, StatusRunning, e.To)
		} else {
			require.Equal(t, StatusRunning, e.From)
			require.Equal(t, StatusCompleted, e.To)
		}
		require.GreaterOrEqual(t, e.Progress, last)
		last = e.Progress
	}
	require.Equal(t, 100.0, events[len(events)-1].Progress)
	require.Equal(t, 80.0, events[len(events)-3].Progress)

	snap := r.Snapshot()
	require.False(t, snap.Running)
	require.True(t, snap.Finished())
	require.Equal(t, 100.0, snap.Progress)
	for _, s := range snap.Steps {
		require.Equal(t, StatusCompleted, s.Status)
		require.Equal(t, 1500*time.Millisecond, *s.Duration)
		require.Equal(t, 2000, *s.RecordsProcessed)
		require.Equal(t, 7, *s.IssuesFound)
	}
}

func TestStartWhileRunningHasNoEffect(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	r := newTestRunner(rec)

	runID, ok := r.Start()
	require.True(t, ok)
	require.True(t, r.Advance(runID))
	before := r.Snapshot()
	eventsBefore := len(rec.all())

	again, ok := r.Start()
	require.False(t, ok)
	require.Empty(t, again)
	require.Equal(t, before, r.Snapshot())
	require.Len(t, rec.all(), eventsBefore)
	require.Equal(t, 20.0, r.Snapshot().Progress)
}

func TestStaleRunIDIgnored(t *testing.T) {
	t.Parallel()
	r := newTestRunner(&recorder{})

	runID, _ := r.Start()
	for r.Advance(runID) {
	}
	second, ok := r.Start()
	require.True(t, ok)
	require.NotEqual(t, runID, second)

	require.False(t, r.Advance(runID))
	snap := r.Snapshot()
	require.Zero(t, snap.Progress)
	require.Equal(t, StatusRunning, snap.Steps[0].Status)
}

func TestRestartResetsStepsToPending(t *testing.T) {
	t.Parallel()
	r := newTestRunner(&recorder{})

	runID, _ := r.Start()
	for r.Advance(runID) {
	}
	_, ok := r.Start()
	require.True(t, ok)

	snap := r.Snapshot()
	require.Equal(t, StatusRunning, snap.Steps[0].Status)
	for _, s := range snap.Steps[1:] {
		require.Equal(t, StatusPending, s.Status)
		require.Nil(t, s.RecordsProcessed)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()
	r := newTestRunner(&recorder{})
	runID, _ := r.Start()
	r.Advance(runID)

	snap := r.Snapshot()
	*snap.Steps[0].RecordsProcessed = -1
	snap.Steps[1].Status = StatusError
	fresh := r.Snapshot()
	require.Equal(t, 2000, *fresh.Steps[0].RecordsProcessed)
	require.Equal(t, StatusRunning, fresh.Steps[1].Status)
}

func TestRunCompletesHeadless(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	r := newTestRunner(rec)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	require.True(t, r.Snapshot().Finished())
	require.Len(t, rec.all(), 10)
}

func TestRunCancelledMarksInterruptedStep(t *testing.T) {
	t.Parallel()
	r := NewRunner(DefaultSteps(), Options{Delay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, r.Running, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	snap := r.Snapshot()
	require.False(t, snap.Running)
	require.Equal(t, StatusError, snap.Steps[0].Status)
	require.Equal(t, StatusPending, snap.Steps[1].Status)
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	t.Parallel()
	r := newTestRunner(&recorder{})
	_, ok := r.Start()
	require.True(t, ok)
	require.ErrorIs(t, r.Run(context.Background()), ErrAlreadyRunning)
}

func TestLaunchDrivesInBackground(t *testing.T) {
	t.Parallel()
	r := NewRunner(DefaultSteps(), Options{Delay: 20 * time.Millisecond, Metrics: FixedMetrics{}})
	runID, err := r.Launch(context.Background())
	require.NoError(t, err)
	require.Equal(t, runID, r.Snapshot().RunID)

	_, err = r.Launch(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRunning)

	require.Eventually(t, func() bool { return r.Snapshot().Finished() }, 5*time.Second, time.Millisecond)
	require.Equal(t, 100.0, r.Snapshot().Progress)
}

func TestEmptyPipelineFinishesImmediately(t *testing.T) {
	t.Parallel()
	r := NewRunner(nil, Options{})
	_, ok := r.Start()
	require.True(t, ok)
	require.False(t, r.Running())
	require.Equal(t, 100.0, r.Snapshot().Progress)
	require.NoError(t, r.Run(context.Background()))
}

func TestFakeMetricsStayInRange(t *testing.T) {
	t.Parallel()
	f := NewFakeMetrics(7)
	for i := 0; i < 2000; i++ {
		m := f.Next(Step{})
		require.GreaterOrEqual(t, m.Duration, 1000*time.Millisecond)
		require.Less(t, m.Duration, 6000*time.Millisecond)
		require.GreaterOrEqual(t, m.RecordsProcessed, 1000)
		require.Less(t, m.RecordsProcessed, 11000)
		require.GreaterOrEqual(t, m.IssuesFound, 5)
		require.Less(t, m.IssuesFound, 55)
	}
}

func TestFakeMetricsSeedIsDeterministic(t *testing.T) {
	t.Parallel()
	a, b := NewFakeMetrics(99), NewFakeMetrics(99)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Next(Step{}), b.Next(Step{}))
	}
}
