package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/etlstudio/internal/logging"
)

// DefaultStepDelay is how long each step stays running.
const DefaultStepDelay = 2 * time.Second

// ErrAlreadyRunning is returned by Run when a run is in progress.
var ErrAlreadyRunning = errors.New("pipeline already running")

// Observer receives every status transition in order.
type Observer func(Event)

// Options configures a Runner. Zero values pick defaults.
type Options struct {
	Delay    time.Duration
	Metrics  MetricsSource
	Logger   *slog.Logger
	Observer Observer
}

// Runner holds the step list and advances it one step at a time.
//
// Start and Advance are meant to be driven from one goroutine (the bubbletea
// update loop or Run); Snapshot may be called from anywhere.
type Runner struct {
	mu       sync.Mutex
	template []Step
	steps    []Step
	current  int
	running  bool
	progress float64
	runID    string

	delay    time.Duration
	metrics  MetricsSource
	logger   *slog.Logger
	observer Observer
}

// NewRunner builds a runner over a fixed step sequence.
func NewRunner(steps []Step, opts Options) *Runner {
	if opts.Delay <= 0 {
		opts.Delay = DefaultStepDelay
	}
	if opts.Metrics == nil {
		opts.Metrics = NewFakeMetrics(0)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	template := make([]Step, len(steps))
	for i, s := range steps {
		template[i] = Step{ID: s.ID, Name: s.Name, Description: s.Description, Status: StatusPending}
	}
	return &Runner{
		template: template,
		steps:    slices.Clone(template),
		current:  -1,
		delay:    opts.Delay,
		metrics:  opts.Metrics,
		logger:   logging.WithComponent(opts.Logger, "pipeline"),
		observer: opts.Observer,
	}
}

// Delay is the wall-clock time a step stays running.
func (r *Runner) Delay() time.Duration { return r.delay }

// Start begins a run. It returns false and changes nothing while a run is in progress.
func (r *Runner) Start() (string, bool) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return "", false
	}
	r.runID = uuid.NewString()
	r.steps = slices.Clone(r.template)
	r.progress = 0
	var events []Event
	if len(r.steps) == 0 {
		r.progress = 100
		r.current = -1
	} else {
		r.running = true
		r.current = 0
		events = append(events, r.transition(0, StatusRunning))
	}
	runID := r.runID
	total := len(r.steps)
	r.mu.Unlock()

	logging.WithRunID(r.logger, runID).Info("pipeline started", "steps", total, "step_delay", r.delay.String())
	r.emit(events)
	return runID, true
}

// Advance completes the running step of runID and starts the next one.
// It reports whether another step is now running; stale run ids are ignored.
func (r *Runner) Advance(runID string) bool {
	r.mu.Lock()
	if !r.running || runID != r.runID || r.current < 0 {
		r.mu.Unlock()
		return false
	}
	idx := r.current
	m := r.metrics.Next(r.steps[idx])
	step := &r.steps[idx]
	step.Duration = &m.Duration
	step.RecordsProcessed = &m.RecordsProcessed
	step.IssuesFound = &m.IssuesFound
	r.progress = float64(r.completedLocked()+1) / float64(len(r.steps)) * 100
	events := []Event{r.transition(idx, StatusCompleted)}

	next := idx + 1
	more := next < len(r.steps)
	if more {
		r.current = next
		events = append(events, r.transition(next, StatusRunning))
	} else {
		r.current = -1
		r.running = false
		r.progress = 100
	}
	stepID := step.ID
	r.mu.Unlock()

	log := logging.WithRunID(r.logger, runID)
	log.Info("step completed", "step", stepID, "records", m.RecordsProcessed, "issues", m.IssuesFound, "duration_ms", m.Duration.Milliseconds())
	if !more {
		log.Info("pipeline finished")
	}
	r.emit(events)
	return more
}

// Run drives a complete run on the calling goroutine, sleeping Delay per step.
// Cancelling ctx stops the run and marks the interrupted step as errored.
func (r *Runner) Run(ctx context.Context) error {
	runID, ok := r.Start()
	if !ok {
		return ErrAlreadyRunning
	}
	return r.drive(ctx, runID)
}

// Launch starts a run and drives it on a new goroutine. The returned run id
// is already current when Launch returns.
func (r *Runner) Launch(ctx context.Context) (string, error) {
	runID, ok := r.Start()
	if !ok {
		return "", ErrAlreadyRunning
	}
	go func() { _ = r.drive(ctx, runID) }()
	return runID, nil
}

func (r *Runner) drive(ctx context.Context, runID string) error {
	if !r.Running() {
		return nil
	}
	for {
		t := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			r.abort(runID, ctx.Err())
			return ctx.Err()
		case <-t.C:
		}
		if !r.Advance(runID) {
			return nil
		}
	}
}

func (r *Runner) abort(runID string, cause error) {
	r.mu.Lock()
	if !r.running || runID != r.runID {
		r.mu.Unlock()
		return
	}
	var events []Event
	if r.current >= 0 {
		events = append(events, r.transition(r.current, StatusError))
	}
	r.running = false
	r.current = -1
	r.mu.Unlock()

	logging.WithRunID(r.logger, runID).Warn("pipeline interrupted", "error", cause)
	r.emit(events)
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Snapshot copies the current state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]Step, len(r.steps))
	for i, s := range r.steps {
		steps[i] = s
		if s.Duration != nil {
			d := *s.Duration
			steps[i].Duration = &d
		}
		if s.RecordsProcessed != nil {
			n := *s.RecordsProcessed
			steps[i].RecordsProcessed = &n
		}
		if s.IssuesFound != nil {
			n := *s.IssuesFound
			steps[i].IssuesFound = &n
		}
	}
	return Snapshot{RunID: r.runID, Steps: steps, Progress: r.progress, Running: r.running}
}

func (r *Runner) completedLocked() int {
	n := 0
	for _, s := range r.steps {
		if s.Status == StatusCompleted {
			n++
		}
	}
	return n
}

func (r *Runner) transition(idx int, to Status) Event {
	from := r.steps[idx].Status
	r.steps[idx].Status = to
	return Event{RunID: r.runID, Index: idx, StepID: r.steps[idx].ID, From: from, To: to, Progress: r.progress}
}

func (r *Runner) emit(events []Event) {
	if r.observer == nil {
		return
	}
	for _, e := range events {
		r.observer(e)
	}
}
