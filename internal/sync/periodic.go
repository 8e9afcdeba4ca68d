package sync

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// EventKind identifies a scheduler event.
type EventKind int

const (
	// EventStarted is published once per run, after the first wait is armed.
	EventStarted EventKind = iota
	// EventTick is published after every sync, with the next wait already armed.
	EventTick
	// EventStopped is published when a run's loop exits.
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTick:
		return "tick"
	case EventStopped:
		return "stopped"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports scheduler progress to listeners.
type Event struct {
	Kind      EventKind
	RunID     string
	Tick      int
	Result    Result
	NextRunAt time.Time
}

// Listener receives events on the scheduler goroutine. It must not call
// Start or Stop.
type Listener func(Event)

// Status is a snapshot of the scheduler state.
type Status struct {
	Running        bool
	RunID          string
	Config         Config
	TickCount      int
	SuccessfulRuns int
	FailedRuns     int
	LastRunAt      time.Time
	NextRunAt      time.Time
	LastResult     *Result
}

// Scheduler runs a Runner every Config.Interval until stopped. Failed syncs
// are logged and retried at the same cadence; only Stop or cancelling the
// Start context ends a run. At most one loop exists at a time.
type Scheduler struct {
	runner     Runner
	clock      clock.Clock
	log        *log.Logger
	runOnStart bool
	listeners  []Listener

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	stopCh    chan struct{}
	done      chan struct{}

	mu     sync.RWMutex
	status Status
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// WithRunOnStart controls whether the first sync happens immediately (the
// default) or after one interval.
func WithRunOnStart(v bool) SchedulerOption {
	return func(s *Scheduler) { s.runOnStart = v }
}

// WithListener registers a listener for scheduler events.
func WithListener(l Listener) SchedulerOption {
	return func(s *Scheduler) { s.listeners = append(s.listeners, l) }
}

// NewScheduler creates a stopped Scheduler.
func NewScheduler(runner Runner, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		runner:     runner,
		clock:      clock.New(),
		log:        log.New(io.Discard),
		runOnStart: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a run with cfg. A run already in progress is stopped first,
// waiting for its loop to exit. The URL and permissions are not checked here.
func (s *Scheduler) Start(ctx context.Context, cfg Config) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.stopLocked() {
		s.log.Info("restarting periodic sync")
	}

	runID := uuid.NewString()
	stopCh := make(chan struct{})
	done := make(chan struct{})
	s.stopCh, s.done = stopCh, done

	s.mu.Lock()
	s.status = Status{Running: true, RunID: runID, Config: cfg}
	s.mu.Unlock()

	s.log.Info("periodic sync started",
		"run", runID, "url", cfg.SourceURL, "path", cfg.DestinationPath(), "interval", cfg.Interval)

	go s.loop(ctx, cfg, runID, stopCh, done)
	return nil
}

// Stop ends the current run and waits for its loop to exit. An in-flight
// sync is allowed to finish. Stopping a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.stopLocked() {
		s.log.Info("periodic sync stopped")
	}
}

// stopLocked stops the loop if there is one. Reports whether it did.
func (s *Scheduler) stopLocked() bool {
	if s.stopCh == nil {
		return false
	}
	close(s.stopCh)
	<-s.done
	s.stopCh, s.done = nil, nil

	s.mu.Lock()
	s.status = Status{}
	s.mu.Unlock()
	return true
}

// Running reports whether a loop is active.
func (s *Scheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status.Running
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	if st.LastResult != nil {
		r := *st.LastResult
		st.LastResult = &r
	}
	return st
}

func (s *Scheduler) loop(ctx context.Context, cfg Config, runID string, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer s.finish(runID)

	var timer *clock.Timer
	next := s.clock.Now()
	if !s.runOnStart {
		timer = s.clock.Timer(cfg.Interval)
		next = next.Add(cfg.Interval)
	}
	s.setNextRun(next)
	s.emit(Event{Kind: EventStarted, RunID: runID, NextRunAt: next})

	if timer != nil && !s.wait(ctx, timer, stopCh) {
		return
	}

	for tick := 1; ; tick++ {
		if stopping(ctx, stopCh) {
			return
		}

		result := s.runner.Run(ctx, cfg)

		// Arm the wait before publishing so NextRunAt is exact.
		timer = s.clock.Timer(cfg.Interval)
		next = s.clock.Now().Add(cfg.Interval)
		s.record(result, next)
		s.logResult(runID, tick, result)
		s.emit(Event{Kind: EventTick, RunID: runID, Tick: tick, Result: result, NextRunAt: next})

		if !s.wait(ctx, timer, stopCh) {
			return
		}
	}
}

// wait blocks until timer fires (true) or the run is stopped (false).
func (s *Scheduler) wait(ctx context.Context, timer *clock.Timer, stopCh <-chan struct{}) bool {
	select {
	case <-timer.C:
		return true
	case <-stopCh:
		timer.Stop()
		return false
	case <-ctx.Done():
		timer.Stop()
		return false
	}
}

func stopping(ctx context.Context, stopCh <-chan struct{}) bool {
	select {
	case <-stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *Scheduler) finish(runID string) {
	s.mu.Lock()
	if s.status.RunID == runID {
		s.status.Running = false
		s.status.NextRunAt = time.Time{}
	}
	s.mu.Unlock()
	s.emit(Event{Kind: EventStopped, RunID: runID})
}

func (s *Scheduler) setNextRun(next time.Time) {
	s.mu.Lock()
	s.status.NextRunAt = next
	s.mu.Unlock()
}

func (s *Scheduler) record(result Result, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.TickCount++
	if result.OK() {
		s.status.SuccessfulRuns++
	} else {
		s.status.FailedRuns++
	}
	s.status.LastRunAt = s.clock.Now()
	s.status.NextRunAt = next
	s.status.LastResult = &result
}

func (s *Scheduler) logResult(runID string, tick int, result Result) {
	if result.OK() {
		s.log.Info("config saved", "run", runID, "tick", tick, "path", result.Path)
		return
	}
	s.log.Error("sync failed", "run", runID, "tick", tick, "kind", result.Kind, "reason", result.Reason)
}

func (s *Scheduler) emit(e Event) {
	for _, l := range s.listeners {
		l(e)
	}
}
