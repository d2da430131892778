// Package app implements the Supervisor (spec §4.5): it starts one
// goroutine per pipeline-stage Worker, restarts any that terminate with
// exponential backoff, and joins them within a bounded grace period on
// shutdown.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sourcegraph/conc/panics"

	supervisordomain "github.com/fd1az/spreadscanner/business/supervisor/domain"
	"github.com/fd1az/spreadscanner/internal/logger"
)

const meterName = "business/supervisor"

// Config bounds the Supervisor's restart backoff and shutdown grace
// period (spec §9: "restarts must be rate-limited... the source does not
// rate-limit; implementations should add this").
type Config struct {
	RestartInitialBackoff time.Duration
	RestartMaxBackoff     time.Duration
	ShutdownGracePeriod   time.Duration
}

// Reporter receives worker lifecycle transitions for display. A nil
// Reporter on a Supervisor is a no-op.
type Reporter interface {
	WorkerState(name, state string, restarts int)
}

// Supervisor owns the lifecycle of every pipeline-stage Worker.
type Supervisor struct {
	workers []supervisordomain.Worker
	cfg     Config
	log     logger.LoggerInterface
	metrics *supervisorMetrics

	mu     sync.RWMutex
	states map[string]supervisordomain.State

	// Reporter is optional; set it after construction to observe worker
	// lifecycle transitions (e.g. pkg/ui's dashboard reporter).
	Reporter Reporter
}

// New builds a Supervisor for the given workers.
func New(cfg Config, log logger.LoggerInterface, workers ...supervisordomain.Worker) *Supervisor {
	states := make(map[string]supervisordomain.State, len(workers))
	for _, w := range workers {
		states[w.Name()] = supervisordomain.StateStarting
	}
	return &Supervisor{
		workers: workers,
		cfg:     cfg,
		log:     log,
		metrics: newSupervisorMetrics(),
		states:  states,
	}
}

// State returns the last-observed lifecycle state of the named worker.
func (s *Supervisor) State(name string) supervisordomain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[name]
}

func (s *Supervisor) setState(name string, state supervisordomain.State) {
	s.mu.Lock()
	s.states[name] = state
	s.mu.Unlock()
}

func (s *Supervisor) report(name string, state supervisordomain.State, restarts int) {
	if s.Reporter != nil {
		s.Reporter.WorkerState(name, string(state), restarts)
	}
}

// Run starts every worker and blocks until ctx is cancelled, then waits up
// to ShutdownGracePeriod for all of them to observe cancellation and
// return before Run itself returns.
func (s *Supervisor) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, w := range s.workers {
		wg.Add(1)
		go func(w supervisordomain.Worker) {
			defer wg.Done()
			s.supervise(ctx, w)
		}(w)
	}

	<-ctx.Done()
	s.log.Info(ctx, "supervisor received shutdown signal, waiting for workers")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info(ctx, "all workers stopped cleanly")
	case <-time.After(s.cfg.ShutdownGracePeriod):
		s.log.Warn(ctx, "shutdown grace period elapsed, abandoning laggard workers")
	}

	return nil
}

// supervise runs one worker forever, restarting it under exponential
// backoff whenever its Run call returns (transient error, unexpected nil
// return, or a recovered panic) until ctx is cancelled.
func (s *Supervisor) supervise(ctx context.Context, w supervisordomain.Worker) {
	boff := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(s.cfg.RestartInitialBackoff),
		backoff.WithMaxInterval(s.cfg.RestartMaxBackoff),
		backoff.WithMaxElapsedTime(0), // never give up; shutdown is ctx-driven
	)

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			s.setState(w.Name(), supervisordomain.StateStopped)
			s.report(w.Name(), supervisordomain.StateStopped, attempt)
			return
		}

		s.setState(w.Name(), supervisordomain.StateRunning)
		if attempt > 0 {
			s.log.Info(ctx, "worker restarted", "worker", w.Name(), "attempt", attempt)
			s.metrics.restarts.Add(ctx, 1)
		}
		s.report(w.Name(), supervisordomain.StateRunning, attempt)

		err := s.runOnce(ctx, w)

		if ctx.Err() != nil {
			s.setState(w.Name(), supervisordomain.StateStopped)
			s.report(w.Name(), supervisordomain.StateStopped, attempt)
			return
		}

		s.setState(w.Name(), supervisordomain.StateFailed)
		s.metrics.crashes.Add(ctx, 1)
		s.report(w.Name(), supervisordomain.StateFailed, attempt)
		s.log.Error(ctx, "worker terminated, restarting under backoff", "worker", w.Name(), "error", err)

		sleep := boff.NextBackOff()
		select {
		case <-ctx.Done():
			s.setState(w.Name(), supervisordomain.StateStopped)
			s.report(w.Name(), supervisordomain.StateStopped, attempt)
			return
		case <-time.After(sleep):
		}
	}
}

// runOnce invokes w.Run, converting a panic into an error so one worker's
// crash never takes down the Supervisor goroutine itself (spec §7:
// WorkerCrash "surfaced to the supervisor via process termination; causes
// a restart" — here, goroutine termination rather than process exit).
func (s *Supervisor) runOnce(ctx context.Context, w supervisordomain.Worker) (err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		err = w.Run(ctx)
	})
	if rec := catcher.Recovered(); rec != nil {
		return rec.AsError()
	}
	return err
}
