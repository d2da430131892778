package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	supervisordomain "github.com/fd1az/spreadscanner/business/supervisor/domain"
	"github.com/fd1az/spreadscanner/internal/logger"
)

// crashOnceWorker crashes on its first Run call, then blocks on ctx until
// cancelled, to exercise the Supervisor's restart-with-backoff path
// (Scenario F: a dead worker is observed running again within one
// supervisor cycle).
type crashOnceWorker struct {
	calls int32
}

func (w *crashOnceWorker) Name() string { return "test-worker" }

func (w *crashOnceWorker) Run(ctx context.Context) error {
	if atomic.AddInt32(&w.calls, 1) == 1 {
		return errors.New("boom")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestSupervisorRestartsFailedWorker(t *testing.T) {
	w := &crashOnceWorker{}
	s := New(Config{
		RestartInitialBackoff: time.Millisecond,
		RestartMaxBackoff:     10 * time.Millisecond,
		ShutdownGracePeriod:   time.Second,
	}, logger.Discard(), w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&w.calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("worker was not restarted within deadline, calls=%d", atomic.LoadInt32(&w.calls))
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run() did not return after cancel")
	}

	if got := s.State(w.Name()); got != supervisordomain.StateStopped {
		t.Fatalf("State() = %q, want %q", got, supervisordomain.StateStopped)
	}
}
