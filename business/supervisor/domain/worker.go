// Package domain holds the Supervisor's worker contract and lifecycle
// state machine (spec §4.5): starting -> running -> (transient-failure ->
// running)* -> terminated -> (restarted), terminal only on shutdown.
package domain

import "context"

// Worker is one of the three pipeline stages (Normalizer, Scanner,
// Checker). Run blocks until ctx is cancelled or an unrecoverable error
// terminates the worker's internal loop; per-cycle errors are handled
// inside Run and never surface here.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

// State is a worker's lifecycle state as observed by the Supervisor.
type State string

const (
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateFailed   State = "failed"
	StateStopped  State = "stopped"
)

// WorkerFunc adapts a plain function plus a name into a Worker.
type WorkerFunc struct {
	WorkerName string
	RunFunc    func(ctx context.Context) error
}

func (f WorkerFunc) Name() string                  { return f.WorkerName }
func (f WorkerFunc) Run(ctx context.Context) error { return f.RunFunc(ctx) }
