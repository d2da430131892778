// Package ui provides the Bubble Tea dashboard for the spread scanner.
package ui

import (
	"time"

	depthdomain "github.com/fd1az/spreadscanner/business/depth/domain"
	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

// Message types for TUI updates.

// SnapshotMsg is sent when Stage-0 publishes a new SymbolMap.
type SnapshotMsg struct {
	PairsTracked int
	VenueCount   map[venuedomain.VenueId]int
}

// CandidateMsg is sent when Stage-1 emits a spread candidate.
type CandidateMsg struct {
	Candidate spreaddomain.Candidate
}

// ResultMsg is sent when Stage-2 finishes checking a candidate.
type ResultMsg struct {
	Result depthdomain.DepthResult
}

// WorkerStateMsg is sent when the supervisor observes a worker lifecycle
// transition.
type WorkerStateMsg struct {
	Worker   string
	State    string
	Restarts int
}

// ConnectionStatusMsg is sent after every Stage-0 cycle with each venue's
// reachability, whether or not it changed.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// WelcomeCompleteMsg signals the welcome screen is done (timeout or keypress).
type WelcomeCompleteMsg struct{}

// StartModulesMsg signals that the pipeline should start running.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
