package ui

import (
	depthdomain "github.com/fd1az/spreadscanner/business/depth/domain"
	spreaddomain "github.com/fd1az/spreadscanner/business/spread/domain"
	venuedomain "github.com/fd1az/spreadscanner/business/venue/domain"
)

// Reporter adapts the three pipeline stages and the supervisor onto the
// running Bubble Tea program, implementing pairsapp.Reporter,
// spreadapp.Reporter, depthapp.Reporter and supervisorapp.Reporter without
// importing any of them directly (avoiding an import cycle back into
// business/*): each of those packages declares its own minimal Reporter
// interface and Reporter satisfies all of them structurally.
type Reporter struct{}

// NewReporter builds a dashboard Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Snapshot satisfies business/pairs/app.Reporter.
func (r *Reporter) Snapshot(pairsTracked int) {
	Send(SnapshotMsg{PairsTracked: pairsTracked})
}

// VenueStatus satisfies business/pairs/app.Reporter.
func (r *Reporter) VenueStatus(venue venuedomain.VenueId, reachable bool) {
	Send(ConnectionStatusMsg{Name: string(venue), Connected: reachable})
}

// Candidate satisfies business/spread/app.Reporter.
func (r *Reporter) Candidate(c spreaddomain.Candidate) {
	Send(CandidateMsg{Candidate: c})
}

// Result satisfies business/depth/app.Reporter.
func (r *Reporter) Result(res depthdomain.DepthResult) {
	Send(ResultMsg{Result: res})
}

// WorkerState satisfies business/supervisor/app.Reporter.
func (r *Reporter) WorkerState(name, state string, restarts int) {
	Send(WorkerStateMsg{Worker: name, State: state, Restarts: restarts})
}
