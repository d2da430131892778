// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds pipeline-wide counters for display.
type Stats struct {
	Candidates int64
	Confirmed  int64
	Rejected   int64
	QueueDepth int
	Errors     int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	confirmRate := float64(0)
	if s.stats.Candidates > 0 {
		confirmRate = float64(s.stats.Confirmed) / float64(s.stats.Candidates) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Candidates: %s  │  Confirmed: %s (%.1f%%)  │  Rejected: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Candidates)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Confirmed)),
			confirmRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Rejected)),
		) +
		fmt.Sprintf("Queue depth: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.QueueDepth)),
			errorsDisplay,
		)
}
