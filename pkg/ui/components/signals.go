// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// SignalRow is one pipeline event in the scrolling feed: a Stage-1
// candidate as it was emitted, annotated with its Stage-2 outcome once
// the depth checker has processed it.
type SignalRow struct {
	Timestamp  string
	Pair       string
	BuyVenue   string
	SellVenue  string
	SpreadPct  float64
	Status     string // "pending", "confirmed", "rejected"
	Reason     string
}

// SignalsComponent renders the scrolling candidate/result feed.
type SignalsComponent struct {
	rows       []SignalRow
	maxRows    int
	offset     int
	visibleMax int
}

// NewSignalsComponent creates a new signals component.
func NewSignalsComponent(maxRows int) *SignalsComponent {
	return &SignalsComponent{
		rows:       make([]SignalRow, 0),
		maxRows:    maxRows,
		visibleMax: 8,
	}
}

// Add adds a new candidate to the feed (most recent first).
func (s *SignalsComponent) Add(row SignalRow) {
	s.rows = append([]SignalRow{row}, s.rows...)
	if len(s.rows) > s.maxRows {
		s.rows = s.rows[:s.maxRows]
	}
	s.offset = 0
}

// UpdateStatus fills in the Stage-2 outcome for the most recent row
// matching pair/buyVenue/sellVenue still marked pending.
func (s *SignalsComponent) UpdateStatus(pair, buyVenue, sellVenue, status, reason string) {
	for i := range s.rows {
		if s.rows[i].Pair == pair && s.rows[i].BuyVenue == buyVenue && s.rows[i].SellVenue == sellVenue && s.rows[i].Status == "pending" {
			s.rows[i].Status = status
			s.rows[i].Reason = reason
			return
		}
	}
}

// Clear clears the feed.
func (s *SignalsComponent) Clear() {
	s.rows = make([]SignalRow, 0)
	s.offset = 0
}

// ScrollUp scrolls the feed up.
func (s *SignalsComponent) ScrollUp() {
	if s.offset > 0 {
		s.offset--
	}
}

// ScrollDown scrolls the feed down.
func (s *SignalsComponent) ScrollDown() {
	maxOffset := len(s.rows) - s.visibleMax
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset < maxOffset {
		s.offset++
	}
}

// Count returns the total number of rows in the feed.
func (s *SignalsComponent) Count() int {
	return len(s.rows)
}

// View renders the signals component.
func (s *SignalsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	confirmedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	rejectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	scrollHint := lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))

	var result string
	result = headerStyle.Render("SIGNALS")
	if len(s.rows) > 0 {
		result += mutedStyle.Render(fmt.Sprintf(" (%d total, ↑↓ scroll)", len(s.rows)))
	}
	result += "\n\n"

	if len(s.rows) == 0 {
		result += mutedStyle.Render("  No candidates emitted yet.\n")
		result += mutedStyle.Render("  Scanning spreads...\n")
		return result
	}

	if s.offset > 0 {
		result += scrollHint.Render(fmt.Sprintf("  ▲ %d above\n", s.offset))
	}

	end := s.offset + s.visibleMax
	if end > len(s.rows) {
		end = len(s.rows)
	}

	for i := s.offset; i < end; i++ {
		row := s.rows[i]
		icon, style := "◌", mutedStyle
		switch row.Status {
		case "confirmed":
			icon, style = "●", confirmedStyle
		case "rejected":
			icon, style = "○", rejectedStyle
		}

		result += fmt.Sprintf("  %s [%s] %s  %s → %s  %+.3f%%  %s\n",
			style.Render(icon),
			row.Timestamp,
			row.Pair,
			row.BuyVenue,
			row.SellVenue,
			row.SpreadPct,
			style.Render(row.Status),
		)
		if row.Status == "rejected" && row.Reason != "" {
			result += mutedStyle.Render(fmt.Sprintf("      reason: %s\n", row.Reason))
		}
	}

	if end < len(s.rows) {
		result += scrollHint.Render(fmt.Sprintf("\n  ▼ %d more below\n", len(s.rows)-end))
	}

	return result
}
