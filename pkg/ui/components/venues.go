// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// VenueRow represents one configured venue's reachability in the table.
type VenueRow struct {
	Venue      string
	Enabled    bool
	Connected  bool
	Latency    time.Duration
	LastUpdate time.Time
}

// VenuesComponent renders the snapshot size and per-venue reachability.
type VenuesComponent struct {
	pairsTracked int
	rows         map[string]VenueRow
	order        []string
}

// NewVenuesComponent creates a new venues component.
func NewVenuesComponent() *VenuesComponent {
	return &VenuesComponent{rows: make(map[string]VenueRow)}
}

// SetPairsTracked updates the Stage-0 SymbolMap size.
func (v *VenuesComponent) SetPairsTracked(n int) {
	v.pairsTracked = n
}

// UpdateVenue upserts a venue's reachability row.
func (v *VenuesComponent) UpdateVenue(row VenueRow) {
	if _, ok := v.rows[row.Venue]; !ok {
		v.order = append(v.order, row.Venue)
	}
	v.rows[row.Venue] = row
}

// View renders the venues component.
func (v *VenuesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	badStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var result string
	result = headerStyle.Render(fmt.Sprintf("PAIRS TRACKED: %d", v.pairsTracked))
	result += "\n\n"

	if len(v.order) == 0 {
		result += dimStyle.Render("  Waiting for venue data...") + "\n"
		return result
	}

	result += fmt.Sprintf("  %-10s  %-12s  %10s\n", "Venue", "Status", "Latency")
	result += dimStyle.Render("  "+strings.Repeat("─", 36)) + "\n"

	for _, name := range v.order {
		row := v.rows[name]
		status := okStyle.Render("● reachable")
		if !row.Enabled {
			status = dimStyle.Render("○ disabled")
		} else if !row.Connected {
			status = badStyle.Render("○ unreachable")
		}

		latency := ""
		if row.Connected && row.Latency > 0 {
			latency = row.Latency.Round(time.Millisecond).String()
		}

		result += fmt.Sprintf("  %-10s  %s  %10s\n", name, status, latency)
	}

	return result
}
