// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// WorkerStatus represents one supervised worker's observed lifecycle state.
type WorkerStatus struct {
	Name       string
	State      string // "starting", "running", "failed", "stopped"
	Restarts   int
	LastUpdate time.Time
}

// StatusComponent renders supervisor worker status.
type StatusComponent struct {
	workers []WorkerStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		workers: make([]WorkerStatus, 0),
	}
}

// Update upserts a worker's status.
func (s *StatusComponent) Update(status WorkerStatus) {
	for i, w := range s.workers {
		if w.Name == status.Name {
			s.workers[i] = status
			return
		}
	}
	s.workers = append(s.workers, status)
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.workers) == 0 {
		return "No workers"
	}

	runningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var result string
	for _, w := range s.workers {
		style := mutedStyle
		icon := "○"
		switch w.State {
		case "running":
			style, icon = runningStyle, "●"
		case "failed":
			style, icon = failedStyle, "✗"
		}

		line := fmt.Sprintf("├─ %s: %s", w.Name, style.Render(icon+" "+w.State))
		if w.Restarts > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" (%d restarts)", w.Restarts))
		}
		result += line + "\n"
	}

	return result
}
