// Package render formats plan views for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planview/pv/internal/plan"
)

var (
	boldStyle       = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Faint(true)
	greenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	boldCyanStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	boldYellowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

func bold(s string) string       { return boldStyle.Render(s) }
func dim(s string) string        { return dimStyle.Render(s) }
func green(s string) string      { return greenStyle.Render(s) }
func boldCyan(s string) string   { return boldCyanStyle.Render(s) }
func boldYellow(s string) string { return boldYellowStyle.Render(s) }

var statusIcons = map[plan.Status]string{
	plan.StatusCompleted:  "✅",
	plan.StatusInProgress: "🔄",
	plan.StatusPending:    "⏳",
	plan.StatusBlocked:    "🛑",
	plan.StatusSkipped:    "⏭️",
}

// StatusIcon returns the emoji icon for a status.
func StatusIcon(s plan.Status) string {
	if icon, ok := statusIcons[s]; ok {
		return icon
	}
	return "❓"
}

// ProgressBar renders a fixed-width completion bar.
func ProgressBar(done, total int) string {
	const width = 20
	if total <= 0 {
		return dim(strings.Repeat("░", width))
	}
	filled := done * width / total
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return green(strings.Repeat("█", filled)) + dim(strings.Repeat("░", width-filled))
}

// dateOnly truncates an ISO timestamp to its date part.
func dateOnly(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	if ts == "" {
		return "unknown"
	}
	return ts
}
