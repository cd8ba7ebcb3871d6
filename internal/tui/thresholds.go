package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// severity represents the alert level for a measured value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// latencySeverity grades a poll latency against the poll interval: Warning
// above half the interval, Critical once it reaches the interval.
func latencySeverity(d, interval time.Duration) severity {
	switch {
	case interval <= 0:
		return severityNormal
	case d >= interval:
		return severityCritical
	case d > interval/2:
		return severityWarning
	default:
		return severityNormal
	}
}

// pendingSeverity grades how far behind a batch's recipients are: Warning
// when under half have completed after reminders went out, Critical under
// a quarter.
func pendingSeverity(percentDone float64, remindersSent int) severity {
	if remindersSent == 0 {
		return severityNormal
	}
	switch {
	case percentDone < 25:
		return severityCritical
	case percentDone < 50:
		return severityWarning
	default:
		return severityNormal
	}
}

func severityFg(s severity) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return colorGreen
	}
}
