package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/batchwatch/internal/model"
)

// Color constants for the batchwatch palette.
var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorCyan   = lipgloss.Color("#06b6d4")
	colorPurple = lipgloss.Color("#8b5cf6")
	colorIndigo = lipgloss.Color("#6366f1")
	colorOrange = lipgloss.Color("#f97316")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
	colorAlt    = lipgloss.Color("#0f172a")
)

// StyleHeader is the full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleOverviewCard is a card in the status count bar.
var StyleOverviewCard = lipgloss.NewStyle().
	Background(colorAlt).
	Foreground(colorWhite).
	Padding(0, 1).
	Margin(0).
	Align(lipgloss.Center)

// StylePanel frames the detail panel.
var StylePanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorIndigo).
	Padding(0, 1)

// StyleToast is the base style of a toast; the border color follows severity.
var StyleToast = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, false, false, true).
	Padding(0, 1).
	Foreground(colorWhite)

// Utility styles.
var (
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorGray)
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// Named color styles for table cell coloring.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(colorOrange)
	StyleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	StyleCyan   = lipgloss.NewStyle().Foreground(colorCyan)
	StylePurple = lipgloss.NewStyle().Foreground(colorPurple)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)

// statusColor returns the display color of a batch lifecycle label.
func statusColor(s model.BatchStatus) lipgloss.Color {
	switch s {
	case model.StatusCompleted:
		return colorGreen
	case model.StatusFailed:
		return colorRed
	case model.StatusRunning:
		return colorBlue
	case model.StatusPaused:
		return colorYellow
	case model.StatusCancelled:
		return colorOrange
	case model.StatusScheduled:
		return colorCyan
	case model.StatusDraft:
		return colorPurple
	default:
		return colorGray
	}
}

// StatusStyle returns the bold foreground style for a batch status label.
func StatusStyle(s model.BatchStatus) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColor(s))
}

// severityColor maps a notification severity to its accent color.
func severityColor(s model.Severity) lipgloss.Color {
	switch s {
	case model.SeveritySuccess:
		return colorGreen
	case model.SeverityWarning:
		return colorYellow
	case model.SeverityError:
		return colorRed
	default:
		return colorBlue
	}
}

// connStateStyle returns the header indicator style for a connection state.
func connStateStyle(s model.ConnectionState) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case model.StateConnecting:
		return base.Foreground(colorBlue)
	case model.StateConnected:
		return base.Foreground(colorGreen)
	case model.StateError:
		return base.Foreground(colorRed)
	default:
		return base.Foreground(colorGray)
	}
}
