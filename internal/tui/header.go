package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

// renderHeader renders the top header bar.
//
// Layout:
//
//	left:   API base URL and tenant
//	center: colored "● STATE" indicator, with the last error while in error
//	right:  "Last: 03:04 PM IST  Poll: 10s"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := "batchwatch  " + app.baseURL
	if app.tenant != "" {
		left += "  tenant=" + app.tenant
	}

	indicator := "● " + strings.ToUpper(app.state.String())
	if app.state == model.StateError {
		detail := "retrying"
		if app.lastError != nil {
			detail = truncateName(app.lastError.Error(), 40)
		}
		indicator += "  " + detail
	}
	center := connStateStyle(app.state).Render(indicator)

	lastStr := "waiting for first poll"
	if !app.lastUpdated.IsZero() {
		lastStr = format.FormatTimeIST(app.lastUpdated) + " IST"
	}
	right := StyleDim.Render(fmt.Sprintf("Last: %s  Poll: %s", lastStr, formatDuration(app.interval)))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// formatDuration formats a poll interval as a compact string, e.g. "10s" or "2m".
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
