package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

// renderOverview renders one count card per lifecycle label plus a total
// card and a poll latency card.
// Wide terminals (>= 100 cols): all cards in a single row.
// Narrow terminals: rows of 3.
// Returns empty string before the first successful poll.
func renderOverview(app *App) string {
	if !app.hasData {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}

	var cards []string
	counts := app.counts

	cardCount := len(model.KnownStatuses) + 2
	if counts.Other > 0 {
		cardCount++
	}
	narrowMode := width < 100
	perRow := cardCount
	if narrowMode {
		perRow = 3
	}
	cardWidth := width/perRow - 1
	if cardWidth < 10 {
		cardWidth = 10
	}

	total := StyleOverviewCard.
		Background(colorIndigo).
		Foreground(colorWhite).
		Bold(true).
		Width(cardWidth).
		Render(fmt.Sprintf("%d", counts.Total) + "\nBatches")
	cards = append(cards, total)

	for _, s := range model.KnownStatuses {
		n := counts.ByStatus[s]
		style := StyleOverviewCard.Foreground(statusColor(s)).Width(cardWidth)
		if n == 0 {
			style = style.Foreground(colorGray)
		}
		cards = append(cards, style.Render(fmt.Sprintf("%d", n)+"\n"+titleCase(string(s))))
	}
	if counts.Other > 0 {
		cards = append(cards, StyleOverviewCard.
			Foreground(colorGray).
			Width(cardWidth).
			Render(fmt.Sprintf("%d", counts.Other)+"\nOther"))
	}

	cards = append(cards, renderLatencyCard(app, cardWidth))

	if !narrowMode {
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderLatencyCard shows the last poll latency over a sparkline of recent
// latencies.
func renderLatencyCard(app *App, cardWidth int) string {
	points := app.history.Items()
	value := format.NotAvailable
	sev := severityNormal
	if len(points) > 0 {
		last := points[len(points)-1].Latency
		value = format.FormatLatency(last)
		sev = latencySeverity(last, app.interval)
	}

	sparkWidth := max(cardWidth-2, 4)
	spark := RenderSparkline(model.LatencySeconds(points), sparkWidth, colorCyan)

	return StyleOverviewCard.
		Foreground(severityFg(sev)).
		Width(cardWidth).
		Render(value + "\n" + spark)
}

// renderMiniBar renders a progress bar of width cells using "█" for filled
// and "░" for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := min(int(percent/100.0*float64(width)), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
