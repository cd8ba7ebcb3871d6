package tui

import (
	"fmt"
	"strings"

	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

const (
	feedCapacity = 50
	feedVisible  = 5
)

// renderFeed lists the most recent transitions, newest first.
func renderFeed(app *App) string {
	recent := app.transitions.Latest(feedVisible)
	if len(recent) == 0 {
		return ""
	}
	lines := []string{StyleTitle.Render("Recent transitions")}
	for _, t := range recent {
		name := t.BatchName
		if name == "" {
			name = t.BatchID
		}
		lines = append(lines, fmt.Sprintf("  %s  %s  %s → %s",
			StyleDim.Render(format.FormatClockIST(t.ObservedAt)),
			truncateName(sanitize(name), 30),
			StatusStyle(t.From).Render(sanitize(t.From.String())),
			StatusStyle(t.To).Render(sanitize(t.To.String())),
		))
	}
	return strings.Join(lines, "\n")
}

// recordTransitions appends a poll's transitions to the feed.
func recordTransitions(feed *model.Ring[model.Transition], ts []model.Transition) {
	for _, t := range ts {
		feed.Push(t)
	}
}
