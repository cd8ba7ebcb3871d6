package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/batchwatch/internal/model"
)

// maxToasts is the number of toasts kept on screen at once.
const maxToasts = 5

// toastStack holds visible notifications, newest first.
type toastStack struct {
	items []model.Notification
}

// Add puts n on top, evicting the oldest when more than maxToasts are
// visible. Notifications without a display duration are ignored.
func (s *toastStack) Add(n model.Notification) {
	if n.Duration <= 0 {
		return
	}
	s.items = append([]model.Notification{n}, s.items...)
	if len(s.items) > maxToasts {
		s.items = s.items[:maxToasts]
	}
}

// Prune drops toasts whose display time has passed at now.
func (s *toastStack) Prune(now time.Time) {
	kept := s.items[:0]
	for _, n := range s.items {
		if now.Before(n.ExpiresAt()) {
			kept = append(kept, n)
		}
	}
	s.items = kept
}

func (s *toastStack) Len() int {
	return len(s.items)
}

func (s *toastStack) render(width int) string {
	if len(s.items) == 0 {
		return ""
	}
	w := min(max(width/2, 30), 60)
	lines := make([]string, 0, len(s.items))
	for _, n := range s.items {
		lines = append(lines, StyleToast.
			BorderForeground(severityColor(n.Severity)).
			Width(w).
			Render(truncateName(sanitize(n.Message), w-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
