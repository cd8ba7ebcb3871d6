package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// sanitize drops control characters from server-provided text so a batch
// name cannot inject terminal escape sequences.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// truncateName shortens s to at most width terminal cells, marking the cut
// with an ellipsis.
func truncateName(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
