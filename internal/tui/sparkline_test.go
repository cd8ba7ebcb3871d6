package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 4, "    "},
		{"zero width", []float64{1}, 0, ""},
		{"all zero", []float64{0, 0, 0}, 3, "▁▁▁"},
		{"ramp", []float64{0, 1}, 2, "▁█"},
		{"left pad", []float64{1}, 3, "  █"},
		{"keeps last", []float64{1, 0, 1}, 2, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSparkline(tt.values, tt.width, colorCyan)
			assert.Contains(t, got, tt.want)
			assert.Equal(t, tt.width, lipgloss.Width(got))
		})
	}
}

func TestRenderMiniBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", renderMiniBar(50, 10))
	assert.Equal(t, "░░░░", renderMiniBar(-5, 4))
	assert.Equal(t, "████", renderMiniBar(150, 4))
	assert.Equal(t, "", renderMiniBar(50, 0))
}

func TestLatencySeverity(t *testing.T) {
	interval := 10 * time.Second
	assert.Equal(t, severityNormal, latencySeverity(time.Second, interval))
	assert.Equal(t, severityWarning, latencySeverity(6*time.Second, interval))
	assert.Equal(t, severityCritical, latencySeverity(10*time.Second, interval))
	assert.Equal(t, severityNormal, latencySeverity(time.Hour, 0))
}

func TestPendingSeverity(t *testing.T) {
	assert.Equal(t, severityNormal, pendingSeverity(10, 0), "no reminders yet")
	assert.Equal(t, severityCritical, pendingSeverity(10, 2))
	assert.Equal(t, severityWarning, pendingSeverity(40, 2))
	assert.Equal(t, severityNormal, pendingSeverity(80, 2))
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "a[2Jbc", sanitize("a\x1b[2Jb\nc"))
	assert.Equal(t, "Quarter…", truncateName("Quarterly Survey", 8))
	assert.Equal(t, "short", truncateName("short", 8))
	assert.Equal(t, "x", truncateName("x", 0))
	assert.Equal(t, "Draft", titleCase("draft"))
	assert.Equal(t, "", titleCase(""))
}
