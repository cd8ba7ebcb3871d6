package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

const detailRecipientRows = 8

// detailPanel is the batch detail overlay opened with enter.
type detailPanel struct {
	batchID string
	title   string
	loading bool
	err     error
	detail  *model.BatchDetail
	offset  int // first visible recipient
}

func newDetailPanel(row model.BatchRow) *detailPanel {
	title := row.Name
	if title == "" {
		title = row.ID
	}
	return &detailPanel{batchID: row.ID, title: title, loading: true}
}

func (d *detailPanel) apply(msg DetailMsg) {
	if msg.BatchID != d.batchID {
		return
	}
	d.loading = false
	d.err = msg.Err
	d.detail = msg.Detail
	d.offset = 0
}

func (d *detailPanel) scroll(delta int) {
	if d.detail == nil {
		return
	}
	maxOffset := max(len(d.detail.Recipients)-detailRecipientRows, 0)
	d.offset = max(0, min(d.offset+delta, maxOffset))
}

func (d *detailPanel) render(width int) string {
	w := max(width-4, 40)
	head := StyleTitle.Render("Batch: "+truncateName(sanitize(d.title), w-20)) +
		"  " + StyleDim.Render("[↑↓: scroll]  [esc: close]")

	var body string
	switch {
	case d.loading:
		body = StyleDim.Render("Loading...")
	case d.err != nil:
		body = StyleError.Render("Failed to load batch: " + truncateName(d.err.Error(), w-22))
	case d.detail != nil:
		body = d.renderDetail(w - 2)
	}
	return StylePanel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func (d *detailPanel) renderDetail(width int) string {
	b := d.detail.Batch
	s := d.detail.Summary

	status := StatusStyle(b.Status).Render(strings.ToUpper(sanitize(b.Status.String())))
	meta := fmt.Sprintf("%s  Scheduled: %s  Next reminder: %s",
		status,
		format.FormatDateTimeIST(b.ScheduledAt),
		format.FormatDateTimeIST(b.NextReminderAt),
	)

	sev := pendingSeverity(s.PercentDone, s.RemindersSent)
	bar := lipgloss.NewStyle().Foreground(severityFg(sev)).Render(renderMiniBar(s.PercentDone, 30))
	progress := fmt.Sprintf("%s %s  completed %s  pending %s  reminders sent %s  last completion %s",
		bar,
		format.FormatPercent(s.PercentDone),
		format.FormatRatio(s.Completed, s.Total),
		format.FormatNumber(int64(s.Pending)),
		format.FormatNumber(int64(s.RemindersSent)),
		format.FormatDateTimeIST(s.LastCompletion),
	)

	parts := []string{meta, progress, "", d.renderRecipients(width)}
	if r := d.renderReminders(); r != "" {
		parts = append(parts, "", r)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (d *detailPanel) renderRecipients(width int) string {
	people := d.detail.Recipients
	if len(people) == 0 {
		return StyleDim.Render("(no recipients)")
	}
	end := min(d.offset+detailRecipientRows, len(people))
	visible := people[d.offset:end]

	t := ltable.New().
		Headers("Recipient", "Email", "Done", "Completed", "Reminders", "Last Reminded").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle().Foreground(colorWhite)
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			if col == 2 && row < len(visible) {
				if visible[row].Completed {
					return base.Foreground(colorGreen)
				}
				return base.Foreground(colorYellow)
			}
			return base
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		Width(width)

	for _, r := range visible {
		done := "pending"
		if r.Completed {
			done = "done"
		}
		t = t.Row(
			truncateName(sanitize(r.Name), 24),
			truncateName(sanitize(r.Email), 32),
			done,
			format.FormatDateTimeIST(r.CompletedAt),
			fmt.Sprintf("%d", r.RemindersSent),
			format.FormatDateTimeIST(r.LastRemindedAt),
		)
	}
	footer := StyleDim.Render(fmt.Sprintf("Recipients %d-%d of %d", d.offset+1, end, len(people)))
	return lipgloss.JoinVertical(lipgloss.Left, t.String(), footer)
}

func (d *detailPanel) renderReminders() string {
	rems := d.detail.Reminders
	if rems == nil {
		return StyleDim.Render("Reminder cycles unavailable")
	}
	if len(rems) == 0 {
		return StyleDim.Render("No reminder cycles")
	}
	lines := []string{StyleTitle.Render("Reminder cycles")}
	for _, r := range rems {
		state := StyleYellow.Render("pending")
		if r.Sent {
			state = StyleGreen.Render("sent")
		}
		lines = append(lines, fmt.Sprintf("  #%d  %s  %s  %s recipients",
			r.Cycle, format.FormatDateTimeIST(r.ScheduledAt), state, format.FormatNumber(int64(r.Targeted))))
	}
	return strings.Join(lines, "\n")
}
