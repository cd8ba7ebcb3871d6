package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

// BatchTableModel is a sortable, paginated, searchable table of batches.
type BatchTableModel struct {
	tableModel
	allRows     []model.BatchRow // unfiltered source data
	displayRows []model.BatchRow // after filter + sort applied
}

// NewBatchTable returns a BatchTableModel sorted by next reminder, soonest
// first.
func NewBatchTable() BatchTableModel {
	cols := []columnDef{
		{Title: "Batch", Width: 28},
		{Title: "Status", Width: 11},
		{Title: "Recipients", Width: 10, SortDesc: true},
		{Title: "Sent", Width: 8, SortDesc: true},
		{Title: "Done", Width: 16, SortDesc: true},
		{Title: "Cycles", Width: 6, SortDesc: true},
		{Title: "Next Reminder", Width: 24},
	}
	m := BatchTableModel{
		tableModel: newTableModel(cols),
	}
	m.sortCol = colNextReminder
	m.sortDesc = false
	return m
}

// SetData applies the current search filter and sort to rows, storing the
// result as displayRows ready for rendering.
func (m *BatchTableModel) SetData(rows []model.BatchRow) {
	m.allRows = rows
	m.refresh()
}

func (m *BatchTableModel) refresh() {
	filtered := filterBatchRows(m.allRows, m.search)
	m.displayRows = sortBatchRows(filtered, m.sortCol, m.sortDesc)
	m.clamp(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter and sort
// when the sort column, direction, or search term changes.
func (m BatchTableModel) Update(msg tea.Msg) (BatchTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.refresh()
	}
	m.clamp(len(m.displayRows))
	return m, cmd
}

// Selected returns the row under the cursor.
func (m BatchTableModel) Selected() (model.BatchRow, bool) {
	i := m.selectedIndex(len(m.displayRows))
	if i < 0 {
		return model.BatchRow{}, false
	}
	return m.displayRows[i], true
}

// Searching reports whether the search input has focus.
func (m BatchTableModel) Searching() bool {
	return m.searching
}

func (m *BatchTableModel) renderTable(width int) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := m.renderHeader("Batches", m.page+1, pc)

	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	if start == end {
		empty := "  (no batches)"
		if m.search != "" {
			empty = "  (no batches match the filter)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render(empty))
	}
	pageRows := m.displayRows[start:end]

	sortCol, cursor := m.sortCol, m.cursor
	t := ltable.New().
		Headers(m.sortHeaders()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			switch {
			case row == cursor:
				base = base.Background(colorIndigo)
			case row%2 == 0:
				base = base.Background(colorAlt)
			}
			if col == colStatus && row < len(pageRows) {
				return base.Bold(true).Foreground(statusColor(pageRows[row].Status))
			}
			if col == colDone {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorWhite)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if width > 0 {
		t = t.Width(width)
	}

	for _, r := range pageRows {
		cells := make([]string, len(m.columns))
		for col := range m.columns {
			cells[col] = batchCellValue(r, col, m.columns[col].Width)
		}
		t = t.Row(cells...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// renderHeader renders the title bar with search/sort/page hints. While
// searching, the live textinput view replaces the hints.
func (m *BatchTableModel) renderHeader(title string, page, pages int) string {
	pageInfo := fmt.Sprintf("Page %d/%d", page, pages)

	var right string
	switch {
	case m.searching:
		right = "Search: " + m.input.View()
	case m.search != "":
		right = fmt.Sprintf("filter=%q  %d shown  %s", m.search, len(m.displayRows), pageInfo)
	default:
		right = fmt.Sprintf("[/: search]  [1-7: sort]  [←→: page]  %d total  %s", len(m.allRows), pageInfo)
	}

	return StyleTitle.Render(title) + "  " + StyleDim.Render(right)
}

func batchCellValue(r model.BatchRow, col, width int) string {
	switch col {
	case colName:
		name := r.Name
		if name == "" {
			name = r.ID
		}
		return truncateName(sanitize(name), width)
	case colStatus:
		return sanitize(string(r.Status))
	case colRecipients:
		return format.FormatNumber(int64(r.TotalRecipients))
	case colSent:
		return format.FormatNumber(int64(r.SentCount))
	case colDone:
		return format.FormatRatio(r.CompletedCount, r.TotalRecipients) + " " + format.FormatPercent(r.PercentDone)
	case colCycles:
		return fmt.Sprintf("%d", r.SubCycles)
	case colNextReminder:
		return format.FormatDateTimeIST(r.NextReminderAt)
	default:
		return ""
	}
}
