package tui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dm/batchwatch/internal/model"
)

// Batch table columns.
const (
	colName = iota
	colStatus
	colRecipients
	colSent
	colDone
	colCycles
	colNextReminder
)

// statusRank orders lifecycle labels for sorting; unknown labels sort last.
func statusRank(s model.BatchStatus) int {
	for i, k := range model.KnownStatuses {
		if s == k {
			return i
		}
	}
	return len(model.KnownStatuses)
}

// sortBatchRows returns a sorted copy of rows. col -1 preserves order.
// Ties are broken by Name ascending, then ID.
func sortBatchRows(rows []model.BatchRow, col int, desc bool) []model.BatchRow {
	out := slices.Clone(rows)
	if col < 0 {
		return out
	}

	byName := func(a, b model.BatchRow) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}

	slices.SortStableFunc(out, func(a, b model.BatchRow) int {
		var c int
		switch col {
		case colName:
			c = byName(a, b)
		case colStatus:
			c = cmp.Compare(statusRank(a.Status), statusRank(b.Status))
			if c == 0 {
				c = cmp.Compare(a.Status, b.Status)
			}
		case colRecipients:
			c = cmp.Compare(a.TotalRecipients, b.TotalRecipients)
		case colSent:
			c = cmp.Compare(a.SentCount, b.SentCount)
		case colDone:
			c = cmp.Compare(a.PercentDone, b.PercentDone)
		case colCycles:
			c = cmp.Compare(a.SubCycles, b.SubCycles)
		case colNextReminder:
			c = a.NextReminderAt.Compare(b.NextReminderAt)
		}
		if c == 0 {
			return byName(a, b)
		}
		if desc {
			return -c
		}
		return c
	})
	return out
}

// filterBatchRows returns rows whose name, id or status contains search
// (case-insensitive). Returns all rows when search is empty.
func filterBatchRows(rows []model.BatchRow, search string) []model.BatchRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			strings.Contains(strings.ToLower(r.ID), lower) ||
			strings.Contains(string(r.Status), lower) {
			out = append(out, r)
		}
	}
	return out
}
