package engine

import (
	"github.com/dm/batchwatch/internal/model"
)

// safeDivide returns a/b, or 0 when b is zero.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// completionPercent returns done/total as a percentage clamped to [0, 100].
func completionPercent(done, total int) float64 {
	p := safeDivide(float64(done), float64(total)) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// CalcBatchRows builds one display row per batch, preserving order.
func CalcBatchRows(batches []model.Batch) []model.BatchRow {
	rows := make([]model.BatchRow, 0, len(batches))
	for _, b := range batches {
		rows = append(rows, model.BatchRow{
			ID:              b.ID,
			Name:            b.Name,
			Status:          b.Status,
			TotalRecipients: b.TotalRecipients,
			SentCount:       b.SentCount,
			CompletedCount:  b.CompletedCount,
			PercentDone:     completionPercent(b.CompletedCount, b.TotalRecipients),
			SubCycles:       b.SubCycles,
			ScheduledAt:     b.ScheduledAt,
			NextReminderAt:  b.NextReminderAt,
		})
	}
	return rows
}

// StatusCounts holds the number of batches per lifecycle label. Labels
// outside the known set are summed under Other.
type StatusCounts struct {
	ByStatus map[model.BatchStatus]int
	Other    int
	Total    int
}

// CalcStatusCounts tallies batches by status.
func CalcStatusCounts(batches []model.Batch) StatusCounts {
	c := StatusCounts{ByStatus: make(map[model.BatchStatus]int, len(model.KnownStatuses))}
	for _, b := range batches {
		c.Total++
		if b.Status.Known() {
			c.ByStatus[b.Status]++
		} else {
			c.Other++
		}
	}
	return c
}

// CalcRecipientSummary computes the completion bookkeeping for a batch's
// recipients.
func CalcRecipientSummary(recipients []model.Recipient) model.RecipientSummary {
	var s model.RecipientSummary
	for _, r := range recipients {
		s.Total++
		s.RemindersSent += r.RemindersSent
		if r.Completed {
			s.Completed++
			if r.CompletedAt.After(s.LastCompletion) {
				s.LastCompletion = r.CompletedAt
			}
		}
	}
	s.Pending = s.Total - s.Completed
	s.PercentDone = completionPercent(s.Completed, s.Total)
	return s
}
