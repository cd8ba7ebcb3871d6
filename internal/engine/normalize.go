package engine

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dm/batchwatch/internal/client"
	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// NormalizeBatches converts listing records into model batches, preserving
// their order. Records missing an id or a status are dropped, as are repeated
// ids after the first occurrence; skipped reports how many were dropped.
// Unparseable timestamps are left zero rather than dropping the record.
func NormalizeBatches(records []client.BatchRecord) (batches []model.Batch, skipped int) {
	v := recordValidator()
	batches = make([]model.Batch, 0, len(records))
	seen := make(map[client.ID]struct{}, len(records))
	for i := range records {
		rec := records[i]
		rec.ID = client.ID(strings.TrimSpace(string(rec.ID)))
		rec.Status = strings.TrimSpace(rec.Status)
		if err := v.Struct(rec); err != nil {
			skipped++
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			skipped++
			continue
		}
		seen[rec.ID] = struct{}{}
		batches = append(batches, toBatch(rec))
	}
	return batches, skipped
}

func toBatch(rec client.BatchRecord) model.Batch {
	scheduled, _ := format.ParseTimestamp(rec.ScheduledAt)
	next, _ := format.ParseTimestamp(rec.NextReminderAt)
	return model.Batch{
		ID:              string(rec.ID),
		Name:            rec.Name,
		Status:          model.BatchStatus(strings.ToLower(rec.Status)),
		TotalRecipients: rec.TotalRecipients,
		SentCount:       rec.SentCount,
		CompletedCount:  rec.CompletedCount,
		SubCycles:       rec.SubCycles,
		ScheduledAt:     scheduled,
		NextReminderAt:  next,
	}
}

func toRecipients(records []client.RecipientRecord) []model.Recipient {
	out := make([]model.Recipient, 0, len(records))
	for _, r := range records {
		completedAt, _ := format.ParseTimestamp(r.CompletedAt)
		reminded, _ := format.ParseTimestamp(r.LastRemindedAt)
		out = append(out, model.Recipient{
			ID:             string(r.ID),
			Email:          r.Email,
			Name:           r.Name,
			Completed:      r.Completed,
			CompletedAt:    completedAt,
			RemindersSent:  r.RemindersSent,
			LastRemindedAt: reminded,
		})
	}
	return out
}

func toReminders(records []client.ReminderRecord) []model.Reminder {
	out := make([]model.Reminder, 0, len(records))
	for _, r := range records {
		at, _ := format.ParseTimestamp(r.ScheduledAt)
		out = append(out, model.Reminder{
			Cycle:       r.Cycle,
			ScheduledAt: at,
			Sent:        r.Sent,
			Targeted:    r.Targeted,
		})
	}
	return out
}
