package model

import "time"

// Recipient is an addressee of a batch, tracked for document-submission
// completion.
type Recipient struct {
	ID             string
	Email          string
	Name           string
	Completed      bool
	CompletedAt    time.Time
	RemindersSent  int
	LastRemindedAt time.Time
}

// Reminder is one reminder sub-cycle of a batch.
type Reminder struct {
	Cycle       int
	ScheduledAt time.Time
	Sent        bool
	Targeted    int
}

// RecipientSummary aggregates completion bookkeeping for one batch.
type RecipientSummary struct {
	Total          int
	Completed      int
	Pending        int
	PercentDone    float64
	RemindersSent  int
	LastCompletion time.Time
}

// BatchDetail bundles everything shown in the batch detail panel.
type BatchDetail struct {
	Batch      Batch
	Recipients []Recipient
	Reminders  []Reminder // nil when the reminders endpoint was unavailable
	Summary    RecipientSummary
	FetchedAt  time.Time
}

// BatchRow is a display-ready row for the batches table.
type BatchRow struct {
	ID              string
	Name            string
	Status          BatchStatus
	TotalRecipients int
	SentCount       int
	CompletedCount  int
	PercentDone     float64
	SubCycles       int
	ScheduledAt     time.Time
	NextReminderAt  time.Time
}

// PollPoint is one sample of poll latency history.
type PollPoint struct {
	Timestamp  time.Time
	Latency    time.Duration
	BatchCount int
}
