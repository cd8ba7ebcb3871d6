package model

import "time"

// BatchStatus is the lifecycle label of a batch as reported by the backend.
type BatchStatus string

const (
	StatusDraft     BatchStatus = "draft"
	StatusScheduled BatchStatus = "scheduled"
	StatusRunning   BatchStatus = "running"
	StatusCompleted BatchStatus = "completed"
	StatusPaused    BatchStatus = "paused"
	StatusCancelled BatchStatus = "cancelled"
	StatusFailed    BatchStatus = "failed"
)

// KnownStatuses lists every lifecycle label in display order.
var KnownStatuses = []BatchStatus{
	StatusDraft,
	StatusScheduled,
	StatusRunning,
	StatusCompleted,
	StatusPaused,
	StatusCancelled,
	StatusFailed,
}

// Known reports whether s is one of the closed lifecycle labels.
func (s BatchStatus) Known() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

func (s BatchStatus) String() string {
	return string(s)
}

// Batch is a single batch record as observed by one poll.
type Batch struct {
	ID              string
	Name            string
	Status          BatchStatus
	TotalRecipients int
	SentCount       int
	CompletedCount  int
	SubCycles       int
	ScheduledAt     time.Time
	NextReminderAt  time.Time
}

// StatusMap maps batch ID to the last observed status.
type StatusMap map[string]BatchStatus

// NewStatusMap builds a StatusMap from a batch collection.
// The first occurrence of an ID wins, matching NormalizeBatches.
func NewStatusMap(batches []Batch) StatusMap {
	m := make(StatusMap, len(batches))
	for _, b := range batches {
		if _, ok := m[b.ID]; ok {
			continue
		}
		m[b.ID] = b.Status
	}
	return m
}

// Clone returns an independent copy of m.
func (m StatusMap) Clone() StatusMap {
	out := make(StatusMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Transition records a status change of one batch between two polls.
type Transition struct {
	BatchID    string
	BatchName  string
	From       BatchStatus
	To         BatchStatus
	ObservedAt time.Time
}

// ConnectionState describes the health of the most recent fetch attempt.
type ConnectionState int

const (
	StateIdle ConnectionState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
