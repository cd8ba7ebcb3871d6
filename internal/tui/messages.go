package tui

import (
	"time"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

// PollMsg delivers a successful poll to the TUI.
type PollMsg struct{ Result engine.PollResult }

// ConnStateMsg reports a connection state change.
type ConnStateMsg struct{ State model.ConnectionState }

// NotificationMsg carries a notification to show as a toast.
type NotificationMsg struct{ Notification model.Notification }

// RefreshDoneMsg reports the outcome of a manual refresh.
type RefreshDoneMsg struct{ Err error }

// DetailMsg delivers the detail panel data for a batch.
type DetailMsg struct {
	BatchID string
	Detail  *model.BatchDetail
	Err     error
}

// ToastTickMsg drives toast expiry.
type ToastTickMsg time.Time
