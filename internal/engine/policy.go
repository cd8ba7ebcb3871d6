package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dm/batchwatch/internal/model"
)

// notificationStyle is the fixed severity and display time of a status label.
type notificationStyle struct {
	severity model.Severity
	duration time.Duration
	verb     string
}

var statusStyles = map[model.BatchStatus]notificationStyle{
	model.StatusCompleted: {model.SeveritySuccess, 6 * time.Second, "completed"},
	model.StatusFailed:    {model.SeverityError, 8 * time.Second, "failed"},
	model.StatusRunning:   {model.SeverityInfo, 2 * time.Second, "is now running"},
	model.StatusPaused:    {model.SeverityWarning, 4 * time.Second, "was paused"},
	model.StatusCancelled: {model.SeverityWarning, 4 * time.Second, "was cancelled"},
	model.StatusScheduled: {model.SeverityInfo, 3 * time.Second, "is scheduled"},
	model.StatusDraft:     {model.SeverityInfo, 3 * time.Second, "moved back to draft"},
}

const (
	fallbackDuration        = 3 * time.Second
	connectionErrorDuration = 4 * time.Second
	connectionErrorMessage  = "Connection issue, retrying..."
)

// TransitionNotification builds the notification for a status transition.
// Unrecognised labels fall back to an informational notification that
// renders the raw label.
func TransitionNotification(t model.Transition) model.Notification {
	name := t.BatchName
	if name == "" {
		name = t.BatchID
	}

	n := model.Notification{
		ID:         uuid.NewString(),
		Kind:       model.KindTransition,
		Transition: &t,
		CreatedAt:  t.ObservedAt,
	}

	style, ok := statusStyles[t.To]
	if !ok {
		n.Severity = model.SeverityInfo
		n.Duration = fallbackDuration
		n.Message = fmt.Sprintf("Batch %q status changed: %s → %s", name, t.From, t.To)
		return n
	}
	n.Severity = style.severity
	n.Duration = style.duration
	n.Message = fmt.Sprintf("Batch %q %s (was %s)", name, style.verb, t.From)
	return n
}

// ConnectionErrorNotification builds the throttled "retrying" warning.
func ConnectionErrorNotification(at time.Time) model.Notification {
	return model.Notification{
		ID:        uuid.NewString(),
		Kind:      model.KindConnection,
		Message:   connectionErrorMessage,
		Severity:  model.SeverityWarning,
		Duration:  connectionErrorDuration,
		CreatedAt: at,
	}
}
