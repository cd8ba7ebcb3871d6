package model

import "time"

// Severity is the display class of a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// NotificationKind tells sinks what produced a notification.
type NotificationKind string

const (
	KindTransition NotificationKind = "transition"
	KindConnection NotificationKind = "connection"
)

// Notification is a single message handed to a notification sink.
type Notification struct {
	ID         string
	Kind       NotificationKind
	Message    string
	Severity   Severity
	Duration   time.Duration
	Transition *Transition // nil for connection notifications
	CreatedAt  time.Time
}

// ExpiresAt returns the time after which the notification should no longer
// be displayed.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.Duration)
}
