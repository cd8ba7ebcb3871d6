// Package notify holds notification sinks for the status poller.
package notify

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dm/batchwatch/internal/model"
)

// LogNotifier writes one structured log line per notification.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a LogNotifier writing to logger. A nil logger
// discards everything.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

// Notify implements engine.Notifier.
func (l *LogNotifier) Notify(n model.Notification) {
	fields := []zap.Field{
		zap.String("id", n.ID),
		zap.String("kind", string(n.Kind)),
		zap.String("severity", n.Severity.String()),
		zap.Duration("display", n.Duration),
	}
	if t := n.Transition; t != nil {
		fields = append(fields,
			zap.String("batch_id", t.BatchID),
			zap.String("from", t.From.String()),
			zap.String("to", t.To.String()),
		)
	}
	if ce := l.logger.Check(levelFor(n.Severity), n.Message); ce != nil {
		ce.Write(fields...)
	}
}

func levelFor(s model.Severity) zapcore.Level {
	switch s {
	case model.SeverityWarning:
		return zapcore.WarnLevel
	case model.SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
