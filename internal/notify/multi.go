package notify

import (
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

// Multi fans every notification out to a list of sinks in order.
type Multi []engine.Notifier

// NewMulti drops nil sinks.
func NewMulti(sinks ...engine.Notifier) Multi {
	m := make(Multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

// Notify implements engine.Notifier.
func (m Multi) Notify(n model.Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}

// Close closes every sink that implements io.Closer and returns all errors.
func (m Multi) Close() error {
	var result *multierror.Error
	for _, s := range m {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
