package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/dm/batchwatch/internal/format"
	"github.com/dm/batchwatch/internal/model"
)

const (
	defaultSlackQueueSize = 64
	defaultSlackTimeout   = 5 * time.Second
)

// SlackOptions configures a SlackNotifier.
type SlackOptions struct {
	WebhookURL string
	// MinSeverity filters out lower severities. The zero value forwards all.
	MinSeverity model.Severity
	QueueSize   int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// SlackNotifier forwards notifications to a Slack incoming webhook. Posts
// happen on a single worker goroutine; Notify only enqueues and drops the
// notification when the queue is full.
type SlackNotifier struct {
	url      string
	min      model.Severity
	timeout  time.Duration
	logger   *zap.Logger
	post     func(ctx context.Context, url string, msg *slack.WebhookMessage) error
	queue    chan model.Notification
	done     chan struct{}
	mu       sync.RWMutex
	closed   bool
	dropped  atomic.Int64
	failed   atomic.Int64
	attempts atomic.Int64
}

// NewSlackNotifier starts the worker and returns the notifier.
func NewSlackNotifier(opts SlackOptions) (*SlackNotifier, error) {
	if opts.WebhookURL == "" {
		return nil, errors.New("slack: webhook url is required")
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultSlackQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSlackTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &SlackNotifier{
		url:     opts.WebhookURL,
		min:     opts.MinSeverity,
		timeout: opts.Timeout,
		logger:  opts.Logger.Named("slack"),
		post:    slack.PostWebhookContext,
		queue:   make(chan model.Notification, opts.QueueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Notify implements engine.Notifier. It never blocks.
func (s *SlackNotifier) Notify(n model.Notification) {
	if n.Severity < s.min {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- n:
	default:
		s.dropped.Add(1)
		s.logger.Warn("slack queue full, notification dropped", zap.String("id", n.ID))
	}
}

// Dropped returns how many notifications were discarded because the queue
// was full.
func (s *SlackNotifier) Dropped() int64 {
	return s.dropped.Load()
}

// Close stops accepting notifications, drains the queue and waits for the
// worker. It reports how many posts failed over the notifier's lifetime.
func (s *SlackNotifier) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	if failed := s.failed.Load(); failed > 0 {
		return fmt.Errorf("slack: %d of %d posts failed", failed, s.attempts.Load())
	}
	return nil
}

func (s *SlackNotifier) run() {
	defer close(s.done)
	for n := range s.queue {
		s.attempts.Add(1)
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.post(ctx, s.url, webhookMessage(n))
		cancel()
		if err != nil {
			s.failed.Add(1)
			s.logger.Warn("slack post failed", zap.String("id", n.ID), zap.Error(err))
		}
	}
}

func webhookMessage(n model.Notification) *slack.WebhookMessage {
	att := slack.Attachment{
		Color:    colorFor(n.Severity),
		Text:     n.Message,
		Fallback: n.Message,
		Footer:   "batchwatch · " + format.FormatDateTimeIST(n.CreatedAt),
	}
	if !n.CreatedAt.IsZero() {
		att.Ts = json.Number(strconv.FormatInt(n.CreatedAt.Unix(), 10))
	}
	if t := n.Transition; t != nil {
		att.Fields = []slack.AttachmentField{
			{Title: "Batch", Value: t.BatchID, Short: true},
			{Title: "Status", Value: fmt.Sprintf("%s → %s", t.From, t.To), Short: true},
		}
	}
	return &slack.WebhookMessage{
		Text:        n.Message,
		Attachments: []slack.Attachment{att},
	}
}

func colorFor(s model.Severity) string {
	switch s {
	case model.SeveritySuccess:
		return "good"
	case model.SeverityWarning:
		return "warning"
	case model.SeverityError:
		return "danger"
	default:
		return "#3b82f6"
	}
}
