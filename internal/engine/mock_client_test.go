package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dm/batchwatch/internal/client"
	"github.com/dm/batchwatch/internal/model"
)

// MockBatchClient implements client.BatchClient for testing.
type MockBatchClient struct {
	ListFn       func(ctx context.Context) ([]client.BatchRecord, error)
	GetFn        func(ctx context.Context, id string) (*client.BatchRecord, error)
	RecipientsFn func(ctx context.Context, id string) ([]client.RecipientRecord, error)
	RemindersFn  func(ctx context.Context, id string) ([]client.ReminderRecord, error)

	listCalls atomic.Int32
}

var _ client.BatchClient = (*MockBatchClient)(nil)

func (m *MockBatchClient) ListBatches(ctx context.Context) ([]client.BatchRecord, error) {
	m.listCalls.Add(1)
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []client.BatchRecord{{ID: "b-1", Name: "test", Status: "draft"}}, nil
}

func (m *MockBatchClient) GetBatch(ctx context.Context, id string) (*client.BatchRecord, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return &client.BatchRecord{ID: client.ID(id), Name: "test", Status: "running"}, nil
}

func (m *MockBatchClient) ListRecipients(ctx context.Context, id string) ([]client.RecipientRecord, error) {
	if m.RecipientsFn != nil {
		return m.RecipientsFn(ctx, id)
	}
	return []client.RecipientRecord{{ID: "r-1", Email: "a@example.com"}}, nil
}

func (m *MockBatchClient) ListReminders(ctx context.Context, id string) ([]client.ReminderRecord, error) {
	if m.RemindersFn != nil {
		return m.RemindersFn(ctx, id)
	}
	return []client.ReminderRecord{{Cycle: 1, Sent: true}}, nil
}

func (m *MockBatchClient) Ping(ctx context.Context) error {
	return nil
}

func (m *MockBatchClient) BaseURL() string {
	return "http://mock:8080"
}

// ListCalls returns how many times ListBatches was invoked.
func (m *MockBatchClient) ListCalls() int {
	return int(m.listCalls.Load())
}

// scriptedList returns each response in turn, repeating the last one.
func scriptedList(responses ...[]client.BatchRecord) func(context.Context) ([]client.BatchRecord, error) {
	var mu sync.Mutex
	i := 0
	return func(_ context.Context) ([]client.BatchRecord, error) {
		mu.Lock()
		defer mu.Unlock()
		r := responses[i]
		if i < len(responses)-1 {
			i++
		}
		return r, nil
	}
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu  sync.Mutex
	got []model.Notification
}

func (r *recordingNotifier) Notify(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) All() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Notification, len(r.got))
	copy(out, r.got)
	return out
}

func (r *recordingNotifier) ofKind(kind model.NotificationKind) []model.Notification {
	var out []model.Notification
	for _, n := range r.All() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingObserver captures observer callbacks.
type recordingObserver struct {
	mu     sync.Mutex
	states []model.ConnectionState
	polls  []PollResult
}

func (o *recordingObserver) OnPoll(r PollResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.polls = append(o.polls, r)
}

func (o *recordingObserver) OnConnectionState(s model.ConnectionState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, s)
}

func (o *recordingObserver) States() []model.ConnectionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.ConnectionState, len(o.states))
	copy(out, o.states)
	return out
}

var errMockFailure = errors.New("mock failure")
