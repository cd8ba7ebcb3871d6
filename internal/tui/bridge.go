package tui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

const defaultBridgeBuffer = 128

// Bridge forwards poller callbacks into the Bubble Tea event loop. It
// implements engine.Notifier and engine.Observer and never blocks the poller.
//
// Notifications share a bounded buffer and are dropped when it is full.
// Poll results and connection states each have a one-slot mailbox instead:
// a newer value replaces one the App has not read yet, so the latest table
// data and state always get through. Replaced poll results hand their
// transitions on to the newer result.
type Bridge struct {
	events  chan tea.Msg
	polls   chan tea.Msg
	states  chan tea.Msg
	mu      sync.Mutex // serializes mailbox writers
	dropped atomic.Int64
}

var (
	_ engine.Notifier = (*Bridge)(nil)
	_ engine.Observer = (*Bridge)(nil)
)

// NewBridge returns a Bridge buffering up to size notifications.
func NewBridge(size int) *Bridge {
	if size <= 0 {
		size = defaultBridgeBuffer
	}
	return &Bridge{
		events: make(chan tea.Msg, size),
		polls:  make(chan tea.Msg, 1),
		states: make(chan tea.Msg, 1),
	}
}

func (b *Bridge) Notify(n model.Notification) {
	select {
	case b.events <- NotificationMsg{Notification: n}:
	default:
		b.dropped.Add(1)
	}
}

func (b *Bridge) OnPoll(r engine.PollResult) {
	b.post(b.polls, PollMsg{Result: r}, mergePolls)
}

func (b *Bridge) OnConnectionState(s model.ConnectionState) {
	b.post(b.states, ConnStateMsg{State: s}, nil)
}

// Dropped returns how many notifications were discarded.
func (b *Bridge) Dropped() int64 {
	return b.dropped.Load()
}

// post stores msg in a one-slot mailbox, replacing any unread value. The
// reader only ever empties a mailbox, so the final send cannot block while
// mu is held.
func (b *Bridge) post(box chan tea.Msg, msg tea.Msg, merge func(old, msg tea.Msg) tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case old := <-box:
		if merge != nil {
			msg = merge(old, msg)
		}
	default:
	}
	box <- msg
}

func mergePolls(old, msg tea.Msg) tea.Msg {
	prev, next := old.(PollMsg), msg.(PollMsg)
	if len(prev.Result.Transitions) == 0 {
		return next
	}
	merged := make([]model.Transition, 0, len(prev.Result.Transitions)+len(next.Result.Transitions))
	merged = append(merged, prev.Result.Transitions...)
	merged = append(merged, next.Result.Transitions...)
	next.Result.Transitions = merged
	return next
}

// wait blocks for the next bridged event. The App re-issues it after every
// event it receives. A nil Bridge yields a nil command.
func (b *Bridge) wait() tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-b.polls:
			return msg
		case msg := <-b.states:
			return msg
		case msg := <-b.events:
			return msg
		}
	}
}
