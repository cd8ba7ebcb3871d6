package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

// drain reads exactly n events from b.
func drain(t *testing.T, b *Bridge, n int) []tea.Msg {
	t.Helper()
	cmd := b.wait()
	require.NotNil(t, cmd)
	out := make([]tea.Msg, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cmd())
	}
	return out
}

func TestBridge_ForwardsEvents(t *testing.T) {
	b := NewBridge(4)
	b.OnConnectionState(model.StateConnecting)
	b.OnPoll(engine.PollResult{Skipped: 2})
	b.Notify(model.Notification{ID: "n-1"})

	assert.ElementsMatch(t, []tea.Msg{
		ConnStateMsg{State: model.StateConnecting},
		PollMsg{Result: engine.PollResult{Skipped: 2}},
		NotificationMsg{Notification: model.Notification{ID: "n-1"}},
	}, drain(t, b, 3))
}

func TestBridge_DropsNotificationsWhenFull(t *testing.T) {
	b := NewBridge(1)
	b.Notify(model.Notification{ID: "1"})
	b.Notify(model.Notification{ID: "2"})
	assert.Equal(t, int64(1), b.Dropped())
}

func TestBridge_PollAndStateSurviveNotificationFlood(t *testing.T) {
	b := NewBridge(0)
	for i := 0; i < defaultBridgeBuffer+2; i++ {
		b.Notify(model.Notification{ID: "n"})
	}
	final := engine.PollResult{Batches: []model.Batch{{ID: "a", Status: model.StatusRunning}}}
	b.OnPoll(final)
	b.OnConnectionState(model.StateConnected)

	assert.Equal(t, int64(2), b.Dropped())

	msgs := drain(t, b, defaultBridgeBuffer+2)
	assert.Contains(t, msgs, PollMsg{Result: final})
	assert.Contains(t, msgs, ConnStateMsg{State: model.StateConnected})
}

func TestBridge_LatestStateWins(t *testing.T) {
	b := NewBridge(4)
	b.OnConnectionState(model.StateConnecting)
	b.OnConnectionState(model.StateConnected)

	assert.Equal(t, []tea.Msg{ConnStateMsg{State: model.StateConnected}}, drain(t, b, 1))
	assert.Empty(t, b.states)
}

func TestBridge_UnreadPollHandsTransitionsOn(t *testing.T) {
	b := NewBridge(4)
	first := model.Transition{BatchID: "a", From: model.StatusScheduled, To: model.StatusRunning}
	second := model.Transition{BatchID: "b", From: model.StatusRunning, To: model.StatusCompleted}

	b.OnPoll(engine.PollResult{Transitions: []model.Transition{first}})
	b.OnPoll(engine.PollResult{
		Batches:     []model.Batch{{ID: "b", Status: model.StatusCompleted}},
		Transitions: []model.Transition{second},
	})

	msgs := drain(t, b, 1)
	require.IsType(t, PollMsg{}, msgs[0])
	got := msgs[0].(PollMsg).Result
	assert.Equal(t, []model.Transition{first, second}, got.Transitions)
	assert.Equal(t, []model.Batch{{ID: "b", Status: model.StatusCompleted}}, got.Batches)
	assert.Empty(t, b.polls)
}

func TestBridge_NilWaitsForNothing(t *testing.T) {
	var b *Bridge
	assert.Nil(t, b.wait())
}
