package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/batchwatch/internal/client"
	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

type fakePoller struct {
	calls atomic.Int32
	err   error
}

func (f *fakePoller) Poll(context.Context) (engine.PollResult, error) {
	f.calls.Add(1)
	return engine.PollResult{}, f.err
}

func (f *fakePoller) Interval() time.Duration { return 10 * time.Second }

type fakeDetails struct{}

func (fakeDetails) GetBatch(_ context.Context, id string) (*client.BatchRecord, error) {
	return &client.BatchRecord{ID: client.ID(id), Name: "Q1 Survey", Status: "running"}, nil
}

func (fakeDetails) ListRecipients(context.Context, string) ([]client.RecipientRecord, error) {
	return []client.RecipientRecord{{ID: "r-1", Email: "a@example.com", Completed: true}}, nil
}

func (fakeDetails) ListReminders(context.Context, string) ([]client.ReminderRecord, error) {
	return nil, nil
}

func fixturePoll() PollMsg {
	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	return PollMsg{Result: engine.PollResult{
		Batches: []model.Batch{
			{ID: "a", Name: "Alpha", Status: model.StatusRunning, TotalRecipients: 10, CompletedCount: 5},
			{ID: "b", Name: "Beta", Status: model.StatusCompleted, TotalRecipients: 4, CompletedCount: 4},
			{ID: "c", Name: "Gamma", Status: "archived"},
		},
		Transitions: []model.Transition{
			{BatchID: "b", BatchName: "Beta", From: model.StatusRunning, To: model.StatusCompleted, ObservedAt: at},
		},
		Elapsed:   250 * time.Millisecond,
		FetchedAt: at,
	}}
}

func newTestApp(p Poller) *App {
	app := NewApp(AppOptions{
		Poller:  p,
		Details: fakeDetails{},
		Bridge:  NewBridge(8),
		BaseURL: "http://api.test",
		Tenant:  "acme",
	})
	app.width = 140
	return app
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_PollMsgUpdatesState(t *testing.T) {
	app := newTestApp(&fakePoller{})
	require.False(t, app.hasData)

	m, cmd := app.Update(fixturePoll())
	app = m.(*App)

	assert.True(t, app.hasData)
	assert.Equal(t, 3, app.counts.Total)
	assert.Equal(t, 1, app.counts.Other)
	assert.Equal(t, 1, app.history.Len())
	assert.Equal(t, 1, app.transitions.Len())
	assert.Len(t, app.table.displayRows, 3)
	assert.Equal(t, fixturePoll().Result.FetchedAt, app.lastUpdated)
	assert.NotNil(t, cmd, "keeps listening to the bridge")
}

func TestApp_ConnStateMsg(t *testing.T) {
	app := newTestApp(&fakePoller{})
	for _, s := range []model.ConnectionState{model.StateConnecting, model.StateError, model.StateConnected, model.StateIdle} {
		m, _ := app.Update(ConnStateMsg{State: s})
		app = m.(*App)
		assert.Equal(t, s, app.state)
		assert.Contains(t, renderHeader(app), strings.ToUpper(s.String()))
	}
}

func TestApp_NotificationBecomesToast(t *testing.T) {
	app := newTestApp(&fakePoller{})
	now := time.Now()
	m, _ := app.Update(NotificationMsg{Notification: model.Notification{
		Message: "Connection issue, retrying...", Severity: model.SeverityWarning,
		Duration: 4 * time.Second, CreatedAt: now,
	}})
	app = m.(*App)
	require.Equal(t, 1, app.toasts.Len())
	assert.Contains(t, app.View(), "Connection issue, retrying...")

	m, cmd := app.Update(ToastTickMsg(now.Add(5 * time.Second)))
	app = m.(*App)
	assert.Equal(t, 0, app.toasts.Len())
	assert.NotNil(t, cmd)
}

func TestApp_RefreshKey(t *testing.T) {
	p := &fakePoller{}
	app := newTestApp(p)

	m, cmd := app.Update(keyPress("r"))
	app = m.(*App)
	require.NotNil(t, cmd)
	assert.True(t, app.refreshing)

	// Second press while the first is running is ignored.
	_, cmd2 := app.Update(keyPress("r"))
	assert.Nil(t, cmd2)

	msg := cmd()
	assert.Equal(t, RefreshDoneMsg{}, msg)
	assert.Equal(t, int32(1), p.calls.Load())

	m, _ = app.Update(msg)
	assert.False(t, m.(*App).refreshing)
}

func TestApp_RefreshErrors(t *testing.T) {
	app := newTestApp(&fakePoller{})

	m, _ := app.Update(RefreshDoneMsg{Err: engine.ErrPollInFlight})
	app = m.(*App)
	assert.Nil(t, app.lastError)
	assert.Contains(t, renderFooter(app), "already in progress")

	boom := &engine.TransportError{Err: errors.New("connection refused")}
	m, _ = app.Update(RefreshDoneMsg{Err: boom})
	app = m.(*App)
	m, _ = app.Update(ConnStateMsg{State: model.StateError})
	app = m.(*App)
	assert.Contains(t, renderHeader(app), "connection refused")

	m, _ = app.Update(ConnStateMsg{State: model.StateConnected})
	assert.Nil(t, m.(*App).lastError)
}

func TestApp_QuitKey(t *testing.T) {
	app := newTestApp(&fakePoller{})
	_, cmd := app.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SearchSwallowsKeys(t *testing.T) {
	p := &fakePoller{}
	app := newTestApp(p)
	m, _ := app.Update(fixturePoll())
	app = m.(*App)

	m, _ = app.Update(keyPress("/"))
	app = m.(*App)
	require.True(t, app.table.Searching())

	for _, r := range "qr" {
		m, _ = app.Update(keyPress(string(r)))
		app = m.(*App)
	}
	assert.Equal(t, int32(0), p.calls.Load(), "r typed into search must not refresh")

	m, _ = app.Update(keyPress("enter"))
	app = m.(*App)
	assert.False(t, app.table.Searching())
	assert.Equal(t, "qr", app.table.search)
	assert.Empty(t, app.table.displayRows)
}

func TestApp_DetailPanel(t *testing.T) {
	app := newTestApp(&fakePoller{})
	m, _ := app.Update(fixturePoll())
	app = m.(*App)

	m, cmd := app.Update(keyPress("enter"))
	app = m.(*App)
	require.NotNil(t, app.detail)
	require.NotNil(t, cmd)
	assert.Contains(t, app.View(), "Loading...")

	msg := cmd().(DetailMsg)
	require.NoError(t, msg.Err)
	m, _ = app.Update(msg)
	app = m.(*App)
	assert.False(t, app.detail.loading)
	view := app.View()
	assert.Contains(t, view, "a@example.com")
	assert.Contains(t, view, "Reminder cycles unavailable")

	// A late response for another batch is ignored.
	app.Update(DetailMsg{BatchID: "other", Err: errors.New("nope")})
	assert.NoError(t, app.detail.err)

	m, _ = app.Update(keyPress("esc"))
	assert.Nil(t, m.(*App).detail)
}

func TestApp_InitListensToBridge(t *testing.T) {
	app := newTestApp(&fakePoller{})
	assert.NotNil(t, app.Init())
}

func TestApp_ViewBeforeFirstPoll(t *testing.T) {
	app := newTestApp(&fakePoller{})
	view := app.View()
	assert.Contains(t, view, "http://api.test")
	assert.Contains(t, view, "waiting for first poll")
	assert.NotContains(t, view, "Batches  ")
}
