package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

const toastTick = 500 * time.Millisecond

// Poller is the part of engine.StatusPoller the TUI drives.
type Poller interface {
	Poll(ctx context.Context) (engine.PollResult, error)
	Interval() time.Duration
}

// AppOptions wires an App to the poller and its event bridge.
type AppOptions struct {
	Poller  Poller
	Details engine.DetailClient
	Bridge  *Bridge
	BaseURL string
	Tenant  string
}

// App is the root Bubble Tea model for batchwatch. Polling runs on the
// StatusPoller's own timer; the App only renders what the Bridge delivers
// and issues manual refreshes.
type App struct {
	poller  Poller
	details engine.DetailClient
	bridge  *Bridge

	baseURL  string
	tenant   string
	interval time.Duration

	// Poll state
	hasData     bool
	refreshing  bool // true while a manual refresh is in flight
	counts      engine.StatusCounts
	history     *model.Ring[model.PollPoint]
	transitions *model.Ring[model.Transition]
	lastUpdated time.Time

	// Connection state
	state     model.ConnectionState
	lastError error

	// Layout
	width, height int

	// UI state
	table    BatchTableModel
	toasts   toastStack
	detail   *detailPanel
	showHelp bool
	notice   string
}

// NewApp creates a new App.
func NewApp(opts AppOptions) *App {
	app := &App{
		poller:      opts.Poller,
		details:     opts.Details,
		baseURL:     opts.BaseURL,
		tenant:      opts.Tenant,
		history:     model.NewRing[model.PollPoint](0),
		transitions: model.NewRing[model.Transition](feedCapacity),
		state:       model.StateIdle,
		table:       NewBatchTable(),
		bridge:      opts.Bridge,
	}
	if opts.Poller != nil {
		app.interval = opts.Poller.Interval()
	}
	return app
}

// Init implements tea.Model. It starts listening to the bridge and the toast
// expiry ticker.
func (app *App) Init() tea.Cmd {
	return tea.Batch(app.bridge.wait(), toastTickCmd())
}

// Update implements tea.Model and is the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case PollMsg:
		app.applyPoll(msg.Result)
		return app, app.bridge.wait()

	case ConnStateMsg:
		app.state = msg.State
		if msg.State == model.StateConnected {
			app.lastError = nil
		}
		return app, app.bridge.wait()

	case NotificationMsg:
		app.toasts.Add(msg.Notification)
		return app, app.bridge.wait()

	case RefreshDoneMsg:
		app.refreshing = false
		switch {
		case errors.Is(msg.Err, engine.ErrPollInFlight):
			app.notice = "poll already in progress"
		case msg.Err != nil:
			app.lastError = msg.Err
			app.notice = ""
		default:
			app.notice = ""
		}

	case DetailMsg:
		if app.detail != nil {
			app.detail.apply(msg)
		}

	case ToastTickMsg:
		app.toasts.Prune(time.Time(msg))
		return app, toastTickCmd()

	case tea.KeyMsg:
		return app.handleKey(msg)

	default:
		if app.table.Searching() {
			var cmd tea.Cmd
			app.table, cmd = app.table.Update(msg)
			return app, cmd
		}
	}

	return app, nil
}

func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search box swallows every key, including q and digits.
	if app.table.Searching() {
		var cmd tea.Cmd
		app.table, cmd = app.table.Update(msg)
		return app, cmd
	}

	if app.detail != nil {
		switch {
		case key.Matches(msg, keys.Quit):
			return app, tea.Quit
		case key.Matches(msg, keys.Escape):
			app.detail = nil
		case key.Matches(msg, keys.Up):
			app.detail.scroll(-1)
		case key.Matches(msg, keys.Down):
			app.detail.scroll(1)
		case key.Matches(msg, keys.Help):
			app.showHelp = !app.showHelp
		}
		return app, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return app, tea.Quit
	case key.Matches(msg, keys.Refresh):
		if app.refreshing || app.poller == nil {
			return app, nil
		}
		app.refreshing = true
		return app, refreshCmd(app.poller, app.interval)
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
		return app, nil
	case key.Matches(msg, keys.Open):
		row, ok := app.table.Selected()
		if !ok || app.details == nil {
			return app, nil
		}
		app.detail = newDetailPanel(row)
		return app, fetchDetailCmd(app.details, row.ID, app.interval)
	}

	var cmd tea.Cmd
	app.table, cmd = app.table.Update(msg)
	return app, cmd
}

func (app *App) applyPoll(r engine.PollResult) {
	app.hasData = true
	app.counts = engine.CalcStatusCounts(r.Batches)
	app.table.SetData(engine.CalcBatchRows(r.Batches))
	app.history.Push(model.PollPoint{
		Timestamp:  r.FetchedAt,
		Latency:    r.Elapsed,
		BatchCount: len(r.Batches),
	})
	recordTransitions(app.transitions, r.Transitions)
	app.lastUpdated = r.FetchedAt
	app.lastError = nil
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	var parts []string

	parts = append(parts, renderHeader(app))
	if t := app.toasts.render(app.width); t != "" {
		width := app.width
		if width <= 0 {
			width = 80
		}
		parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, t))
	}
	if o := renderOverview(app); o != "" {
		parts = append(parts, o)
	}
	if app.detail != nil {
		parts = append(parts, app.detail.render(app.width))
	} else if app.hasData {
		parts = append(parts, app.table.renderTable(app.width))
		if f := renderFeed(app); f != "" {
			parts = append(parts, f)
		}
	}
	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

func toastTickCmd() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg {
		return ToastTickMsg(t)
	})
}

// requestTimeout bounds TUI-initiated requests the same way the poller
// bounds its own fetches.
func requestTimeout(interval time.Duration) time.Duration {
	timeout := interval - 500*time.Millisecond
	if timeout < 500*time.Millisecond {
		timeout = 500 * time.Millisecond
	}
	return timeout
}

// refreshCmd runs one poll outside the timer. The result itself reaches
// the App through the Bridge.
func refreshCmd(p Poller, interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout(interval))
		defer cancel()
		_, err := p.Poll(ctx)
		return RefreshDoneMsg{Err: err}
	}
}

func fetchDetailCmd(c engine.DetailClient, id string, interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout(interval))
		defer cancel()
		d, err := engine.FetchBatchDetail(ctx, c, id)
		return DetailMsg{BatchID: id, Detail: d, Err: err}
	}
}
