package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dm/batchwatch/internal/client"
	"github.com/dm/batchwatch/internal/model"
)

const (
	DefaultInterval      = 10 * time.Second
	DefaultErrorCooldown = 30 * time.Second
	DefaultIdleDelay     = 2 * time.Second
)

var (
	// ErrPollInFlight is returned by Poll when another poll has not finished.
	ErrPollInFlight = errors.New("poll already in flight")
	// ErrAlreadyRunning is returned by Start when the timer is already running.
	ErrAlreadyRunning = errors.New("poller already running")
)

// TransportError wraps a failed batch listing fetch.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "fetch batches: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BatchLister fetches the current batch collection.
type BatchLister interface {
	ListBatches(ctx context.Context) ([]client.BatchRecord, error)
}

// Notifier accepts notifications. Notify must return immediately.
type Notifier interface {
	Notify(n model.Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n model.Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n model.Notification) { f(n) }

// PollResult describes one successful poll.
type PollResult struct {
	Batches     []model.Batch
	Transitions []model.Transition
	Skipped     int
	Elapsed     time.Duration
	FetchedAt   time.Time
}

// Observer is told about every successful poll and every connection state
// change. Callbacks run on poller goroutines, sometimes with internal locks
// held: they must not block and must not call back into the poller.
type Observer interface {
	OnPoll(result PollResult)
	OnConnectionState(state model.ConnectionState)
}

type nopObserver struct{}

func (nopObserver) OnPoll(PollResult)                       {}
func (nopObserver) OnConnectionState(model.ConnectionState) {}

// PollerOptions configures a StatusPoller. Zero values select defaults.
type PollerOptions struct {
	Interval      time.Duration
	ErrorCooldown time.Duration
	// IdleDelay is how long connected/error is shown before falling back to
	// idle. Negative disables the fallback.
	IdleDelay time.Duration
	// FetchTimeout bounds a single listing request. Defaults to the interval
	// minus 500ms, never below 500ms.
	FetchTimeout time.Duration

	Observer Observer
	Recorder Recorder
	Logger   *zap.Logger
	Now      func() time.Time
}

// StatusPoller periodically fetches the batch collection and emits one
// notification per observed status transition.
type StatusPoller struct {
	lister   BatchLister
	notifier Notifier
	observer Observer
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time

	interval     time.Duration
	idleDelay    time.Duration
	fetchTimeout time.Duration

	inFlight   atomic.Bool
	pollDone   chan struct{} // closed when the in-flight poll ends; guarded by mu
	errLimiter *rate.Limiter

	mu        sync.Mutex
	statuses  model.StatusMap
	state     model.ConnectionState
	stateGen  uint64
	idleTimer *time.Timer
	stopped   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewStatusPoller creates a poller reading from lister and notifying notifier.
func NewStatusPoller(lister BatchLister, notifier Notifier, opts PollerOptions) *StatusPoller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.ErrorCooldown <= 0 {
		opts.ErrorCooldown = DefaultErrorCooldown
	}
	if opts.IdleDelay == 0 {
		opts.IdleDelay = DefaultIdleDelay
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = opts.Interval - 500*time.Millisecond
		if opts.FetchTimeout < 500*time.Millisecond {
			opts.FetchTimeout = 500 * time.Millisecond
		}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = NotifierFunc(func(model.Notification) {})
	}

	return &StatusPoller{
		lister:       lister,
		notifier:     notifier,
		observer:     opts.Observer,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		now:          opts.Now,
		interval:     opts.Interval,
		idleDelay:    opts.IdleDelay,
		fetchTimeout: opts.FetchTimeout,
		// One token per cooldown window: the first failure notifies, any
		// further failure within the window is silent.
		errLimiter: rate.NewLimiter(rate.Every(opts.ErrorCooldown), 1),
		statuses:   model.StatusMap{},
		state:      model.StateIdle,
	}
}

// Interval returns the fixed poll interval.
func (p *StatusPoller) Interval() time.Duration {
	return p.interval
}

// Start polls immediately and then on every interval tick until Stop is
// called. Ticks that find a poll still in flight are skipped.
// Polls are not cancelled by Stop or by cancelling ctx; they run to
// completion against a detached copy of ctx.
func (p *StatusPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.stopped = false
	p.mu.Unlock()

	p.logger.Info("status poller started", zap.Duration("interval", p.interval))
	go p.run(loopCtx, context.WithoutCancel(ctx), done)
	return nil
}

// Stop cancels the timer and waits for the tick loop to exit. No tick fires
// after Stop returns. A poll already in flight is allowed to finish; use Wait
// to block until it has. Stop is idempotent.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.stopped = true
	if p.idleTimer != nil {
		p.idleTimer.Stop()
		p.idleTimer = nil
	}
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("status poller stopped")
}

// Wait blocks until no poll is in flight or ctx is done, whichever comes
// first. Callers tearing down the poller's sinks call it after Stop.
func (p *StatusPoller) Wait(ctx context.Context) error {
	p.mu.Lock()
	done := p.pollDone
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// acquire claims the in-flight guard. It reports false when a poll is
// already running.
func (p *StatusPoller) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	p.pollDone = make(chan struct{})
	return true
}

func (p *StatusPoller) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	close(p.pollDone)
	p.pollDone = nil
	p.inFlight.Store(false)
}

func (p *StatusPoller) run(ctx, pollCtx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(pollCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// select picks randomly when both are ready.
			if ctx.Err() != nil {
				return
			}
			p.tick(pollCtx)
		}
	}
}

// tick claims the in-flight guard synchronously so that a tick observed by
// the loop before Stop is the last one that can start a fetch.
func (p *StatusPoller) tick(ctx context.Context) {
	if !p.acquire() {
		p.recorder.RecordPoll(PollResultSkipped, 0)
		p.logger.Debug("tick skipped, poll in flight")
		return
	}
	go func() {
		defer p.release()
		_, _ = p.poll(ctx)
	}()
}

// Poll runs a single poll synchronously. It returns ErrPollInFlight without
// fetching when another poll is running, and a *TransportError when the
// listing fetch fails.
func (p *StatusPoller) Poll(ctx context.Context) (PollResult, error) {
	if !p.acquire() {
		p.recorder.RecordPoll(PollResultSkipped, 0)
		return PollResult{}, ErrPollInFlight
	}
	defer p.release()
	return p.poll(ctx)
}

func (p *StatusPoller) poll(ctx context.Context) (PollResult, error) {
	p.setState(model.StateConnecting)

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	records, err := p.lister.ListBatches(fetchCtx)
	cancel()
	elapsed := time.Since(start)

	if err != nil {
		p.fail(err, elapsed)
		return PollResult{}, &TransportError{Err: err}
	}

	batches, skipped := NormalizeBatches(records)
	if skipped > 0 {
		p.recorder.RecordSkippedRecords(skipped)
		p.logger.Debug("skipped malformed batch records", zap.Int("count", skipped))
	}

	fetchedAt := p.now()
	transitions := p.reconcile(batches, fetchedAt)
	for _, t := range transitions {
		p.recorder.RecordTransition(t.From, t.To)
		p.logger.Info("batch status changed",
			zap.String("batch_id", t.BatchID),
			zap.String("from", t.From.String()),
			zap.String("to", t.To.String()),
		)
		p.notifier.Notify(TransitionNotification(t))
	}

	p.recorder.RecordPoll(PollResultOK, elapsed)
	result := PollResult{
		Batches:     batches,
		Transitions: transitions,
		Skipped:     skipped,
		Elapsed:     elapsed,
		FetchedAt:   fetchedAt,
	}
	p.observer.OnPoll(result)
	p.setState(model.StateConnected)
	return result, nil
}

// reconcile diffs batches against the current StatusMap, then replaces the
// map wholesale. Transitions follow the order of batches.
func (p *StatusPoller) reconcile(batches []model.Batch, at time.Time) []model.Transition {
	next := model.NewStatusMap(batches)

	p.mu.Lock()
	prev := p.statuses
	p.statuses = next
	p.mu.Unlock()

	var transitions []model.Transition
	for _, b := range batches {
		old, ok := prev[b.ID]
		if !ok || old == b.Status {
			continue
		}
		transitions = append(transitions, model.Transition{
			BatchID:    b.ID,
			BatchName:  b.Name,
			From:       old,
			To:         b.Status,
			ObservedAt: at,
		})
	}
	return transitions
}

func (p *StatusPoller) fail(err error, elapsed time.Duration) {
	p.recorder.RecordPoll(PollResultError, elapsed)
	p.setState(model.StateError)

	now := p.now()
	if !p.errLimiter.AllowN(now, 1) {
		p.logger.Debug("batch listing failed, notification suppressed", zap.Error(err))
		return
	}
	p.logger.Warn("batch listing failed", zap.Error(err))
	p.notifier.Notify(ConnectionErrorNotification(now))
}

// setState records a connection state change and, for connected and error,
// schedules the cosmetic fall back to idle.
func (p *StatusPoller) setState(s model.ConnectionState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.idleTimer != nil {
		p.idleTimer.Stop()
		p.idleTimer = nil
	}
	p.stateGen++
	gen := p.stateGen
	changed := p.state != s
	p.state = s

	if (s == model.StateConnected || s == model.StateError) && !p.stopped && p.idleDelay > 0 {
		p.idleTimer = time.AfterFunc(p.idleDelay, func() { p.expireState(gen) })
	}
	if changed {
		p.recorder.SetConnectionState(s)
		p.observer.OnConnectionState(s)
	}
}

func (p *StatusPoller) expireState(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stateGen != gen || p.stopped {
		return
	}
	p.idleTimer = nil
	p.stateGen++
	p.state = model.StateIdle
	p.recorder.SetConnectionState(model.StateIdle)
	p.observer.OnConnectionState(model.StateIdle)
}

// State returns the current connection state.
func (p *StatusPoller) State() model.ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Statuses returns a copy of the last successfully observed StatusMap.
func (p *StatusPoller) Statuses() model.StatusMap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statuses.Clone()
}
