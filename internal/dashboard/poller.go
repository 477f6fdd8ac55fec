package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// PollerConfig holds poller timing.
type PollerConfig struct {
	RefreshInterval time.Duration
	ClockInterval   time.Duration
	RequestTimeout  time.Duration
}

// DefaultPollerConfig returns the stock timings: refresh every two minutes,
// clock every second.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		RefreshInterval: 2 * time.Minute,
		ClockInterval:   time.Second,
		RequestTimeout:  30 * time.Second,
	}
}

// Poller refreshes the gateway snapshot on a schedule and publishes states.
type Poller struct {
	cfg       PollerConfig
	fetcher   Fetcher
	scheduler Scheduler
	logger    *zap.Logger
	now       func() time.Time

	mu          sync.Mutex
	state       State
	closed      bool
	refreshTask Task
	clockTask   Task
	subs        []chan State

	inFlight atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithNow overrides the clock.
func WithNow(now func() time.Time) PollerOption {
	return func(p *Poller) {
		p.now = now
	}
}

// NewPoller creates a poller in the initial loading state.
func NewPoller(cfg PollerConfig, fetcher Fetcher, scheduler Scheduler, logger *zap.Logger, opts ...PollerOption) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Poller{
		cfg:       cfg,
		fetcher:   fetcher,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.state = Initial(p.now())
	return p
}

// Initialize performs the first refresh and then starts the refresh and
// clock tasks.
func (p *Poller) Initialize(ctx context.Context) error {
	p.Refresh(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("poller closed")
	}

	refresh, err := p.scheduler.Every(p.cfg.RefreshInterval, func() { p.Refresh(p.ctx) })
	if err != nil {
		return err
	}
	clock, err := p.scheduler.Every(p.cfg.ClockInterval, p.tick)
	if err != nil {
		refresh.Stop()
		return err
	}
	p.refreshTask = refresh
	p.clockTask = clock

	p.logger.Info("poller started",
		zap.Duration("refresh_interval", p.cfg.RefreshInterval),
		zap.Duration("clock_interval", p.cfg.ClockInterval),
	)
	return nil
}

// Refresh fetches one snapshot. A trigger that arrives while another
// refresh is in flight is dropped.
func (p *Poller) Refresh(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("refresh already in flight, trigger ignored")
		return
	}
	defer p.inFlight.Store(false)

	if !p.apply(LoadingStarted{}) {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()
	if p.cfg.RequestTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, p.cfg.RequestTimeout)
		defer tcancel()
	}

	payload, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Warn("refresh failed", zap.Error(err))
		p.apply(FetchFailed{Err: err})
		return
	}
	p.logger.Debug("refresh succeeded", zap.String("timestamp", payload.Timestamp))
	p.apply(FetchSucceeded{Payload: payload, At: p.now()})
}

func (p *Poller) tick() {
	p.apply(ClockTicked{Now: p.now()})
}

// apply reduces ev into the current state and publishes it. It reports
// false once the poller is closed.
func (p *Poller) apply(ev Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.state = Reduce(p.state, ev)
	for _, ch := range p.subs {
		publish(ch, p.state)
	}
	return true
}

// publish keeps only the latest state in a subscriber's buffer.
func publish(ch chan State, s State) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// State returns the current state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe returns a channel that receives the current state and every
// later one. Slow readers only see the latest state. The channel is closed
// by Close.
func (p *Poller) Subscribe() <-chan State {
	ch := make(chan State, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(ch)
		return ch
	}
	ch <- p.state
	p.subs = append(p.subs, ch)
	return ch
}

// Close stops both tasks and cancels any in-flight refresh. It is safe to
// call more than once.
func (p *Poller) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	refresh, clock := p.refreshTask, p.clockTask
	p.refreshTask, p.clockTask = nil, nil
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	if refresh != nil {
		refresh.Stop()
	}
	if clock != nil {
		clock.Stop()
	}
	p.cancel()
	for _, ch := range subs {
		close(ch)
	}
	p.logger.Info("poller stopped")
}
