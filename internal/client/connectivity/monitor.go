// Package connectivity tracks whether the server is reachable and notifies
// listeners when it becomes reachable again.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/billsync/internal/logging"
)

// Pinger checks that the server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Listener is called after a transition to online.
type Listener func(ctx context.Context)

type Monitor struct {
	pinger      Pinger
	logger      logging.Logger
	pingTimeout time.Duration

	online atomic.Bool

	mu        sync.Mutex
	listeners []Listener
}

func NewMonitor(p Pinger, logger logging.Logger, pingTimeout time.Duration) *Monitor {
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	return &Monitor{
		pinger:      p,
		logger:      logger.With("module", "connectivity"),
		pingTimeout: pingTimeout,
	}
}

func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// OnOnline registers fn to run on every offline to online transition.
func (m *Monitor) OnOnline(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// SetOnline records the current state. Listeners run synchronously when the
// state flips to online; repeated reports of the same state are ignored.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	prev := m.online.Swap(online)
	if prev == online {
		return
	}

	if !online {
		m.logger.Info(ctx, "switched to offline mode")
		return
	}
	m.logger.Info(ctx, "switched to online mode")

	m.mu.Lock()
	ls := make([]Listener, len(m.listeners))
	copy(ls, m.listeners)
	m.mu.Unlock()

	for _, fn := range ls {
		fn(ctx)
	}
}

// Check pings the server once and updates the state.
func (m *Monitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	err := m.pinger.Ping(pctx)
	cancel()

	if err != nil {
		m.logger.Debug(ctx, "ping failed", "error", err)
	}
	m.SetOnline(ctx, err == nil)
	return err == nil
}

// Run checks connectivity immediately and then on every tick until ctx is
// done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	m.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
