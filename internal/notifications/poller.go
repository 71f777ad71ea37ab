// Package notifications holds the per-session notification refresh
// controller. Local state is a best-effort cache: the authoritative source
// is always the next poll.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"go.uber.org/zap"
)

// Fetcher is the backend surface the poller refreshes from and writes to.
type Fetcher interface {
	UnreadCount(ctx context.Context) (int, error)
	List(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// Poller periodically refreshes unread-count state for one user session.
// Overlapping polls are tolerated; reads are idempotent and the last write
// to local state wins.
type Poller struct {
	fetcher  Fetcher
	logger   *zap.Logger
	interval time.Duration

	mu          sync.Mutex
	read        map[string]bool
	unreadCount int
	started     bool
	stopped     bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	// OnUpdate, when set before Start, receives every unread-count change.
	OnUpdate func(count int)
}

func NewPoller(fetcher Fetcher, interval time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		logger:   log,
		interval: interval,
		read:     make(map[string]bool),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start moves the controller from idle to polling: one immediate fetch, then
// one per interval and one per Wake. Start is a no-op after the first call.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.wake:
			p.poll(ctx)
		}
	}
}

// Wake triggers an immediate refresh, the analog of a tab becoming visible
// again. Coalesces when a wake is already pending.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Stop ends the session: the timer is released and no further state
// mutation happens afterwards.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	close(p.stop)
	if started {
		<-p.done
	}
}

// poll reconciles local state against server truth. Failures are silent:
// background refreshes carry no user-visible error.
func (p *Poller) poll(ctx context.Context) {
	count, err := p.fetcher.UnreadCount(ctx)
	if err != nil {
		p.logger.Debug("Unread-count poll failed", zap.Error(err))
		return
	}
	p.setUnreadCount(count)
}

func (p *Poller) setUnreadCount(count int) {
	if count < 0 {
		count = 0
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	changed := p.unreadCount != count
	p.unreadCount = count
	onUpdate := p.OnUpdate
	p.mu.Unlock()

	if changed && onUpdate != nil {
		onUpdate(count)
	}
}

// UnreadCount returns the current local unread count. Never negative.
func (p *Poller) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unreadCount
}

// IsRead reports the local read flag for a notification id.
func (p *Poller) IsRead(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read[id]
}

// MarkAsRead flips local state optimistically before the backend call
// resolves. A failed backend call leaves the optimistic state in place; the
// next poll is the reconciliation point.
func (p *Poller) MarkAsRead(ctx context.Context, id string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if !p.read[id] {
		p.read[id] = true
		if p.unreadCount > 0 {
			p.unreadCount--
		}
	}
	count := p.unreadCount
	onUpdate := p.OnUpdate
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate(count)
	}

	if err := p.fetcher.MarkRead(ctx, id); err != nil {
		p.logger.Debug("Mark-as-read failed; keeping optimistic state",
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

// MarkAllAsRead flips every known notification and zeroes the count, with
// the same no-rollback policy as MarkAsRead.
func (p *Poller) MarkAllAsRead(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	for id := range p.read {
		p.read[id] = true
	}
	p.unreadCount = 0
	onUpdate := p.OnUpdate
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate(0)
	}

	if err := p.fetcher.MarkAllRead(ctx); err != nil {
		p.logger.Debug("Mark-all-as-read failed; keeping optimistic state", zap.Error(err))
	}
}

// Track registers notifications from a list fetch into local read state.
func (p *Poller) Track(items []models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	for _, n := range items {
		if _, known := p.read[n.ID]; !known || n.IsRead {
			p.read[n.ID] = n.IsRead
		}
	}
}
