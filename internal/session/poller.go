package session

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// StatusPoller periodically refreshes the approval status of every cached
// session from the record store. Polling is the design: approval is flipped
// out of band by manual verification, and dashboards converge within one
// interval. Poll failures are logged and retried next tick; the last known
// good status is never cleared.
type StatusPoller struct {
	resolver *Resolver
	interval time.Duration
	sweeping atomic.Bool
}

func NewStatusPoller(resolver *Resolver, interval time.Duration) *StatusPoller {
	return &StatusPoller{resolver: resolver, interval: interval}
}

// Run polls until ctx is cancelled. Call in its own goroutine.
func (p *StatusPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("[StatusPoller] Started (interval: %s)", p.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[StatusPoller] Stopped")
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

// sweep refreshes every cached session once. At most one sweep is in flight:
// if the previous one is still running the tick is skipped, which keeps
// overlapping reads from racing each other.
func (p *StatusPoller) sweep(ctx context.Context) {
	if !p.sweeping.CompareAndSwap(false, true) {
		return
	}
	defer p.sweeping.Store(false)

	ids, err := p.resolver.cache.SessionIDs(ctx)
	if err != nil {
		log.Printf("[StatusPoller] Failed to list sessions: %v", err)
		return
	}

	for _, id := range ids {
		profile, err := p.resolver.Restore(ctx, id)
		if err != nil {
			// session evicted between scan and load; nothing to refresh
			continue
		}
		if _, err := p.resolver.RefreshStatus(ctx, profile); err != nil {
			log.Printf("[StatusPoller] Refresh failed for %s: %v", id, err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
