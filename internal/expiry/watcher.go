// SPDX-License-Identifier: MIT

package expiry

import (
	"context"
	"time"

	xlog "github.com/rsvideo/console/internal/log"
)

// DefaultPollInterval is how often the watcher re-evaluates expiry while
// records are live; expiry can cross the boundary during an open viewing
// session, so a load-time check alone is not enough.
const DefaultPollInterval = 5 * time.Second

// Entry is the minimal view of a record the watcher needs. Snapshots are taken
// fresh on every tick so a concurrent update or delete is picked up rather
// than racing a cached flag.
type Entry struct {
	ID     string
	Expiry string
}

// Watcher polls a record snapshot and fires a callback each time a record
// crosses from active to expired. The transition is one-way for the lifetime
// of the watcher: a record whose expiry is edited back into the future is not
// un-expired without a restart, matching the viewing-session semantics.
type Watcher struct {
	interval time.Duration
	now      func() time.Time
	expired  map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWatcher creates a watcher with the default 5s interval.
func NewWatcher(opts ...Option) *Watcher {
	w := &Watcher{
		interval: DefaultPollInterval,
		now:      time.Now,
		expired:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run evaluates once immediately, then on every tick until ctx is cancelled.
// snapshot must return the freshest record list; onExpired is invoked exactly
// once per record id crossing into the expired state.
func (w *Watcher) Run(ctx context.Context, snapshot func() []Entry, onExpired func(Entry)) {
	logger := xlog.WithComponent("expiry")

	w.sweep(snapshot, onExpired)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("expiry watcher stopped")
			return
		case <-ticker.C:
			w.sweep(snapshot, onExpired)
		}
	}
}

func (w *Watcher) sweep(snapshot func() []Entry, onExpired func(Entry)) {
	now := w.now()
	for _, e := range snapshot() {
		if w.expired[e.ID] {
			continue
		}
		if IsExpired(e.Expiry, now) {
			w.expired[e.ID] = true
			if onExpired != nil {
				onExpired(e)
			}
		}
	}
}
