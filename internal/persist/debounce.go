// Package persist schedules store writes for the storefront engines.
//
// A Debouncer holds at most one pending write. Scheduling again for the same
// key replaces the pending value and restarts the delay, so a burst of
// mutations produces a single write of the latest state. Scheduling for a
// different key commits the pending write first; the favorites engine relies
// on that when the signed-in user changes.
package persist

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type write struct {
	key   string
	value string
}

type Debouncer struct {
	store   storage.Store
	delay   time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics

	// failures are logged at most once a minute
	warn rate.Sometimes

	mu      sync.Mutex
	pending *write
	timer   *time.Timer
	seq     uint64
	closed  bool
}

// New returns a Debouncer writing to store after delay. A zero delay writes
// synchronously inside Schedule.
func New(store storage.Store, delay time.Duration, log *zap.Logger, m *metrics.Metrics) *Debouncer {
	return &Debouncer{
		store:   store,
		delay:   delay,
		log:     logger.OrDefault(log).With(zap.String("component", "persist")),
		metrics: m,
		warn:    rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// Schedule replaces any pending write for key with value.
func (d *Debouncer) Schedule(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.stopTimerLocked()
		if d.pending.key == key {
			d.metrics.PersistCollapsed(keyLabel(key))
		} else {
			d.commitLocked(context.Background(), d.pending)
		}
		d.pending = nil
	}

	w := &write{key: key, value: value}
	if d.delay <= 0 || d.closed {
		d.commitLocked(context.Background(), w)
		return
	}

	d.pending = w
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Flush commits the pending write now, if there is one.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked(ctx)
}

// Close flushes and switches the debouncer to write-through, so mutations
// arriving during shutdown are not lost.
func (d *Debouncer) Close(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked(ctx)
	d.closed = true
}

// Pending reports whether a write is waiting for its delay.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// superseded or already flushed
	if seq != d.seq || d.pending == nil {
		return
	}
	w := d.pending
	d.pending = nil
	d.timer = nil
	d.commitLocked(context.Background(), w)
}

func (d *Debouncer) flushLocked(ctx context.Context) {
	if d.pending == nil {
		return
	}
	d.stopTimerLocked()
	w := d.pending
	d.pending = nil
	d.commitLocked(ctx, w)
}

func (d *Debouncer) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) commitLocked(ctx context.Context, w *write) {
	label := keyLabel(w.key)
	if err := d.store.Set(ctx, w.key, w.value); err != nil {
		d.metrics.PersistWrite(label, metrics.ResultError)
		d.warn.Do(func() {
			d.log.Warn("persist write failed, keeping in-memory state",
				zap.String("key", w.key),
				zap.Error(err),
			)
		})
		return
	}
	d.metrics.PersistWrite(label, metrics.ResultOK)
	d.log.Debug("persisted", zap.String("key", w.key), zap.Int("bytes", len(w.value)))
}

// keyLabel drops the user id from namespaced keys to keep metric
// cardinality bounded.
func keyLabel(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
