package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/metrics"
	"github.com/dukerupert/parlor/internal/store"
)

// Reclaimer periodically deletes sessions that have been inactive for
// longer than the timeout.
type Reclaimer struct {
	mu       sync.RWMutex
	sessions *store.SessionStore
	clock    clock.Clock
	timeout  time.Duration
	period   time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	// elapsed measures how long a sweep took. Real time, not the clock.
	elapsed func(time.Time) time.Duration
}

func NewReclaimer(sessions *store.SessionStore, clk clock.Clock, timeout, period time.Duration, logger *slog.Logger) *Reclaimer {
	return &Reclaimer{
		sessions: sessions,
		clock:    clk,
		timeout:  timeout,
		period:   period,
		logger:   logger,
		elapsed:  time.Since,
	}
}

// nextWait is how long to sleep after a sweep that took elapsed, so sweeps
// start once per period. A sweep longer than the period is followed
// immediately by the next one.
func nextWait(period, elapsed time.Duration) time.Duration {
	return max(0, period-elapsed)
}

// Start runs a sweep immediately and then once per period until Stop is
// called or ctx is cancelled. The wait after each sweep is shortened by the
// time the sweep took.
func (r *Reclaimer) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	go func() {
		defer close(done)
		for {
			start := time.Now()
			r.Sweep(ctx)

			timer := time.NewTimer(nextWait(r.period, r.elapsed(start)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// Stop cancels the loop and waits for the current sweep to finish.
func (r *Reclaimer) Stop() {
	r.mu.RLock()
	cancel := r.cancel
	done := r.done
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Sweep deletes every session whose last activity is older than the
// timeout. Failures are logged and returned; they never stop the loop.
func (r *Reclaimer) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	cutoff := clock.Millis(r.clock) - r.timeout.Milliseconds()

	n, err := r.sessions.DeleteInactive(ctx, cutoff)
	metrics.ReclaimDurationMS.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("reclaim sessions", "error", err)
		}
		metrics.ReclaimSweeps.WithLabelValues("error").Inc()
		return 0, err
	}

	metrics.ReclaimSweeps.WithLabelValues("ok").Inc()
	metrics.SessionsReclaimed.Add(float64(n))
	if n > 0 {
		r.logger.Info("reclaimed sessions", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
