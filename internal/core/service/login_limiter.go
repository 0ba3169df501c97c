package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/metrics"
)

// Limiter tunables. The window bounds how long failed attempts count against
// a key; overflowing the window's budget places the extended lockout.
const (
	DefaultMaxAttempts    = 5
	DefaultWindow         = 15 * time.Minute
	DefaultLockout        = 30 * time.Minute
	DefaultSweepThreshold = 500
)

type attemptEntry struct {
	count       int
	firstAt     time.Time
	lockedUntil *time.Time
}

// MemoryLimiter is the in-process login rate limiter: a sliding-window
// attempt counter with escalating lockout per (IP, identifier) key. State is
// best-effort and non-durable; it is constructed once at process start and
// injected into the request pipeline.
//
// A single mutex owns the whole map. Throughput is a handful of login
// submissions per second at most, and whole-map ownership is what makes the
// read-modify-write on a key atomic: without it two concurrent attempts could
// both read count=4 and let a sixth try through.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*attemptEntry

	maxAttempts    int
	window         time.Duration
	lockout        time.Duration
	sweepThreshold int

	log zerolog.Logger
	now func() time.Time
}

// LimiterConfig carries the limiter tunables; zero values fall back to the
// defaults above.
type LimiterConfig struct {
	MaxAttempts    int
	Window         time.Duration
	Lockout        time.Duration
	SweepThreshold int
}

func NewMemoryLimiter(cfg LimiterConfig, log zerolog.Logger) *MemoryLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = DefaultLockout
	}
	if cfg.SweepThreshold <= 0 {
		cfg.SweepThreshold = DefaultSweepThreshold
	}
	return &MemoryLimiter{
		entries:        make(map[string]*attemptEntry),
		maxAttempts:    cfg.MaxAttempts,
		window:         cfg.Window,
		lockout:        cfg.Lockout,
		sweepThreshold: cfg.SweepThreshold,
		log:            log,
		now:            time.Now,
	}
}

// Check records one attempt for key and answers whether it may proceed.
//
// The lockout test runs before the window-freshness test: a locked key must
// never reset early just because its original window elapsed. Attempts made
// during a lockout do not extend it; only overflowing a fresh window after
// expiry places a new one.
func (l *MemoryLimiter) Check(_ context.Context, key string) domain.ThrottleVerdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]

	if ok && e.lockedUntil != nil {
		if now.Before(*e.lockedUntil) {
			return domain.ThrottleVerdict{
				Allowed:           false,
				Remaining:         0,
				RetryAfterMinutes: ceilMinutes(e.lockedUntil.Sub(now)),
			}
		}
		// An expired lockout starts the key over. Dropping the entry here
		// rather than relying on the freshness test keeps the reset correct
		// for any window/lockout configuration, not just ones where the
		// lockout outlives the window.
		delete(l.entries, key)
		ok = false
	}

	if !ok || now.Sub(e.firstAt) > l.window {
		l.entries[key] = &attemptEntry{count: 1, firstAt: now}
		l.maybeSweep(now)
		return domain.ThrottleVerdict{Allowed: true, Remaining: l.maxAttempts - 1}
	}

	e.count++
	if e.count <= l.maxAttempts {
		return domain.ThrottleVerdict{Allowed: true, Remaining: l.maxAttempts - e.count}
	}

	until := now.Add(l.lockout)
	e.lockedUntil = &until
	l.log.Warn().Str("key", key).Time("locked_until", until).Msg("login key locked out")
	metrics.LoginLockoutsTotal.Inc()
	return domain.ThrottleVerdict{
		Allowed:           false,
		Remaining:         0,
		RetryAfterMinutes: ceilMinutes(l.lockout),
	}
}

// Reset clears the key after a successful authentication.
func (l *MemoryLimiter) Reset(_ context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// maybeSweep drops every expired entry once the store outgrows the threshold.
// Opportunistic, caller holds the lock; this bounds memory without a
// background scheduler.
func (l *MemoryLimiter) maybeSweep(now time.Time) {
	if len(l.entries) <= l.sweepThreshold {
		return
	}
	swept := 0
	for k, e := range l.entries {
		if l.expired(e, now) {
			delete(l.entries, k)
			swept++
		}
	}
	if swept > 0 {
		l.log.Debug().Int("swept", swept).Int("remaining", len(l.entries)).Msg("limiter store swept")
	}
}

// expired reports whether the entry's effective lifetime — lockout when one
// is set, window otherwise — has passed.
func (l *MemoryLimiter) expired(e *attemptEntry, now time.Time) bool {
	if e.lockedUntil != nil {
		return !now.Before(*e.lockedUntil)
	}
	return now.Sub(e.firstAt) > l.window
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
