package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/metrics"
)

// Limiter is the shared-store variant of the login rate limiter for
// multi-instance deployments. It approximates the in-memory limiter's
// window/lockout semantics with counter and lock keys under TTL; Redis INCR
// gives the per-key read-modify-write atomicity across instances.
//
// Throttle state is best-effort by contract, so a Redis failure fails open:
// the attempt is allowed and a diagnostic is logged.
type Limiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	log         zerolog.Logger
}

func NewLimiter(client *redis.Client, maxAttempts int, window, lockout time.Duration, log zerolog.Logger) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if lockout <= 0 {
		lockout = 30 * time.Minute
	}
	return &Limiter{client: client, maxAttempts: maxAttempts, window: window, lockout: lockout, log: log}
}

func (l *Limiter) countKey(key string) string { return "loginlimit:count:" + key }
func (l *Limiter) lockKey(key string) string  { return "loginlimit:lock:" + key }

// Check records one attempt and answers whether it may proceed. The lock key
// is consulted first so a locked key never resets early; attempts during a
// lockout do not extend it.
func (l *Limiter) Check(ctx context.Context, key string) domain.ThrottleVerdict {
	ttl, err := l.client.TTL(ctx, l.lockKey(key)).Result()
	if err != nil {
		return l.failOpen(key, err)
	}
	if ttl > 0 {
		return domain.ThrottleVerdict{Allowed: false, Remaining: 0, RetryAfterMinutes: ceilMinutes(ttl)}
	}

	count, err := l.client.Incr(ctx, l.countKey(key)).Result()
	if err != nil {
		return l.failOpen(key, err)
	}
	if count == 1 {
		// First attempt opens the window; expiry doubles as the sweep.
		if err := l.client.Expire(ctx, l.countKey(key), l.window).Err(); err != nil {
			return l.failOpen(key, err)
		}
	}

	if int(count) <= l.maxAttempts {
		return domain.ThrottleVerdict{Allowed: true, Remaining: l.maxAttempts - int(count)}
	}

	if err := l.client.Set(ctx, l.lockKey(key), "1", l.lockout).Err(); err != nil {
		return l.failOpen(key, err)
	}
	l.client.Del(ctx, l.countKey(key))
	l.log.Warn().Str("key", key).Dur("lockout", l.lockout).Msg("login key locked out")
	metrics.LoginLockoutsTotal.Inc()
	return domain.ThrottleVerdict{Allowed: false, Remaining: 0, RetryAfterMinutes: ceilMinutes(l.lockout)}
}

// Reset clears the key after a successful authentication.
func (l *Limiter) Reset(ctx context.Context, key string) {
	if err := l.client.Del(ctx, l.countKey(key), l.lockKey(key)).Err(); err != nil {
		l.log.Error().Err(err).Str("key", key).Msg("limiter reset failed")
	}
}

func (l *Limiter) failOpen(key string, err error) domain.ThrottleVerdict {
	l.log.Error().Err(fmt.Errorf("limiter store: %w", err)).Str("key", key).Msg("limiter lookup failed, failing open")
	return domain.ThrottleVerdict{Allowed: true, Remaining: l.maxAttempts - 1}
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
