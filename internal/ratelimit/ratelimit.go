// Package ratelimit throttles requests per client key.
//
// With a Redis address the counters are shared by every instance (fixed window),
// otherwise each process keeps token buckets in memory.
package ratelimit

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// New returns the limiter described by cfg.
func New(cfg config.RateLimit) Limiter {
	if cfg.RedisAddr != "" {
		return NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), "clubadmin:ratelimit", cfg.Requests, cfg.Window)
	}

	return NewLocal(cfg.Requests, cfg.Window)
}

// Redis is a fixed window counter shared through Redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedis allows limit requests per window and key.
func NewRedis(rdb *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := r.prefix + ":" + key

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	ttl := pipe.PTTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err //nolint:wrapcheck
	}

	if incr.Val() > int64(r.limit) {
		return false, ttl.Val(), nil
	}

	return true, 0, nil
}

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle key is dropped.
	maxIdleAge = 10 * time.Minute
)

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Local keeps one token bucket per key in memory.
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	r       rate.Limit
	b       int
}

// NewLocal allows a burst of limit and refills limit tokens per window.
func NewLocal(limit int, window time.Duration) *Local {
	return &Local{
		entries: make(map[string]*localEntry),
		r:       rate.Every(window / time.Duration(max(limit, 1))),
		b:       limit,
	}
}

// Allow implements Limiter.
func (l *Local) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	if len(l.entries) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)

		for k, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}

	e.lastSeen = now

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0, nil
	}

	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)

		return false, delay, nil
	}

	return true, 0, nil
}

// Middleware answers 429 with Retry-After once the client IP is over the limit.
// Limiter failures let the request through.
func Middleware(l Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, retryAfter, err := l.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("rate limiter unavailable, allowing request")

			return c.Next()
		}

		if !allowed {
			secs := int(math.Ceil(retryAfter.Seconds()))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(max(secs, 1)))

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		}

		return c.Next()
	}
}
