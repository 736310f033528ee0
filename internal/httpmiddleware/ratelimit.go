package httpmiddleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit enforces a per-client limit keyed by IP.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(c.Request.Context(), ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// TokenBucket is an in-memory per-client limiter for single-instance
// deployments. Buckets idle past the eviction window are dropped so the
// state map does not grow with every IP ever seen.
type TokenBucket struct {
	capacity int
	rate     int

	mu     sync.Mutex
	state  map[string]*bucket
	allows int
}

type bucket struct {
	tokens int
	last   time.Time
}

const (
	bucketIdleTTL = 10 * time.Minute
	sweepEvery    = 4096
)

// NewTokenBucket creates a limiter holding capacity tokens per client,
// refilled at perMinute.
func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: capacity,
		rate:     perMinute,
		state:    make(map[string]*bucket),
	}
}

// Allow takes a token from the client's bucket.
func (l *TokenBucket) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.allows++
	if l.allows%sweepEvery == 0 {
		l.evictIdle(now)
	}

	b, ok := l.state[key]
	if !ok {
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}
	elapsed := now.Sub(b.last).Minutes()
	refill := int(elapsed * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// evictIdle drops buckets not touched within the idle TTL. Caller holds mu.
func (l *TokenBucket) evictIdle(now time.Time) {
	for key, b := range l.state {
		if now.Sub(b.last) > bucketIdleTTL {
			delete(l.state, key)
		}
	}
}

// RedisCounter is a fixed-window limiter in Redis, shared across API
// replicas. Redis failures fail open so an outage never locks clients out.
type RedisCounter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisCounter creates a limiter allowing perMinute requests per client.
func NewRedisCounter(client *redis.Client, perMinute int) *RedisCounter {
	return &RedisCounter{client: client, limit: perMinute, window: time.Minute}
}

// Allow counts the request against the client's current window.
func (l *RedisCounter) Allow(ctx context.Context, key string) bool {
	k := "collabdir:ratelimit:" + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		l.client.Expire(ctx, k, l.window)
	}
	return n <= int64(l.limit)
}
