package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/pkg/config"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
	"github.com/noah-isme/library-seat-api/pkg/response"
)

var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// Decision is the outcome of taking one token.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter takes a token from the bucket identified by key.
type Limiter interface {
	Take(ctx context.Context, key string) (Decision, error)
}

// TokenBucket is a Limiter whose state lives in redis, so every API replica
// draws from the same bucket.
type TokenBucket struct {
	client   redis.Scripter
	capacity int
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenBucket builds a redis-backed bucket that refills one token per
// interval up to capacity.
func NewTokenBucket(client redis.Scripter, cfg config.RateLimitConfig) *TokenBucket {
	capacity := cfg.Capacity
	if capacity < 1 {
		capacity = 1
	}
	interval := cfg.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}
	ttl := time.Duration(capacity)*interval + time.Minute
	return &TokenBucket{client: client, capacity: capacity, interval: interval, ttl: ttl, now: time.Now}
}

// Take implements Limiter.
func (b *TokenBucket) Take(ctx context.Context, key string) (Decision, error) {
	args := []interface{}{
		b.now().UnixMilli(),
		b.capacity,
		b.interval.Milliseconds(),
		int64(b.ttl / time.Second),
	}
	vals, err := tokenBucketScript.Run(ctx, b.client, []string{key}, args...).Result()
	if err != nil {
		return Decision{}, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{}, fmt.Errorf("unexpected token bucket result %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

// RateLimit rejects requests once their bucket is empty. Limiter failures
// let the request through.
func RateLimit(limiter Limiter, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit"
	}
	return func(c *gin.Context) {
		key := rateKey(prefix, c)
		decision, err := limiter.Take(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			logger.Info("rate limit exceeded", zap.String("key", key), zap.Int("retry_after", secs))
			response.Error(c, appErrors.Clone(appErrors.ErrRateLimited, "Too many requests. Please try again shortly."))
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateKey(prefix string, c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return strings.Join([]string{prefix, "ip", ip, "route", c.Request.Method + " " + route}, ":")
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
