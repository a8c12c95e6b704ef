package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter は、キーごとに一定時間内の操作回数を制限するインターフェースです。
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter は Redis の INCR+EXPIRE による固定ウィンドウ方式のレートリミッターです。
// rdb が nil、もしくは Redis がエラーを返した場合はリクエストを許可します (fail open)。
type RateLimiter struct {
	rdb      *redis.Client
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // ウィンドウ幅
	prefix   string
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しい RateLimiter を生成します。
func NewRateLimiter(rdb *redis.Client, prefix string, limit int, interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = time.Minute
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RateLimiter{
		rdb:      rdb,
		limit:    limit,
		interval: interval,
		prefix:   prefix,
	}
}

// Allow increments the counter for key and reports whether the call fits in
// the current window.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if rl.rdb == nil || rl.limit <= 0 {
		return Decision{Allowed: true, Remaining: rl.limit}, nil
	}

	window := time.Now().UnixNano() / int64(rl.interval)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.prefix, key, window)

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.interval)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
		return Decision{Allowed: true, Remaining: rl.limit}, err
	}

	count := int(incr.Val())
	if count > rl.limit {
		retry := rl.interval - time.Duration(time.Now().UnixNano()%int64(rl.interval))
		slog.Info("rate limit hit", "key", key, "limit", rl.limit, "retry_after", retry)
		return Decision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
	}
	return Decision{Allowed: true, Remaining: rl.limit - count}, nil
}
