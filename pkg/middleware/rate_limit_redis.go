package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/metrics"
)

// fixedWindow counts requests per caller in Redis so every replica shares
// one budget. Keys are "rl:<caller>:<window index>".
type fixedWindow struct {
	client *redis.Client
	window time.Duration
	limit  int64
	now    func() time.Time
}

func (w *fixedWindow) key(caller string) string {
	idx := w.now().UnixNano() / int64(w.window)
	return fmt.Sprintf("rl:%s:%d", caller, idx)
}

// take spends one request and returns how many remain in the window.
func (w *fixedWindow) take(ctx context.Context, caller string) (int64, error) {
	key := w.key(caller)
	var incr *redis.IntCmd
	_, err := w.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, w.window+time.Second)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return w.limit - incr.Val(), nil
}

// RedisRateLimitMiddleware is a coarse fixed-window limiter. Each window of
// length window admits rps*window+burst requests per caller. A nil client
// falls back to RateLimitMiddleware.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	if window < time.Second {
		window = time.Second
	}
	w := &fixedWindow{
		client: client,
		window: window,
		limit:  int64(rps*window.Seconds()) + int64(burst),
		now:    time.Now,
	}
	log := logger.Named("ratelimit")
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		remaining, err := w.take(c.Request.Context(), rateKey(c))
		if err != nil {
			log.Errorf("rate limit check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(w.limit, 10))
		if remaining < 0 {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", retryAfter)
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
