package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// UseRedis installs the client shared by the Redis limiters. A nil client
// makes them fail-open.
func UseRedis(client *redis.Client) {
	redisClient = client
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<ip>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		val, err := hit(c.Request.Context(), key, window)
		if err != nil {
			// fail-open
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// ActionRateLimit limits state-changing actions per player (not per IP).
// Requires JWT before it. Without Redis it uses the in-process limiter.
func ActionRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	local := PlayerRateLimit(maxActions, window)
	return func(c *gin.Context) {
		if redisClient == nil {
			local(c)
			return
		}

		playerID, ok := PlayerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "action_rl:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		val, err := hit(c.Request.Context(), key, window)
		if err != nil {
			c.Header("X-ActionRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-ActionRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-ActionRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues("action:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "action rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("action:" + c.FullPath()).Inc()
		c.Next()
	}
}

func hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}
