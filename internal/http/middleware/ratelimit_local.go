package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type playerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PlayerRateLimit is an in-process token bucket per player allowing maxActions
// per window with a burst of maxActions.
func PlayerRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	if maxActions <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	every := rate.Every(window / time.Duration(maxActions))

	var mu sync.Mutex
	limiters := make(map[int64]*playerLimiter)
	lastSweep := time.Now()

	return func(c *gin.Context) {
		playerID, ok := PlayerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		now := time.Now()
		mu.Lock()
		if now.Sub(lastSweep) > 10*window {
			for id, pl := range limiters {
				if now.Sub(pl.lastSeen) > window {
					delete(limiters, id)
				}
			}
			lastSweep = now
		}
		pl, ok := limiters[playerID]
		if !ok {
			pl = &playerLimiter{limiter: rate.NewLimiter(every, maxActions)}
			limiters[playerID] = pl
		}
		pl.lastSeen = now
		allowed := pl.limiter.AllowN(now, 1)
		mu.Unlock()

		if !allowed {
			RLBlocked.WithLabelValues("action_local:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "action rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		RLRequests.WithLabelValues("action_local:" + c.FullPath()).Inc()
		c.Next()
	}
}
