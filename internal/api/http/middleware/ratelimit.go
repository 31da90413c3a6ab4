package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/uni-mart/unimart-backend/internal/auth"
)

// RateLimiter applies a per-caller token bucket. Callers are keyed by
// identity UID when authenticated, client IP otherwise.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*callerLimiter

	stopCh chan struct{}
}

type callerLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows requestsPerMinute sustained with the given
// burst, per caller. Idle entries are swept in the background.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		limiters: make(map[string]*callerLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()
	return rl
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(callerKey(c)) {
			c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	cl, ok := rl.limiters[key]
	if !ok {
		cl = &callerLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for key, cl := range rl.limiters {
				if cl.lastAccess.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func callerKey(c *gin.Context) string {
	if identity := auth.IdentityFrom(c); identity != nil {
		return "uid:" + identity.UID
	}
	return "ip:" + c.ClientIP()
}
