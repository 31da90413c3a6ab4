package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// InFlightGuard allows one outstanding mutating request per
// (caller, route) pair. A second submission while the first is still
// running gets 409 instead of producing a duplicate write. This is
// the server-side counterpart of disabling a submit button while its
// request is outstanding.
type InFlightGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{pending: make(map[string]struct{})}
}

// Middleware guards non-read methods; GET and HEAD pass through.
func (g *InFlightGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		key := callerKey(c) + "|" + c.Request.Method + "|" + c.FullPath()
		if !g.acquire(key) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "request already in progress"})
			c.Abort()
			return
		}
		defer g.release(key)

		c.Next()
	}
}

func (g *InFlightGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.pending[key]; busy {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

func (g *InFlightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
}
