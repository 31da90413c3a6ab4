package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
)

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())

	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	rid := w.Header().Get("X-Request-Id")
	if rid == "" {
		t.Fatal("no X-Request-Id header")
	}
	if seen != rid {
		t.Errorf("context rid = %q, header rid = %q", seen, rid)
	}
}

func TestRequestID_IncomingHeaderKept(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "given-id")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "given-id" {
		t.Errorf("X-Request-Id = %q, want given-id", got)
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(60, 2)
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestRateLimiter_CallersAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(60, 1)
	defer rl.Stop()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.CtxIdentity, &auth.Identity{UID: c.GetHeader("X-Test-UID")})
		c.Next()
	})
	r.Use(rl.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(uid string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Test-UID", uid)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("u1"); code != http.StatusOK {
		t.Errorf("u1 first = %d, want 200", code)
	}
	if code := do("u1"); code != http.StatusTooManyRequests {
		t.Errorf("u1 second = %d, want 429", code)
	}
	if code := do("u2"); code != http.StatusOK {
		t.Errorf("u2 first = %d, want 200 (independent bucket)", code)
	}
}

func TestInFlightGuard_RejectsConcurrentDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := NewInFlightGuard()

	release := make(chan struct{})
	started := make(chan struct{})

	r := gin.New()
	r.Use(guard.Middleware())
	r.POST("/submit", func(c *gin.Context) {
		close(started)
		<-release
		c.Status(http.StatusOK)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	first := httptest.NewRecorder()
	go func() {
		defer wg.Done()
		r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/submit", nil))
	}()

	<-started
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/submit", nil))
	close(release)
	wg.Wait()

	if first.Code != http.StatusOK {
		t.Errorf("first = %d, want 200", first.Code)
	}
	if second.Code != http.StatusConflict {
		t.Errorf("concurrent duplicate = %d, want 409", second.Code)
	}
}

func TestInFlightGuard_SequentialRequestsPass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := NewInFlightGuard()

	r := gin.New()
	r.Use(guard.Middleware())
	r.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if w.Code != http.StatusOK {
			t.Errorf("sequential request %d = %d, want 200", i, w.Code)
		}
	}
}

func TestInFlightGuard_ReadsNeverBlocked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := NewInFlightGuard()

	release := make(chan struct{})
	started := make(chan struct{})

	r := gin.New()
	r.Use(guard.Middleware())
	r.POST("/submit", func(c *gin.Context) {
		close(started)
		<-release
		c.Status(http.StatusOK)
	})
	r.GET("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	}()

	<-started
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submit", nil))
	close(release)
	wg.Wait()

	if w.Code != http.StatusOK {
		t.Errorf("GET during in-flight POST = %d, want 200", w.Code)
	}

	// Give the goroutine's recorder a moment; nothing to assert beyond
	// the handler not deadlocking.
	time.Sleep(10 * time.Millisecond)
}
