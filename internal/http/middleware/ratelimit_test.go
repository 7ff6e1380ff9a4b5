package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if key := KeyByUserOrIP()(c); key != "ip:203.0.113.9" {
		t.Fatalf("expected ip-based key; got %q", key)
	}

	c.Set("userID", "42")
	if key := KeyByUserOrIP()(c); key != "user:42" {
		t.Fatalf("expected user-based key; got %q", key)
	}
}

func TestNewRateLimiter_BurstCoercion_AndBucketReuse(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, KeyByUserOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
	lim := rl.limiter("k1")
	if lim == nil || rl.limiter("k1") != lim {
		t.Fatalf("expected the same bucket to be reused")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1.0, 1, KeyByUserOrIP())
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.mu.Lock()
	rl.buckets["old"] = &bucket{lim: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Hour)}
	rl.buckets["fresh"] = &bucket{lim: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Minute)}
	rl.lookups = sweepThreshold - 1
	rl.mu.Unlock()

	_ = rl.limiter("new")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["old"]; ok {
		t.Fatalf("idle bucket should be swept")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Fatalf("recent bucket should survive")
	}
	if _, ok := rl.buckets["new"]; !ok || rl.lookups != 0 {
		t.Fatalf("new bucket missing or counter not reset (%d)", rl.lookups)
	}
}

func TestRateLimiter_skip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 1, KeyByUserOrIP())

	ctxFor := func(method string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(method, "/api/get-history", nil)
		return c
	}
	if !rl.skip(ctxFor(http.MethodOptions)) {
		t.Fatalf("preflight should always be exempt")
	}
	if rl.skip(ctxFor(http.MethodGet)) || rl.skip(ctxFor(http.MethodPost)) {
		t.Fatalf("nothing else is exempt by default")
	}
	rl.SkipSafeMethods = true
	if !rl.skip(ctxFor(http.MethodGet)) || !rl.skip(ctxFor(http.MethodHead)) || rl.skip(ctxFor(http.MethodDelete)) {
		t.Fatalf("SkipSafeMethods should exempt only GET and HEAD")
	}
}

func TestRateLimiter_Handler_Allow_Deny_And_Exempt(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// rps=1, burst=1 -> first immediate request allowed, second denied
	rl := NewRateLimiter(1.0, 1, KeyByUserOrIP())

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-1"); c.Next() })
	r.Use(rl.Handler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("first request should be allowed, got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be rate-limited, got %d", w2.Code)
	}
	if got := w2.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After=1, got %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w2.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["success"] != false || body["code"] != "too_many_requests" || body["error"] != "rate limit exceeded" || body["request_id"] != "rid-1" {
		t.Fatalf("unexpected JSON body: %v", body)
	}

	// With SkipSafeMethods a drained bucket still serves reads.
	rl.SkipSafeMethods = true
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w3.Code != http.StatusOK {
		t.Fatalf("exempt request should be allowed, got %d", w3.Code)
	}
}

func TestRateLimiter_CostByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Slow refill so nothing comes back during the test.
	rl := NewRateLimiter(0.5, 5, KeyByUserOrIP())
	rl.Cost = CostByRoute(map[string]int{"/story-image": 4, "/huge": 99})

	r := gin.New()
	r.Use(rl.Handler())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/api/story-image", ok)
	r.POST("/api/prompt-to-image", ok)
	r.POST("/api/huge", ok)

	post := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	if w := post("/api/story-image"); w.Code != http.StatusOK {
		t.Fatalf("story 1 = %d", w.Code)
	}
	// one token left: a story needs four
	w := post("/api/story-image")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("story 2 = %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "6" {
		t.Fatalf("Retry-After = %q; want 6 (3 tokens at 0.5/s)", got)
	}
	if w := post("/api/prompt-to-image"); w.Code != http.StatusOK {
		t.Fatalf("single-cost call should use the last token, got %d", w.Code)
	}

	// A cost above the burst is capped, so it is allowed on a full bucket.
	rl2 := NewRateLimiter(1, 2, KeyByUserOrIP())
	rl2.Cost = CostByRoute(map[string]int{"/huge": 99})
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/huge", nil)
	if got := rl2.cost(c); got != 1 {
		t.Fatalf("unmatched route (no FullPath) should cost 1, got %d", got)
	}
	rl2.Cost = func(*gin.Context) int { return 99 }
	if got := rl2.cost(c); got != 2 {
		t.Fatalf("cost should be capped at burst, got %d", got)
	}
	rl2.Cost = func(*gin.Context) int { return 0 }
	if got := rl2.cost(c); got != 1 {
		t.Fatalf("cost floor is 1, got %d", got)
	}
}
