// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the cost limiter of the API group: an in-memory
// token bucket per caller (user id, else client IP) built on
// golang.org/x/time/rate. Every upstream generation is billed, so requests
// spend tokens in proportion to the model calls they trigger: a four-scene
// story costs more than a history read.
//
// The limiter is process-local. CORS preflights never spend tokens.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	bucketTTL      = 10 * time.Minute
	sweepThreshold = 5000
)

// keyFunc selects the identity used to key a bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys authenticated requests by "user:<id>" (the "userID"
// value set by Authenticate) and anonymous ones by "ip:<addr>".
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if s := c.GetString(userIDKey); s != "" {
			return "user:" + s
		}
		return "ip:" + c.ClientIP()
	}
}

// CostByRoute returns a cost function charging costs[suffix] for routes whose
// pattern ends in suffix, and 1 for everything else.
func CostByRoute(costs map[string]int) func(*gin.Context) int {
	return func(c *gin.Context) int {
		route := c.FullPath()
		for suffix, n := range costs {
			if route != "" && strings.HasSuffix(route, suffix) {
				return n
			}
		}
		return 1
	}
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token bucket limiter. Idle buckets are swept
// every sweepThreshold lookups. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups uint64
	ttl     time.Duration
	now     func() time.Time

	// Cost returns the tokens a request spends; nil means 1. Costs are
	// capped at the burst so a single call can always succeed eventually.
	Cost func(*gin.Context) int
	// SkipSafeMethods exempts GET and HEAD requests.
	SkipSafeMethods bool
}

// NewRateLimiter constructs a limiter refilling rps tokens per second into
// buckets of size burst (coerced to at least 1).
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		ttl:     bucketTTL,
		now:     time.Now,
	}
}

// limiter returns the bucket for key, creating it when absent. The sweep
// runs before the lookup so a stale bucket for key is replaced, not revived.
func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.lookups++; rl.lookups >= sweepThreshold {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

func (rl *RateLimiter) skip(c *gin.Context) bool {
	switch c.Request.Method {
	case http.MethodOptions:
		return true
	case http.MethodGet, http.MethodHead:
		return rl.SkipSafeMethods
	}
	return false
}

func (rl *RateLimiter) cost(c *gin.Context) int {
	n := 1
	if rl.Cost != nil {
		n = rl.Cost(c)
	}
	if n < 1 {
		n = 1
	}
	if n > rl.burst {
		n = rl.burst
	}
	return n
}

// retryAfter returns the whole seconds until n tokens are available.
func (rl *RateLimiter) retryAfter(lim *rate.Limiter, n int, now time.Time) int {
	if rl.rps <= 0 {
		return 60
	}
	missing := float64(n) - lim.TokensAt(now)
	secs := int(math.Ceil(missing / float64(rl.rps)))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Handler returns the Gin middleware. A denied request gets 429 with the
// error envelope and a Retry-After hint:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: 3
//	{"success": false, "error": "rate limit exceeded", "code": "too_many_requests", "request_id": "<uuid>"}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.skip(c) {
			c.Next()
			return
		}

		lim := rl.limiter(rl.keyFn(c))
		n := rl.cost(c)
		now := rl.now()
		if lim.AllowN(now, n) {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(rl.retryAfter(lim, n, now)))
		abortJSON(c, http.StatusTooManyRequests, "too_many_requests", "rate limit exceeded")
	}
}
