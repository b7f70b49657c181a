package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorIdleTTL is how long an IP may stay quiet before its bucket is dropped.
const visitorIdleTTL = 3 * time.Minute

// RateLimiter is a per-IP token bucket. Idle visitors are swept inline while
// serving requests, at most once per idleTTL.
type RateLimiter struct {
	every   time.Duration
	burst   int
	message string
	idleTTL time.Duration

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func NewRateLimiter(every time.Duration, burst int, message string) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if message == "" {
		message = "Too many requests. Please slow down."
	}
	return &RateLimiter{
		every:     every,
		burst:     burst,
		message:   message,
		idleTTL:   visitorIdleTTL,
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweepLocked(now.Add(-rl.idleTTL))
		rl.lastSweep = now
	}

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(rl.every), rl.burst)
		rl.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: now,
		}
		return limiter
	}

	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// sweepLocked forgets visitors last seen before cutoff. rl.mu must be held.
func (rl *RateLimiter) sweepLocked(cutoff time.Time) int {
	removed := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": rl.message,
			})
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware applies the general per-IP limit for all routes.
func RateLimitMiddleware(every time.Duration, burst int) gin.HandlerFunc {
	return NewRateLimiter(every, burst, "").Middleware()
}

// LoginRateLimitMiddleware applies a stricter per-IP limit for auth routes.
func LoginRateLimitMiddleware(every time.Duration, burst int) gin.HandlerFunc {
	return NewRateLimiter(every, burst, "Too many authentication attempts. Please wait and try again.").Middleware()
}
