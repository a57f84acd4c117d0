package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// visitorIdleTimeout controls when an inactive client's bucket is dropped.
const visitorIdleTimeout = 10 * time.Minute

type visitor struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket keyed on the request IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	rate       float64 // tokens replenished per second
	bucketSize float64

	lastSweep time.Time
}

func NewRateLimiter(rate float64, bucketSize float64) *RateLimiter {
	return &RateLimiter{
		visitors:   make(map[string]*visitor),
		rate:       rate,
		bucketSize: bucketSize,
		lastSweep:  time.Now(),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{tokens: rl.bucketSize}
		rl.visitors[ip] = v
	} else {
		v.tokens = min(rl.bucketSize, v.tokens+now.Sub(v.lastSeen).Seconds()*rl.rate)
	}
	v.lastSeen = now

	if now.Sub(rl.lastSweep) > visitorIdleTimeout {
		rl.sweep(now)
	}

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

// sweep drops buckets nobody has touched lately so the map stays bounded.
// Caller holds the lock.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}
