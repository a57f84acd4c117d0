package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurstThenBlock(t *testing.T) {
	rl := NewRateLimiter(0.001, 3)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	// Another client has its own bucket.
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(100, 1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	// Force both visitors stale and trigger the sweep.
	rl.mu.Lock()
	stale := time.Now().Add(-2 * visitorIdleTimeout)
	for _, v := range rl.visitors {
		v.lastSeen = stale
	}
	rl.lastSweep = stale
	rl.mu.Unlock()

	rl.allow("10.0.0.3")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.visitors, 1)
}
