package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifequest/backend/internal/database"
	"github.com/lifequest/backend/pkg/logger"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter holds one token bucket per key (user id or client IP).
type KeyedRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*rateLimiterEntry
	r         rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedRateLimiter allows r requests per second with the given burst per key.
func NewKeyedRateLimiter(r rate.Limit, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries:   make(map[string]*rateLimiterEntry),
		r:         r,
		burst:     burst,
		idle:      3 * time.Minute,
		lastSweep: time.Now(),
	}
}

// GetLimiter returns the limiter for key. Idle entries are dropped at most once a minute.
func (rl *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, e := range rl.entries {
			if now.Sub(e.lastSeen) > rl.idle {
				delete(rl.entries, k)
			}
		}
		rl.lastSweep = now
	}

	entry, ok := rl.entries[key]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.r, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

var (
	// General API: 10/sec per client IP. Mounted before auth, so it never sees a user id.
	GeneralLimiter = NewKeyedRateLimiter(rate.Limit(10.0), 50)

	// Authenticated API: 5/sec per user, shared by every IP the user calls from.
	UserLimiter = NewKeyedRateLimiter(rate.Limit(5.0), 30)

	// Mission generation: 6 per minute per client.
	GenerateLimiter = NewKeyedRateLimiter(rate.Limit(6.0/60.0), 3)
)

// clientKey is the user id once AuthMiddleware has run, the client IP before.
func clientKey(c *gin.Context) string {
	if id := c.GetString("userId"); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware rejects requests once the caller's bucket is empty.
func RateLimitMiddleware(limiter *KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)
		if !limiter.GetLimiter(key).Allow() {
			logger.Warn().
				Str("key", key).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GeneralRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(GeneralLimiter)
}

// UserRateLimit must be mounted after AuthMiddleware.
func UserRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(UserLimiter)
}

func GenerateRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(GenerateLimiter)
}

// UserThrottle enforces a per-user quota shared across server instances via
// Redis. Without Redis every request passes; a Redis error fails open.
func UserThrottle(cache *database.Cache, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || !cache.Enabled() {
			c.Next()
			return
		}
		userID := c.GetString("userId")
		allowed, err := cache.Allow(c.Request.Context(), fmt.Sprintf("%s:%s", name, userID), limit, window)
		if err != nil {
			logger.Warn().Err(err).Str("throttle", name).Msg("Throttle check failed")
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": fmt.Sprintf("Limit of %d per %s reached", limit, window)})
			c.Abort()
			return
		}
		c.Next()
	}
}
