package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	// Sustained requests per second per visitor
	Rate rate.Limit
	// Burst size
	Burst int
	// Key generator function - identifies the visitor
	KeyGenerator func(c *fiber.Ctx) string
}

// DefaultRateLimiterConfig limits each IP to roughly ten submissions per
// minute with a small burst. The popup submits at human speed; anything
// faster is a script.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:  rate.Every(6 * time.Second),
		Burst: 3,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}
}

// visitorLimiter tracks rate limiting state for one visitor
type visitorLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter implements per-visitor rate limiting
type RateLimiter struct {
	config   RateLimiterConfig
	limiters map[string]*visitorLimiter
	mu       sync.Mutex
	done     chan struct{}
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate == 0 {
		config.Rate = DefaultRateLimiterConfig().Rate
	}
	if config.Burst == 0 {
		config.Burst = DefaultRateLimiterConfig().Burst
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = DefaultRateLimiterConfig().KeyGenerator
	}

	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*visitorLimiter),
		done:     make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// Stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Handler returns the Fiber middleware handler
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := rl.config.KeyGenerator(c)
		if key == "" {
			return c.Next()
		}

		rl.mu.Lock()
		entry, exists := rl.limiters[key]
		if !exists {
			entry = &visitorLimiter{
				limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst),
			}
			rl.limiters[key] = entry
		}
		entry.lastAccess = time.Now()
		limiter := entry.limiter
		rl.mu.Unlock()

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds()) + 1
			reservation.Cancel()
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return domain.ErrRateLimitExceeded
		}

		return c.Next()
	}
}

// cleanup removes stale entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, entry := range rl.limiters {
				if now.Sub(entry.lastAccess) > 10*time.Minute {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}
