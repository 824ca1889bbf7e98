package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/metrics"
	"github.com/joshua-takyi/foodshare/internal/models"
)

type RateLimiterConfig struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
}

func DefaultRateLimiterConfig(perMinute int) RateLimiterConfig {
	return RateLimiterConfig{
		PerMinute:       perMinute,
		Burst:           perMinute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config  RateLimiterConfig
	limit   rate.Limit
	metrics metrics.Recorder
	logger  *slog.Logger

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a background loop that forgets idle clients. Call
// Stop to end it.
func NewRateLimiter(config RateLimiterConfig, rec metrics.Recorder, logger *slog.Logger) *RateLimiter {
	if rec == nil {
		rec = metrics.Nop{}
	}
	rl := &RateLimiter{
		config:   config,
		limit:    rate.Limit(float64(config.PerMinute) / 60.0),
		metrics:  rec,
		logger:   logger,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.PerMinute <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !rl.limiterFor(ip).Allow() {
			rl.metrics.RecordRateLimited()
			rl.logger.Warn("rate limit exceeded", "client_ip", ip, "path", c.FullPath())
			c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			helpers.RespondError(c, models.NewRateLimitedError())
			return
		}
		c.Next()
	}
}

// Len is the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.config.Burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.config.PerMinute <= 0 {
		return 60
	}
	return int(math.Ceil(60 / float64(rl.config.PerMinute)))
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.cleanup(time.Now())
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > rl.config.IdleTimeout {
			delete(rl.limiters, key)
		}
	}
}
