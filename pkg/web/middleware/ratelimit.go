package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/notehub/notehub/pkg/logger"
	weberrors "github.com/notehub/notehub/pkg/web/errors"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
	// Burst 突发容量
	Burst int
	// PerIP 是否按 IP 限流
	PerIP bool
	// SkipPaths 跳过的路径
	SkipPaths []string
	// CleanupInterval 过期限流器清理间隔
	CleanupInterval time.Duration
	// LimiterTTL 单个限流器的空闲过期时间
	LimiterTTL time.Duration
}

// DefaultRateLimitConfig 返回默认限流配置
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 1000,
		Burst:             2000,
		PerIP:             true,
		CleanupInterval:   time.Minute,
		LimiterTTL:        10 * time.Minute,
	}
}

// limiterEntry 单个限流器及其最近使用时间
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 限流器
type RateLimiter struct {
	cfg    *RateLimitConfig
	global *rate.Limiter
	logger logger.Logger

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter 创建限流器
func NewRateLimiter(l logger.Logger, cfg *RateLimitConfig) *RateLimiter {
	if cfg == nil {
		cfg = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		cfg:      cfg,
		global:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:   l.Named("middleware.ratelimit"),
		limiters: make(map[string]*limiterEntry),
		stopCh:   make(chan struct{}),
	}

	if cfg.PerIP && cfg.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}

	return rl
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		return rl.global.Allow()
	}
	return rl.getLimiter(key).Allow()
}

// getLimiter 获取或创建限流器
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanupLoop 定期清理过期的限流器
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.cfg.LimiterTTL)
			rl.mu.Lock()
			for key, entry := range rl.limiters {
				if entry.lastSeen.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close 关闭限流器
func (rl *RateLimiter) Close() error {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
	return nil
}

// RateLimit 限流中间件
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	skipPaths := make(map[string]struct{})
	for _, path := range limiter.cfg.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, skip := skipPaths[path]; skip {
			c.Next()
			return
		}

		var key string
		if limiter.cfg.PerIP {
			key = c.ClientIP()
		}

		if !limiter.Allow(key) {
			limiter.logger.Warn("request rate limited", "ip", c.ClientIP(), "path", path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    weberrors.CodeRateLimited,
				"message": "too many requests",
			})
			return
		}

		c.Next()
	}
}
