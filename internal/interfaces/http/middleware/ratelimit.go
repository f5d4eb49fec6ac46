package middleware

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"essay-ai-api/internal/domain/service"
	"essay-ai-api/internal/interfaces/http/dto"
	apperrors "essay-ai-api/pkg/errors"
	"essay-ai-api/pkg/logger"
	"essay-ai-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// Requests 窗口内允许的请求数
	Requests int
	// Window 滑动窗口长度
	Window time.Duration
	// KeyPrefix 限流 Key 前缀
	KeyPrefix string
}

// RateLimiter 限流器接口
type RateLimiter = service.RateLimiter

// RateLimit 按客户端地址的滑动窗口限流中间件
// 限流器故障时放行并记录日志
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	// 设置默认值
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}
	backend := limiter.Name()

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + ":" + c.ClientIP()

		res, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			metrics.RateLimitErrors.WithLabelValues(backend).Inc()
			logger.Warn(c.Request.Context(), "rate limiter unavailable, request let through",
				"backend", backend,
				"error", err.Error(),
			)
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			metrics.RateLimitRejected.WithLabelValues(backend).Inc()
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(res.RetryAfter)))
			}
			dto.AbortAppError(c, apperrors.ErrTooManyRequests.WithDetail(
				fmt.Sprintf("limit of %d requests per %s exceeded", cfg.Requests, cfg.Window)))
			return
		}

		c.Next()
	}
}

// retryAfterSeconds 向上取整到秒，至少 1 秒
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
