package service

import (
	"context"
	"time"
)

// RateLimitResult 一次限流判定的结果
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter 被拒绝时距窗口内最早一条记录过期的时长，未知时为 0
	RetryAfter time.Duration
}

// RateLimiter 滑动窗口限流器端口
// Allow 的判定与计数必须是原子的；被拒绝的请求不计入窗口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
	// Name 后端名称，用于指标
	Name() string
}
