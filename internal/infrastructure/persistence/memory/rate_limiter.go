// Package memory 提供进程内的限流存储
package memory

import (
	"context"
	"sync"
	"time"

	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/service"
)

type window struct {
	hits   []time.Time
	length time.Duration
}

// prune 丢弃窗口外的记录，hits 按时间升序
func (w *window) prune(now time.Time) {
	cutoff := now.Add(-w.length)
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.hits = append(w.hits[:0], w.hits[i:]...)
	}
}

// RateLimiter 单进程滑动窗口限流器，按 key 记录请求时间戳
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Name 后端名称
func (l *RateLimiter) Name() string {
	return config.RateLimitBackendMemory
}

// Allow 检查是否允许请求，被拒绝的请求不记录
func (l *RateLimiter) Allow(_ context.Context, key string, limit int, length time.Duration) (service.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok {
		w = &window{}
		l.windows[key] = w
	}
	w.length = length
	w.prune(now)

	if len(w.hits) >= limit {
		res := service.RateLimitResult{Allowed: false, Limit: limit, Remaining: 0}
		if len(w.hits) > 0 {
			res.RetryAfter = w.hits[0].Add(length).Sub(now)
		}
		return res, nil
	}
	w.hits = append(w.hits, now)
	return service.RateLimitResult{Allowed: true, Limit: limit, Remaining: limit - len(w.hits)}, nil
}

// Sweep 删除窗口内已无记录的 key，返回删除数量
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.windows {
		w.prune(now)
		if len(w.hits) == 0 {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Run 按间隔执行 Sweep，直到 ctx 结束
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Len 当前跟踪的 key 数量
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
