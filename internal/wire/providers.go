package wire

import (
	"context"
	"fmt"
	"time"

	"essay-ai-api/internal/application/usage"
	"essay-ai-api/internal/application/writing"
	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/service"
	"essay-ai-api/internal/infrastructure/eino/callback"
	"essay-ai-api/internal/infrastructure/llm"
	"essay-ai-api/internal/infrastructure/messaging"
	"essay-ai-api/internal/infrastructure/persistence/memory"
	"essay-ai-api/internal/infrastructure/persistence/redis"
	"essay-ai-api/internal/interfaces/http/handler"
	"essay-ai-api/internal/interfaces/http/router"
	"essay-ai-api/pkg/logger"
)

// SweepInterval 内存限流器清理过期窗口的间隔
const SweepInterval = time.Minute

// LimiterSet 限流器及其就绪检查
type LimiterSet struct {
	Limiter service.RateLimiter
	Checks  map[string]handler.HealthChecker
}

// ProvideRedisClient 提供 Redis 客户端，没有组件依赖 Redis 时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.NeedsRedis() {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Error(ctx, "failed to close redis client", err)
		}
	}
	return client, cleanup, nil
}

// ProvideUsageRecorder 提供用量记录器，启用用量流时发布到 Redis Stream
func ProvideUsageRecorder(cfg *config.Config, client *redis.Client) *usage.Recorder {
	u := cfg.Observability.Usage
	if !u.StreamEnabled || client == nil {
		return usage.NewRecorder(nil)
	}
	return usage.NewRecorder(messaging.NewProducer(client.Redis(), messaging.Stream(u.Stream), u.MaxLen))
}

// ProvideCompleter 提供补全客户端，并注册 Eino 全局 callbacks
func ProvideCompleter(ctx context.Context, cfg *config.Config, usageRecorder service.UsageRecorder) (service.Completer, error) {
	callback.Init(usageRecorder)
	completer, err := llm.NewCompleter(ctx, cfg.LLM, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("failed to create completer: %w", err)
	}
	return completer, nil
}

// ProvidePipeline 提供生成流水线
func ProvidePipeline(cfg *config.Config, completer service.Completer) *writing.Pipeline {
	return writing.NewPipeline(writing.NewPromptBuilder(cfg.LLM.SystemPrompt), completer, cfg.LLM.Timeout)
}

// ProvideLimiterSet 按配置提供限流器，memory 后端启动后台清理
func ProvideLimiterSet(ctx context.Context, cfg *config.Config, client *redis.Client) (*LimiterSet, func(), error) {
	rl := cfg.Security.RateLimit
	if !rl.Enabled {
		return &LimiterSet{}, func() {}, nil
	}

	switch rl.Backend {
	case config.RateLimitBackendRedis:
		if client == nil {
			return nil, nil, fmt.Errorf("rate limit backend %q requires a redis client", rl.Backend)
		}
		return &LimiterSet{
			Limiter: redis.NewRateLimiter(client),
			Checks:  map[string]handler.HealthChecker{"redis": client},
		}, func() {}, nil

	case config.RateLimitBackendMemory, "":
		limiter := memory.NewRateLimiter()
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		go limiter.Run(runCtx, SweepInterval)
		return &LimiterSet{Limiter: limiter}, cancel, nil

	default:
		return nil, nil, fmt.Errorf("unsupported rate limit backend %q", rl.Backend)
	}
}

// ProvideRouter 提供 HTTP 路由，存在 Redis 客户端时加入就绪检查
func ProvideRouter(cfg *config.Config, pipeline *writing.Pipeline, limiters *LimiterSet, client *redis.Client) *router.Router {
	checks := make(map[string]handler.HealthChecker, len(limiters.Checks)+1)
	for name, c := range limiters.Checks {
		checks[name] = c
	}
	if client != nil {
		checks["redis"] = client
	}
	return router.New(cfg, router.Deps{
		Generator: pipeline,
		Limiter:   limiters.Limiter,
		Checks:    checks,
	})
}
