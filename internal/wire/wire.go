//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"essay-ai-api/internal/application/usage"
	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/service"
	"essay-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化 HTTP 应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		ProvideRedisClient,
		UsageSet,
		WritingSet,
		ProvideLimiterSet,
		ProvideRouter,
	)
	return nil, nil, nil
}

// UsageSet 用量统计
var UsageSet = wire.NewSet(
	ProvideUsageRecorder,
	wire.Bind(new(service.UsageRecorder), new(*usage.Recorder)),
)

// WritingSet 补全客户端与生成流水线
var WritingSet = wire.NewSet(
	ProvideCompleter,
	ProvidePipeline,
)
