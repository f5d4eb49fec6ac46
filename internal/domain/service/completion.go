package service

import (
	"context"

	"essay-ai-api/internal/domain/entity"
)

// Completer 文本补全服务的端口（port），由基础设施层提供实现。
// 约定：每次调用只向上游发送一次请求，不重试、不缓存；
// 失败时返回 CodeUpstream 的 AppError，成功时返回原始文本（可能为空，由解析器判定）。
type Completer interface {
	Complete(ctx context.Context, prompt entity.Prompt) (string, error)
	// Name 驱动名称，用于日志与指标
	Name() string
}

// CompletionUsage 一次补全调用的用量
type CompletionUsage struct {
	Kind             string
	Driver           string
	Model            string
	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// UsageRecorder 记录补全用量，失败不影响调用结果
type UsageRecorder interface {
	Record(ctx context.Context, usage CompletionUsage) error
}
