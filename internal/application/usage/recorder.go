// Package usage 记录补全调用的 token 用量
package usage

import (
	"context"
	"fmt"
	"strings"

	"essay-ai-api/internal/domain/service"
	"essay-ai-api/pkg/logger"
	"essay-ai-api/pkg/metrics"
)

// Publisher 用量事件发布者
type Publisher interface {
	PublishUsage(ctx context.Context, in service.CompletionUsage) (string, error)
}

// Recorder 将用量写入 Prometheus 计数器并输出调试日志
// 配置了 Publisher 时额外发布用量事件，发布失败只记日志
type Recorder struct {
	publisher Publisher
}

// NewRecorder 创建用量记录器，publisher 可为 nil
func NewRecorder(publisher Publisher) *Recorder {
	return &Recorder{publisher: publisher}
}

// Record 记录一次调用的用量
func (r *Recorder) Record(ctx context.Context, in service.CompletionUsage) error {
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage: prompt=%d completion=%d", in.PromptTokens, in.CompletionTokens)
	}

	kind := labelOr(in.Kind)
	driver := labelOr(in.Driver)
	model := strings.TrimSpace(in.Model)

	metrics.LLMTokensUsed.WithLabelValues(kind, driver, model, "prompt").Add(float64(in.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(kind, driver, model, "completion").Add(float64(in.CompletionTokens))

	logger.Debug(ctx, "llm usage",
		"kind", kind,
		"driver", driver,
		"model", model,
		"prompt_tokens", in.PromptTokens,
		"completion_tokens", in.CompletionTokens,
		"duration_ms", in.DurationMs,
	)

	if r.publisher != nil {
		if _, err := r.publisher.PublishUsage(ctx, in); err != nil {
			metrics.UsagePublishErrors.Inc()
			logger.Warn(ctx, "failed to publish usage event", "kind", kind, "error", err.Error())
		}
	}
	return nil
}

func labelOr(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "unknown"
}
