package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/entity"
	"essay-ai-api/internal/domain/service"
	apperrors "essay-ai-api/pkg/errors"
	"essay-ai-api/pkg/logger"
	"essay-ai-api/pkg/metrics"
	"essay-ai-api/pkg/tracer"
)

// OpenAICompleter 基于 go-openai 的补全客户端，适用于任意 OpenAI 兼容端点
type OpenAICompleter struct {
	client        *openai.Client
	modelName     string
	temperature   float32
	usageRecorder service.UsageRecorder
}

// NewOpenAICompleter 创建客户端
func NewOpenAICompleter(cfg config.LLMConfig, usageRecorder service.UsageRecorder) *OpenAICompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAICompleter{
		client:        openai.NewClientWithConfig(clientCfg),
		modelName:     cfg.Model,
		temperature:   float32(cfg.Temperature),
		usageRecorder: usageRecorder,
	}
}

// Name 驱动名称
func (c *OpenAICompleter) Name() string {
	return config.DriverOpenAI
}

// Complete 发送一次补全请求
func (c *OpenAICompleter) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	kind := string(prompt.Kind())
	start := time.Now()

	ctx, span := tracer.Start(ctx, "llm.generate")
	span.SetAttributes(
		attribute.String("generation.kind", kind),
		attribute.String("llm.driver", c.Name()),
		attribute.String("llm.model", c.modelName),
	)
	defer span.End()

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User()},
		},
		MaxTokens:   prompt.MaxTokens(),
		Temperature: c.temperature,
	}

	logger.Debug(ctx, "sending completion",
		"driver", c.Name(),
		"model", c.modelName,
		"kind", kind,
		"max_tokens", prompt.MaxTokens(),
	)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	elapsed := time.Since(start)
	metrics.LLMCallDuration.WithLabelValues(kind, c.Name(), c.modelName).Observe(elapsed.Seconds())

	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("response contained no choices")
	}
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(kind, c.Name(), c.modelName, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", apperrors.Upstream(err)
	}
	metrics.LLMCallTotal.WithLabelValues(kind, c.Name(), c.modelName, "success").Inc()

	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens),
	)
	if c.usageRecorder != nil {
		err := c.usageRecorder.Record(ctx, service.CompletionUsage{
			Kind:             kind,
			Driver:           c.Name(),
			Model:            c.modelName,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			DurationMs:       int(elapsed.Milliseconds()),
		})
		if err != nil {
			logger.Warn(ctx, "failed to record llm usage", "error", err.Error())
		}
	}

	return resp.Choices[0].Message.Content, nil
}
