// Package llm 提供文本补全服务的客户端实现
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/entity"
	apperrors "essay-ai-api/pkg/errors"
	"essay-ai-api/pkg/logger"
)

const einoRunName = "essay_completion"

// EinoCompleter 基于 Eino ChatModel 的补全客户端
type EinoCompleter struct {
	chatModel model.BaseChatModel
	modelName string
}

// NewEinoCompleter 使用 Eino 的 OpenAI 适配器创建客户端
func NewEinoCompleter(ctx context.Context, cfg config.LLMConfig) (*EinoCompleter, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: ptrFloat32(float32(cfg.Temperature)),
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return NewEinoCompleterWithModel(chatModel, cfg.Model), nil
}

// NewEinoCompleterWithModel 使用已有的 ChatModel 创建客户端
func NewEinoCompleterWithModel(chatModel model.BaseChatModel, modelName string) *EinoCompleter {
	return &EinoCompleter{chatModel: chatModel, modelName: modelName}
}

// Name 驱动名称
func (c *EinoCompleter) Name() string {
	return config.DriverEino
}

// Complete 发送一次补全请求
func (c *EinoCompleter) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	if c == nil || c.chatModel == nil {
		return "", apperrors.Upstream(errors.New("chat model not configured"))
	}

	msgs := []*schema.Message{
		schema.SystemMessage(prompt.System()),
		schema.UserMessage(prompt.User()),
	}

	logger.Debug(ctx, "sending completion",
		"driver", c.Name(),
		"model", c.modelName,
		"kind", string(prompt.Kind()),
		"max_tokens", prompt.MaxTokens(),
	)

	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      einoRunName,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	out, err := c.generate(ctx, msgs, prompt.MaxTokens())
	if err != nil {
		return "", apperrors.Upstream(err)
	}
	if out == nil {
		return "", apperrors.Upstream(errors.New("provider returned no message"))
	}
	return strings.TrimSpace(out.Content), nil
}

// generate 调用模型；模型未自带回调时手动触发 OnStart/OnEnd
func (c *EinoCompleter) generate(ctx context.Context, msgs []*schema.Message, maxTokens int) (*schema.Message, error) {
	opts := []model.Option{model.WithMaxTokens(maxTokens)}
	if components.IsCallbacksEnabled(c.chatModel) {
		return c.chatModel.Generate(ctx, msgs, opts...)
	}

	ctx = einocb.OnStart(ctx, &model.CallbackInput{
		Messages: msgs,
		Config:   &model.Config{Model: c.modelName, MaxTokens: maxTokens},
	})
	out, err := c.chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		einocb.OnError(ctx, err)
		return nil, err
	}
	cbOut := &model.CallbackOutput{Message: out, Config: &model.Config{Model: c.modelName}}
	if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		cbOut.TokenUsage = &model.TokenUsage{
			PromptTokens:     out.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: out.ResponseMeta.Usage.CompletionTokens,
			TotalTokens:      out.ResponseMeta.Usage.TotalTokens,
		}
	}
	einocb.OnEnd(ctx, cbOut)
	return out, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
