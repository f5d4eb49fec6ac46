package llm

import (
	"context"
	"fmt"

	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/service"
)

// NewCompleter 按配置的驱动创建补全客户端
func NewCompleter(ctx context.Context, cfg config.LLMConfig, usageRecorder service.UsageRecorder) (service.Completer, error) {
	switch cfg.Driver {
	case config.DriverEino, "":
		c, err := NewEinoCompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.DriverOpenAI:
		return NewOpenAICompleter(cfg, usageRecorder), nil
	default:
		return nil, fmt.Errorf("unsupported llm driver %q", cfg.Driver)
	}
}
