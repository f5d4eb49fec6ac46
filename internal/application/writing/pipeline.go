package writing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"essay-ai-api/internal/domain/entity"
	"essay-ai-api/internal/domain/service"
	apperrors "essay-ai-api/pkg/errors"
	"essay-ai-api/pkg/logger"
	"essay-ai-api/pkg/metrics"
	"essay-ai-api/pkg/tracer"
)

// DefaultCallTimeout 单次补全调用的默认超时
const DefaultCallTimeout = 60 * time.Second

// 生成结果状态，用于指标标签
const (
	statusSuccess     = "success"
	statusInvalid     = "invalid"
	statusUpstream    = "upstream_error"
	statusEmptyResult = "empty_result"
	statusInternal    = "internal_error"
)

// Pipeline 校验 → 构造提示词 → 补全 → 解析，五种类型共用
type Pipeline struct {
	builder   *PromptBuilder
	completer service.Completer
	timeout   time.Duration
}

// NewPipeline 创建生成流水线
func NewPipeline(builder *PromptBuilder, completer service.Completer, timeout time.Duration) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Pipeline{
		builder:   builder,
		completer: completer,
		timeout:   timeout,
	}
}

// Run 执行一次生成
// 补全调用脱离调用方的取消信号，仅在完成或超时后结束
func (p *Pipeline) Run(ctx context.Context, kind entity.Kind, req *entity.GenerationRequest) (*entity.GenerationResult, error) {
	start := time.Now()
	ctx = logger.WithContext(ctx, logger.KindKey, string(kind))
	ctx, span := tracer.Start(ctx, "writing.generate")
	span.SetAttributes(
		attribute.String("generation.kind", string(kind)),
		attribute.String("llm.driver", p.completer.Name()),
	)
	defer span.End()

	result, err := p.run(ctx, kind, req)

	status := statusOf(err)
	metrics.GenerationTotal.WithLabelValues(string(kind), status).Inc()
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		if status == statusInvalid {
			logger.Debug(ctx, "generation request rejected", "error", err.Error())
		} else {
			logger.Error(ctx, "generation failed", err, "status", status)
		}
		return nil, err
	}

	if kind.IsList() {
		metrics.GenerationItems.WithLabelValues(string(kind)).Observe(float64(result.Count()))
		span.SetAttributes(attribute.Int("generation.items", result.Count()))
	}
	if kind == entity.KindEssay {
		metrics.EssayWordCount.Observe(float64(result.WordCount))
		span.SetAttributes(attribute.Int("generation.word_count", result.WordCount))
	}
	logger.Info(ctx, "generation completed",
		"items", result.Count(),
		"word_count", result.WordCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, kind entity.Kind, req *entity.GenerationRequest) (*entity.GenerationResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.Subject != "" {
		logger.Debug(ctx, "generation subject", "subject", req.Subject)
	}

	prompt, err := p.builder.Build(ctx, kind, req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to build prompt")
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	callCtx = service.WithKindDriver(callCtx, string(kind), p.completer.Name())

	raw, err := p.completer.Complete(callCtx, prompt)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Upstream(err)
	}

	return Parse(kind, raw)
}

func statusOf(err error) string {
	if err == nil {
		return statusSuccess
	}
	switch apperrors.AsAppError(err).Code {
	case apperrors.CodeInvalidParam:
		return statusInvalid
	case apperrors.CodeUpstream:
		return statusUpstream
	case apperrors.CodeEmptyResult:
		return statusEmptyResult
	default:
		return statusInternal
	}
}
