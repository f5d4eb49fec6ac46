package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyKind   llmCtxKey = "llm_kind"
	llmCtxKeyDriver llmCtxKey = "llm_driver"
)

func WithKind(ctx context.Context, kind string) context.Context {
	if ctx == nil {
		return nil
	}
	k := strings.TrimSpace(kind)
	if k == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyKind, k)
}

func WithDriver(ctx context.Context, driver string) context.Context {
	if ctx == nil {
		return nil
	}
	d := strings.TrimSpace(driver)
	if d == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyDriver, d)
}

func WithKindDriver(ctx context.Context, kind, driver string) context.Context {
	return WithDriver(WithKind(ctx, kind), driver)
}

// KindFromContext 未设置时返回 "unknown"
func KindFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyKind)
}

// DriverFromContext 未设置时返回 "unknown"
func DriverFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyDriver)
}

func stringFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
