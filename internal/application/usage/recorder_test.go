package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essay-ai-api/internal/domain/service"
	"essay-ai-api/pkg/metrics"
)

type capturePublisher struct {
	events []service.CompletionUsage
	err    error
}

func (p *capturePublisher) PublishUsage(_ context.Context, in service.CompletionUsage) (string, error) {
	p.events = append(p.events, in)
	return "1-0", p.err
}

func TestRecordAddsTokens(t *testing.T) {
	r := NewRecorder(nil)
	prompt := metrics.LLMTokensUsed.WithLabelValues("essay", "eino", "usage-test-model", "prompt")
	completion := metrics.LLMTokensUsed.WithLabelValues("essay", "eino", "usage-test-model", "completion")
	beforePrompt := testutil.ToFloat64(prompt)
	beforeCompletion := testutil.ToFloat64(completion)

	err := r.Record(context.Background(), service.CompletionUsage{
		Kind: "essay", Driver: "eino", Model: "usage-test-model",
		PromptTokens: 12, CompletionTokens: 340,
	})
	assert.NoError(t, err)
	assert.Equal(t, beforePrompt+12, testutil.ToFloat64(prompt))
	assert.Equal(t, beforeCompletion+340, testutil.ToFloat64(completion))
}

func TestRecordRejectsNegative(t *testing.T) {
	pub := &capturePublisher{}
	err := NewRecorder(pub).Record(context.Background(), service.CompletionUsage{PromptTokens: -1})
	assert.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestRecordPublishes(t *testing.T) {
	pub := &capturePublisher{}
	in := service.CompletionUsage{Kind: "titles", Driver: "openai", Model: "m", PromptTokens: 3, CompletionTokens: 4}

	require.NoError(t, NewRecorder(pub).Record(context.Background(), in))
	require.Len(t, pub.events, 1)
	assert.Equal(t, in, pub.events[0])
}

func TestRecordPublishFailureIsNotAnError(t *testing.T) {
	before := testutil.ToFloat64(metrics.UsagePublishErrors)
	pub := &capturePublisher{err: errors.New("stream unavailable")}

	assert.NoError(t, NewRecorder(pub).Record(context.Background(), service.CompletionUsage{Kind: "thesis"}))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.UsagePublishErrors))
}
