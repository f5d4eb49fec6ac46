package writing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essay-ai-api/internal/domain/entity"
)

const testSystem = "You are a professional academic writer."

func boolPtr(b bool) *bool { return &b }

func buildUser(t *testing.T, kind entity.Kind, req *entity.GenerationRequest) string {
	t.Helper()
	p, err := NewPromptBuilder(testSystem).Build(context.Background(), kind, req)
	require.NoError(t, err)
	assert.Equal(t, testSystem, p.System())
	assert.Equal(t, kind, p.Kind())
	assert.Equal(t, kind.MaxTokens(), p.MaxTokens())
	return p.User()
}

func TestBuildTitles(t *testing.T) {
	assert.Equal(t,
		`Generate 5 creative and engaging academic essay titles about "Climate change". Make them unique and specific.`,
		buildUser(t, entity.KindTitles, &entity.GenerationRequest{Topic: "Climate change"}))

	assert.Equal(t,
		`Generate 5 creative and engaging persuasive essay titles about "AI ethics". Make them unique and specific.`,
		buildUser(t, entity.KindTitles, &entity.GenerationRequest{Topic: "  AI ethics ", Type: "persuasive"}))
}

func TestBuildThesis(t *testing.T) {
	assert.Equal(t,
		`Generate 3 strong argumentative thesis statements about "Remote work".`,
		buildUser(t, entity.KindThesis, &entity.GenerationRequest{Topic: "Remote work", Keywords: "   "}))

	assert.Equal(t,
		`Generate 3 strong analytical thesis statements about "Remote work" incorporating these keywords: productivity, isolation.`,
		buildUser(t, entity.KindThesis, &entity.GenerationRequest{
			Topic: "Remote work", Type: "analytical", Keywords: "productivity, isolation",
		}))
}

func TestBuildIntroduction(t *testing.T) {
	assert.Equal(t,
		`Write a medium academic introduction for an essay about "Sleep". Make it engaging and hook the reader from the first sentence.`,
		buildUser(t, entity.KindIntroduction, &entity.GenerationRequest{Topic: "Sleep"}))

	assert.Equal(t,
		`Write a short casual introduction for an essay about "Sleep" with this thesis statement: "Sleep matters". Make it engaging and hook the reader from the first sentence.`,
		buildUser(t, entity.KindIntroduction, &entity.GenerationRequest{
			Topic: "Sleep", Thesis: "Sleep matters", Style: "casual", Length: "short",
		}))
}

func TestBuildConclusion(t *testing.T) {
	assert.Equal(t,
		`Write a academic conclusion for an essay about "Sleep". Make it impactful and memorable.`,
		buildUser(t, entity.KindConclusion, &entity.GenerationRequest{Topic: "Sleep"}))

	assert.Equal(t,
		`Write a academic conclusion for an essay about "Sleep" summarizing these main points: rest, memory. Make it impactful and memorable.`,
		buildUser(t, entity.KindConclusion, &entity.GenerationRequest{Topic: "Sleep", MainPoints: "rest, memory"}))

	assert.Equal(t,
		`Write a formal conclusion for an essay about "Sleep" with this thesis: "Sleep matters" summarizing these main points: rest. Make it impactful and memorable.`,
		buildUser(t, entity.KindConclusion, &entity.GenerationRequest{
			Topic: "Sleep", Thesis: "Sleep matters", MainPoints: "rest", Style: "formal",
		}))
}

func TestBuildEssay(t *testing.T) {
	assert.Equal(t,
		`Write a 1000-word formal academic argumentative essay about "Cities". Ensure proper structure with introduction, body paragraphs, and conclusion.`,
		buildUser(t, entity.KindEssay, &entity.GenerationRequest{Topic: "Cities"}))

	assert.Equal(t,
		`Write a 500-word standard expository essay about "Cities" covering these key points: transit, housing. Additional requirements: cite data. Include references in APA format. Ensure proper structure with introduction, body paragraphs, and conclusion.`,
		buildUser(t, entity.KindEssay, &entity.GenerationRequest{
			Topic:             "Cities",
			Type:              "expository",
			WordCount:         500,
			KeyPoints:         "transit, housing",
			Requirements:      "cite data",
			IncludeReferences: boolPtr(true),
			FormalStyle:       boolPtr(false),
		}))

	assert.Equal(t,
		`Write a 1000-word formal academic argumentative essay about "Cities". Ensure proper structure with introduction, body paragraphs, and conclusion.`,
		buildUser(t, entity.KindEssay, &entity.GenerationRequest{
			Topic: "Cities", WordCount: -5, IncludeReferences: boolPtr(false), FormalStyle: boolPtr(true),
		}))
}

func TestBuildIsDeterministicAndHasNoArtifacts(t *testing.T) {
	b := NewPromptBuilder(testSystem)
	req := &entity.GenerationRequest{Topic: "Oceans"}

	for _, kind := range entity.Kinds {
		first, err := b.Build(context.Background(), kind, req)
		require.NoError(t, err)
		second, err := b.Build(context.Background(), kind, req)
		require.NoError(t, err)

		assert.Equal(t, first.User(), second.User(), kind)
		assert.NotContains(t, first.User(), "undefined", kind)
		assert.NotContains(t, first.User(), `""`, kind)
		assert.NotContains(t, first.User(), "{", kind)
		assert.NotContains(t, first.User(), "..", kind)
	}
}

func TestBuildKeepsBracesInUserInput(t *testing.T) {
	got := buildUser(t, entity.KindTitles, &entity.GenerationRequest{Topic: "Sets like {a, b}"})
	assert.Contains(t, got, `"Sets like {a, b}"`)
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := NewPromptBuilder(testSystem).Build(context.Background(), entity.Kind("poem"), &entity.GenerationRequest{Topic: "x"})
	assert.Error(t, err)
}
