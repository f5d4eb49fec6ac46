package writing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"essay-ai-api/internal/domain/entity"
	workflowprompt "essay-ai-api/internal/workflow/prompt"
)

// 默认值
const (
	DefaultTitleType  = "academic"
	DefaultThesisType = "argumentative"
	DefaultEssayType  = "argumentative"
	DefaultStyle      = "academic"
	DefaultLength     = "medium"
	DefaultWordCount  = 1000
)

// PromptBuilder 将请求渲染为提示词，不访问网络
type PromptBuilder struct {
	system   string
	registry *workflowprompt.Registry
}

// NewPromptBuilder 创建提示词构造器，system 为固定系统指令
func NewPromptBuilder(system string) *PromptBuilder {
	return &PromptBuilder{
		system:   system,
		registry: workflowprompt.NewRegistry(),
	}
}

// Build 按类型渲染提示词
// 可选字段缺失或为空白时整段省略。模板内嵌于二进制，错误只会来自未知类型。
func (b *PromptBuilder) Build(ctx context.Context, kind entity.Kind, req *entity.GenerationRequest) (entity.Prompt, error) {
	if !kind.Valid() {
		return entity.Prompt{}, fmt.Errorf("unknown generation kind %q", kind)
	}
	if req == nil {
		req = &entity.GenerationRequest{}
	}

	tpl, err := b.registry.ChatTemplate(workflowprompt.TemplateID(kind))
	if err != nil {
		return entity.Prompt{}, err
	}

	vars := templateVars(kind, req)
	vars[workflowprompt.SystemVar] = b.system

	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return entity.Prompt{}, fmt.Errorf("failed to render %s prompt: %w", kind, err)
	}
	if len(msgs) != 2 {
		return entity.Prompt{}, fmt.Errorf("%s prompt rendered %d messages, want 2", kind, len(msgs))
	}
	return entity.NewPrompt(kind, msgs[0].Content, msgs[1].Content), nil
}

// templateVars 计算模板变量，可选子句预先渲染为完整片段或空串
func templateVars(kind entity.Kind, req *entity.GenerationRequest) map[string]any {
	vars := map[string]any{
		"topic": clean(req.Topic),
	}

	switch kind {
	case entity.KindTitles:
		vars["type"] = orDefault(req.Type, DefaultTitleType)

	case entity.KindThesis:
		vars["type"] = orDefault(req.Type, DefaultThesisType)
		vars["keywords_clause"] = clause(" incorporating these keywords: %s", req.Keywords)

	case entity.KindIntroduction:
		vars["length"] = orDefault(req.Length, DefaultLength)
		vars["style"] = orDefault(req.Style, DefaultStyle)
		vars["thesis_clause"] = clause(` with this thesis statement: "%s"`, req.Thesis)

	case entity.KindConclusion:
		vars["style"] = orDefault(req.Style, DefaultStyle)
		vars["thesis_clause"] = clause(` with this thesis: "%s"`, req.Thesis)
		vars["main_points_clause"] = clause(" summarizing these main points: %s", req.MainPoints)

	case entity.KindEssay:
		wordCount := req.WordCount
		if wordCount <= 0 {
			wordCount = DefaultWordCount
		}
		register := "formal academic"
		if req.FormalStyle != nil && !*req.FormalStyle {
			register = "standard"
		}
		references := ""
		if req.IncludeReferences != nil && *req.IncludeReferences {
			references = ". Include references in APA format"
		}
		vars["word_count"] = strconv.Itoa(wordCount)
		vars["register"] = register
		vars["type"] = orDefault(req.Type, DefaultEssayType)
		vars["key_points_clause"] = clause(" covering these key points: %s", req.KeyPoints)
		vars["requirements_clause"] = clause(". Additional requirements: %s", req.Requirements)
		vars["references_clause"] = references
	}
	return vars
}

// clause 值非空时按格式渲染，否则返回空串
func clause(format, value string) string {
	v := clean(value)
	if v == "" {
		return ""
	}
	return fmt.Sprintf(format, v)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if v := clean(s); v != "" {
		return v
	}
	return def
}
