// Package prompt 管理内嵌的提示词模板
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// TemplateID 模板标识，与生成类型同名
type TemplateID string

const (
	TemplateTitles       TemplateID = "titles"
	TemplateThesis       TemplateID = "thesis"
	TemplateIntroduction TemplateID = "introduction"
	TemplateConclusion   TemplateID = "conclusion"
	TemplateEssay        TemplateID = "essay"
)

// SystemVar 系统消息占位变量
const SystemVar = "system"

// Registry 惰性加载并缓存 ChatTemplate
type Registry struct {
	mu    sync.RWMutex
	cache map[TemplateID]einoprompt.ChatTemplate
}

// NewRegistry 创建模板注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[TemplateID]einoprompt.ChatTemplate),
	}
}

// ChatTemplate 返回 system + user 两条消息组成的模板
func (r *Registry) ChatTemplate(id TemplateID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	user, err := readEmbeddedText(fmt.Sprintf("templates/%s.user.txt", id))
	if err != nil {
		return nil, fmt.Errorf("unknown prompt template %q: %w", id, err)
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{"+SystemVar+"}"),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
