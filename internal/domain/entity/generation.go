// Package entity 定义领域实体
package entity

// Kind 生成类型
type Kind string

const (
	KindTitles       Kind = "titles"
	KindThesis       Kind = "thesis"
	KindIntroduction Kind = "introduction"
	KindConclusion   Kind = "conclusion"
	KindEssay        Kind = "essay"
)

// Kinds 全部生成类型，顺序与路由表一致
var Kinds = []Kind{KindTitles, KindThesis, KindIntroduction, KindConclusion, KindEssay}

// MaxTokens 每种类型的补全 token 上限
func (k Kind) MaxTokens() int {
	switch k {
	case KindTitles:
		return 200
	case KindThesis:
		return 300
	case KindIntroduction, KindConclusion:
		return 400
	case KindEssay:
		return 1500
	default:
		return 0
	}
}

// IsList 结果是否为逐行列表
func (k Kind) IsList() bool {
	return k == KindTitles || k == KindThesis
}

// ResultKey 响应体中结果字段名
func (k Kind) ResultKey() string {
	switch k {
	case KindTitles:
		return "titles"
	case KindThesis:
		return "theses"
	default:
		return string(k)
	}
}

// Valid 是否为已知类型
func (k Kind) Valid() bool {
	return k.MaxTokens() > 0
}

// GenerationRequest 生成请求，字段随类型不同而取用
type GenerationRequest struct {
	Topic   string `json:"topic"`
	Type    string `json:"type,omitempty"`
	Subject string `json:"subject,omitempty"`

	Keywords   string `json:"keywords,omitempty"`
	Thesis     string `json:"thesis,omitempty"`
	Style      string `json:"style,omitempty"`
	Length     string `json:"length,omitempty"`
	MainPoints string `json:"mainPoints,omitempty"`

	WordCount         int    `json:"wordCount,omitempty"`
	KeyPoints         string `json:"keyPoints,omitempty"`
	Requirements      string `json:"requirements,omitempty"`
	IncludeReferences *bool  `json:"includeReferences,omitempty"`
	FormalStyle       *bool  `json:"formalStyle,omitempty"`
}

// Prompt 构造完成后不可变的提示词
type Prompt struct {
	kind      Kind
	system    string
	user      string
	maxTokens int
}

// NewPrompt 创建提示词
func NewPrompt(kind Kind, system, user string) Prompt {
	return Prompt{kind: kind, system: system, user: user, maxTokens: kind.MaxTokens()}
}

// Kind 生成类型
func (p Prompt) Kind() Kind { return p.kind }

// System 系统指令
func (p Prompt) System() string { return p.system }

// User 用户消息
func (p Prompt) User() string { return p.user }

// MaxTokens 补全 token 上限
func (p Prompt) MaxTokens() int { return p.maxTokens }

// String 返回用户消息
func (p Prompt) String() string { return p.user }

// GenerationResult 解析后的生成结果：列表或单段文本
type GenerationResult struct {
	Kind      Kind
	Items     []string
	Text      string
	WordCount int
}

// Count 列表条目数
func (r *GenerationResult) Count() int {
	return len(r.Items)
}
