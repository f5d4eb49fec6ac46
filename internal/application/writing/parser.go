package writing

import (
	"regexp"
	"strings"

	"essay-ai-api/internal/domain/entity"
	apperrors "essay-ai-api/pkg/errors"
)

var numberPrefix = regexp.MustCompile(`^\d+\.\s+`)

// Parse 将模型原始输出转换为对应类型的结果
// 列表类型逐行拆分，去掉空行与 "1. " 编号；段落类型保留整段文本
func Parse(kind entity.Kind, raw string) (*entity.GenerationResult, error) {
	if kind.IsList() {
		items := splitList(raw)
		if len(items) == 0 {
			return nil, apperrors.EmptyResult(string(kind) + ": no non-blank lines in completion")
		}
		return &entity.GenerationResult{Kind: kind, Items: items}, nil
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, apperrors.EmptyResult(string(kind) + ": completion text is blank")
	}

	result := &entity.GenerationResult{Kind: kind, Text: text}
	if kind == entity.KindEssay {
		result.WordCount = WordCount(text)
	}
	return result, nil
}

func splitList(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(numberPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// WordCount 以空白分隔的词数
func WordCount(text string) int {
	return len(strings.Fields(text))
}
