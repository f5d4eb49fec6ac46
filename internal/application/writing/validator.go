// Package writing 实现文本生成流水线：校验 → 构造提示词 → 补全 → 解析
package writing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"essay-ai-api/internal/domain/entity"
	apperrors "essay-ai-api/pkg/errors"
)

// MaxTopicLength topic 去除首尾空白后的最大字符数
const MaxTopicLength = 500

// 校验错误消息
const (
	MsgTopicRequired = "Topic is required"
	MsgTopicTooLong  = "Topic must be at most 500 characters"
)

// Validate 校验请求，不修改请求内容
func Validate(req *entity.GenerationRequest) error {
	if req == nil {
		return apperrors.Validation(MsgTopicRequired)
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return apperrors.Validation(MsgTopicRequired)
	}
	if n := utf8.RuneCountInString(topic); n > MaxTopicLength {
		return apperrors.Validation(MsgTopicTooLong).
			WithDetail(fmt.Sprintf("topic has %d characters", n))
	}
	return nil
}
