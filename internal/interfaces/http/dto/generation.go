package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"essay-ai-api/internal/domain/entity"
)

var jsonNull = []byte("null")

// FlexInt 接受 JSON 数字或数字字符串，空串与 null 视为未设置
type FlexInt struct {
	Value int
	Set   bool
}

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*f = FlexInt{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = FlexInt{}
			return nil
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return fmt.Errorf("invalid integer %q", raw)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return fmt.Errorf("integer %q out of range", raw)
	}
	*f = FlexInt{Value: int(n), Set: true}
	return nil
}

// FlexBool 接受 JSON 布尔值或 "true"/"false"/"on"/"1"/"0" 字符串
type FlexBool struct {
	Value bool
	Set   bool
}

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*f = FlexBool{}
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool{Value: b, Set: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		*f = FlexBool{}
	case "true", "on", "yes", "1":
		*f = FlexBool{Value: true, Set: true}
	case "false", "off", "no", "0":
		*f = FlexBool{Value: false, Set: true}
	default:
		return fmt.Errorf("invalid boolean %q", s)
	}
	return nil
}

// Ptr 未设置时返回 nil
func (f FlexBool) Ptr() *bool {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// GenerationRequest 五个生成接口共用的请求体，按类型取用字段
type GenerationRequest struct {
	Topic     string `json:"topic"`
	Type      string `json:"type"`
	EssayType string `json:"essayType"`
	Subject   string `json:"subject"`

	Keywords   string `json:"keywords"`
	Thesis     string `json:"thesis"`
	Style      string `json:"style"`
	Length     string `json:"length"`
	MainPoints string `json:"mainPoints"`

	WordCount         FlexInt  `json:"wordCount"`
	KeyPoints         string   `json:"keyPoints"`
	Requirements      string   `json:"requirements"`
	IncludeReferences FlexBool `json:"includeReferences"`
	FormalStyle       FlexBool `json:"formalStyle"`
}

// ToEntity 转换为领域请求，type 优先于 essayType
func (r *GenerationRequest) ToEntity() *entity.GenerationRequest {
	typ := strings.TrimSpace(r.Type)
	if typ == "" {
		typ = strings.TrimSpace(r.EssayType)
	}

	req := &entity.GenerationRequest{
		Topic:             r.Topic,
		Type:              typ,
		Subject:           strings.TrimSpace(r.Subject),
		Keywords:          r.Keywords,
		Thesis:            r.Thesis,
		Style:             r.Style,
		Length:            r.Length,
		MainPoints:        r.MainPoints,
		KeyPoints:         r.KeyPoints,
		Requirements:      r.Requirements,
		IncludeReferences: r.IncludeReferences.Ptr(),
		FormalStyle:       r.FormalStyle.Ptr(),
	}
	if r.WordCount.Set {
		req.WordCount = r.WordCount.Value
	}
	return req
}
