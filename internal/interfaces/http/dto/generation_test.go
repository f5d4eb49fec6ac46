package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essay-ai-api/internal/domain/entity"
)

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in      string
		want    FlexInt
		wantErr bool
	}{
		{`1000`, FlexInt{Value: 1000, Set: true}, false},
		{`"750"`, FlexInt{Value: 750, Set: true}, false},
		{`" 500 "`, FlexInt{Value: 500, Set: true}, false},
		{`1500.0`, FlexInt{Value: 1500, Set: true}, false},
		{`""`, FlexInt{}, false},
		{`null`, FlexInt{}, false},
		{`"1e3"`, FlexInt{Value: 1000, Set: true}, false},
		{`"many"`, FlexInt{}, true},
		{`"NaN"`, FlexInt{}, true},
		{`"Inf"`, FlexInt{}, true},
		{`"-Infinity"`, FlexInt{}, true},
		{`1e300`, FlexInt{}, true},
		{`"1e19"`, FlexInt{}, true},
		{`1500.9`, FlexInt{}, true},
		{`"0.5"`, FlexInt{}, true},
		{`true`, FlexInt{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got FlexInt
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in      string
		want    FlexBool
		wantErr bool
	}{
		{`true`, FlexBool{Value: true, Set: true}, false},
		{`false`, FlexBool{Value: false, Set: true}, false},
		{`"on"`, FlexBool{Value: true, Set: true}, false},
		{`"false"`, FlexBool{Value: false, Set: true}, false},
		{`""`, FlexBool{}, false},
		{`null`, FlexBool{}, false},
		{`"maybe"`, FlexBool{}, true},
		{`3`, FlexBool{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got FlexBool
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToEntity(t *testing.T) {
	var req GenerationRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"topic": " AI ",
		"essayType": "persuasive",
		"subject": "Computer Science",
		"wordCount": "1500",
		"includeReferences": true
	}`), &req))

	got := req.ToEntity()
	assert.Equal(t, " AI ", got.Topic, "topic is passed through unmodified")
	assert.Equal(t, "persuasive", got.Type)
	assert.Equal(t, "Computer Science", got.Subject)
	assert.Equal(t, 1500, got.WordCount)
	require.NotNil(t, got.IncludeReferences)
	assert.True(t, *got.IncludeReferences)
	assert.Nil(t, got.FormalStyle)

	req.Type = "analytical"
	assert.Equal(t, "analytical", req.ToEntity().Type, "type wins over essayType")
}

func TestGenerationResponse(t *testing.T) {
	titles := GenerationResponse(&entity.GenerationResult{Kind: entity.KindTitles, Items: []string{"A", "B"}})
	assert.Equal(t, true, titles["success"])
	assert.Equal(t, []string{"A", "B"}, titles["titles"])
	assert.Equal(t, 2, titles["count"])

	theses := GenerationResponse(&entity.GenerationResult{Kind: entity.KindThesis, Items: []string{"T"}})
	assert.Equal(t, []string{"T"}, theses["theses"])

	intro := GenerationResponse(&entity.GenerationResult{Kind: entity.KindIntroduction, Text: "Intro."})
	assert.Equal(t, "Intro.", intro["introduction"])
	assert.NotContains(t, intro, "count")
	assert.NotContains(t, intro, "wordCount")

	essay := GenerationResponse(&entity.GenerationResult{Kind: entity.KindEssay, Text: "a b c", WordCount: 3})
	assert.Equal(t, "a b c", essay["essay"])
	assert.Equal(t, 3, essay["wordCount"])
}
