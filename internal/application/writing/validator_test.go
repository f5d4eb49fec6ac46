package writing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"essay-ai-api/internal/domain/entity"
	apperrors "essay-ai-api/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     *entity.GenerationRequest
		wantMsg string
	}{
		{"nil request", nil, MsgTopicRequired},
		{"absent topic", &entity.GenerationRequest{Type: "persuasive"}, MsgTopicRequired},
		{"empty topic", &entity.GenerationRequest{Topic: ""}, MsgTopicRequired},
		{"whitespace topic", &entity.GenerationRequest{Topic: " \t\n "}, MsgTopicRequired},
		{"too long", &entity.GenerationRequest{Topic: strings.Repeat("a", 501)}, MsgTopicTooLong},
		{"max length", &entity.GenerationRequest{Topic: strings.Repeat("a", 500)}, ""},
		{"padded max length", &entity.GenerationRequest{Topic: "  " + strings.Repeat("a", 500) + "  "}, ""},
		{"multibyte max length", &entity.GenerationRequest{Topic: strings.Repeat("文", 500)}, ""},
		{"ok", &entity.GenerationRequest{Topic: "Climate change"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
			assert.Equal(t, 400, appErr.HTTPStatus)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestValidateDoesNotModifyRequest(t *testing.T) {
	req := &entity.GenerationRequest{Topic: "  padded  "}
	assert.NoError(t, Validate(req))
	assert.Equal(t, "  padded  ", req.Topic)
}
