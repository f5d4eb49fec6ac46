package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"essay-ai-api/internal/domain/entity"
	"essay-ai-api/internal/interfaces/http/dto"
	apperrors "essay-ai-api/pkg/errors"
)

// Generator 生成流水线
type Generator interface {
	Run(ctx context.Context, kind entity.Kind, req *entity.GenerationRequest) (*entity.GenerationResult, error)
}

// GenerationRoute 一条生成路由
type GenerationRoute struct {
	Kind           entity.Kind
	Path           string
	FailureMessage string
}

// GenerationRoutes 固定的五条生成路由，相对 /api
var GenerationRoutes = []GenerationRoute{
	{Kind: entity.KindTitles, Path: "/generate-titles", FailureMessage: "Failed to generate titles"},
	{Kind: entity.KindThesis, Path: "/generate-thesis", FailureMessage: "Failed to generate thesis statements"},
	{Kind: entity.KindIntroduction, Path: "/generate-introduction", FailureMessage: "Failed to generate introduction"},
	{Kind: entity.KindConclusion, Path: "/generate-conclusion", FailureMessage: "Failed to generate conclusion"},
	{Kind: entity.KindEssay, Path: "/generate-essay", FailureMessage: "Failed to generate essay"},
}

// GenerationHandler 生成接口处理器
type GenerationHandler struct {
	generator Generator
}

// NewGenerationHandler 创建生成接口处理器
func NewGenerationHandler(generator Generator) *GenerationHandler {
	return &GenerationHandler{generator: generator}
}

// Handle 返回指定路由的处理函数
func (h *GenerationHandler) Handle(route GenerationRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerationRequest
		// 空请求体按空对象处理，交由校验给出 topic 缺失
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			renderError(c, apperrors.ErrInvalidBody.WithDetail(err.Error()), route.FailureMessage)
			return
		}

		result, err := h.generator.Run(c.Request.Context(), route.Kind, req.ToEntity())
		if err != nil {
			renderError(c, err, route.FailureMessage)
			return
		}

		c.JSON(http.StatusOK, dto.GenerationResponse(result))
	}
}
