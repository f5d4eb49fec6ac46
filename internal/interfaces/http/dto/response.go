// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"

	"essay-ai-api/internal/domain/entity"
	apperrors "essay-ai-api/pkg/errors"
)

// ErrorResponse 失败响应结构
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Fail 返回失败响应
func Fail(c *gin.Context, httpCode int, message, details string) {
	c.JSON(httpCode, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// AbortFail 中止后续处理并返回失败响应
func AbortFail(c *gin.Context, httpCode int, message, details string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// AbortAppError 中止后续处理并以 AppError 返回失败响应
func AbortAppError(c *gin.Context, appErr *apperrors.AppError) {
	AbortFail(c, appErr.HTTPStatus, appErr.Message, appErr.Details())
}

// GenerationResponse 将生成结果转换为响应体
// 列表类型附带 count，文章附带 wordCount
func GenerationResponse(result *entity.GenerationResult) gin.H {
	body := gin.H{"success": true}
	if result == nil {
		return body
	}

	key := result.Kind.ResultKey()
	if result.Kind.IsList() {
		body[key] = result.Items
		body["count"] = result.Count()
		return body
	}

	body[key] = result.Text
	if result.Kind == entity.KindEssay {
		body["wordCount"] = result.WordCount
	}
	return body
}
