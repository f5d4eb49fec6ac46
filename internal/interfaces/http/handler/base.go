// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"essay-ai-api/internal/interfaces/http/dto"
	apperrors "essay-ai-api/pkg/errors"
)

// renderError 将错误映射为失败响应
// 4xx 返回错误自身的消息；5xx 返回接口级的 failureMessage，原因都放在 details
func renderError(c *gin.Context, err error, failureMessage string) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status < http.StatusInternalServerError {
		dto.Fail(c, status, appErr.Message, appErr.Details())
		return
	}
	dto.Fail(c, status, failureMessage, appErr.Details())
}
