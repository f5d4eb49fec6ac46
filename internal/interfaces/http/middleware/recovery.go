package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"essay-ai-api/internal/interfaces/http/dto"
	apperrors "essay-ai-api/pkg/errors"
	"essay-ai-api/pkg/logger"
)

// Recovery Panic 恢复中间件，返回统一的失败响应
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				dto.AbortAppError(c, apperrors.ErrInternalError.WithDetail("unexpected panic while handling request"))
			}
		}()

		c.Next()
	}
}
