// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"veo-story-studio/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery Panic 恢复中间件
// 故事图状态只在 Store 的锁内修改，处理器 panic 不会留下半完成的变更
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", rec),
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":       http.StatusInternalServerError,
				"message":    "internal server error",
				"request_id": c.GetString("request_id"),
				"trace_id":   c.GetString("trace_id"),
			})
		}()

		c.Next()
	}
}
