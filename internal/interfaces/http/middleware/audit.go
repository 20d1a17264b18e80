// Package middleware 提供 HTTP 中间件
package middleware

import (
	"time"

	"veo-story-studio/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuditConfig 请求日志配置
type AuditConfig struct {
	// SkipPaths 不记录的路径（探针与指标）
	SkipPaths []string
}

// DefaultAuditSkipPaths 默认跳过的路径
var DefaultAuditSkipPaths = []string{
	"/health",
	"/health/live",
	"/health/ready",
	"/metrics",
}

// Audit 请求日志中间件
// 4xx 记为 warn，5xx 记为 error，其余 info
func Audit(cfg AuditConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"user_id", c.GetString("user_id"),
			"body_size", c.Writer.Size(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last
			}
			logger.Error(ctx, "api request", err, fields...)
		case status >= 400:
			logger.Warn(ctx, "api request", fields...)
		default:
			logger.Info(ctx, "api request", fields...)
		}
	}
}
