// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"
	"time"

	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/pkg/logger"
	"veo-story-studio/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionReader 读取本地会话
type SessionReader interface {
	Token(ctx context.Context) string
	User(ctx context.Context) (*entity.User, error)
}

// RequireSession 要求存在未过期的本地会话
// 会话由 /v1/auth/login 写入本地缓存，签名由远端服务校验，这里只检查是否过期
func RequireSession(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := sessions.Token(ctx)
		if token == "" {
			abortUnauthorized(c, "login required")
			return
		}
		if err := utils.CheckTokenExpiry(token, time.Now()); err != nil {
			abortUnauthorized(c, "token expired")
			return
		}

		user, err := sessions.User(ctx)
		if err != nil || user == nil {
			abortUnauthorized(c, "login required")
			return
		}

		c.Set("user_id", user.ID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.UserIDKey, user.ID))
		c.Next()
	}
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     http.StatusUnauthorized,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
