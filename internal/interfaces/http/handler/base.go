// Package handler 提供 HTTP 请求处理器
package handler

import (
	"maps"
	"strconv"

	"github.com/gin-gonic/gin"

	"veo-story-studio/internal/application/story"
)

// mergeValidation 合并多个校验结果的字段错误，全部通过时返回 nil
func mergeValidation(results ...story.ValidationResult) map[string]string {
	var fields map[string]string
	for _, r := range results {
		if r.IsValid {
			continue
		}
		if fields == nil {
			fields = make(map[string]string, len(r.Errors))
		}
		maps.Copy(fields, r.Errors)
	}
	return fields
}

// queryUint 解析非负整数查询参数，缺省或非法时返回 def
func queryUint(c *gin.Context, key string, def uint64) uint64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}
