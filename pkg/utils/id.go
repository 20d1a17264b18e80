// Package utils 提供通用工具函数
package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 实体 ID 前缀
const (
	PrefixCharacter = "char"
	PrefixLocation  = "loc"
	PrefixScene     = "scene"
	PrefixShot      = "shot"
	PrefixVersion   = "v"
)

const idSuffixLen = 9

// NewID 生成 <prefix>_<毫秒时间戳>_<9 位随机字符> 格式的 ID
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), randomSuffix())
}

// VersionID 生成版本快照 ID
func VersionID(ts int64) string {
	return fmt.Sprintf("%s_%d", PrefixVersion, ts)
}

func randomSuffix() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:idSuffixLen]
}
