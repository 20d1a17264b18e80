// Package storyutil 提供 story 应用层内部共享的工具函数。
package storyutil

import (
	"strings"
	"unicode/utf8"
)

// TruncateByRunes 按 rune 数量截断字符串。
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// IsBlank 是否为空或仅包含空白。
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
