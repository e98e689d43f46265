package util

import (
	"fmt"
	"strings"
	"unicode"
)

func IsNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// NormalizeAddr 将用户输入转换为 host:port
// 纯数字视为本地端口，去掉 http:// 或 https:// 前缀
func NormalizeAddr(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case IsNumeric(text):
		return fmt.Sprintf("127.0.0.1:%s", text)
	case strings.HasPrefix(text, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(text, "http://"), "/")
	case strings.HasPrefix(text, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(text, "https://"), "/")
	default:
		return text
	}
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
