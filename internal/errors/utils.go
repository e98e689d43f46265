package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// FormatErrorChain 逐层展开错误链，每层一行，最后附上最外层 AppError 的堆栈
// 用于 --debug 下的命令行输出
func FormatErrorChain(err error) string {
	if err == nil {
		return "<nil>"
	}

	var b strings.Builder
	var stack []string
	for depth := 0; err != nil; depth++ {
		if depth > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("caused by: ")
		}
		if appErr, ok := err.(*AppError); ok {
			fmt.Fprintf(&b, "[%s] %s", appErr.Type, appErr.Message)
			if stack == nil {
				stack = appErr.Stack
			}
		} else {
			b.WriteString(err.Error())
		}
		err = stderrors.Unwrap(err)
	}

	if len(stack) > 0 {
		b.WriteString("\nstack:")
		for _, frame := range stack {
			b.WriteString("\n  ")
			b.WriteString(frame)
		}
	}

	return b.String()
}
