package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorLog 从 errx.Error（或任意 error）里抽出的日志字段。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

const (
	maxCauseDepth  = 20
	maxStackFrames = 32
)

// BuildErrorLog 通过鸭子类型读取错误码、reason、data、发生处栈，不直接依赖 errx。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var code interface{ CodeText() string }
	if errors.As(err, &code) {
		out.Code = code.CodeText()
	}
	var msg interface{ Msg() string }
	if errors.As(err, &msg) {
		out.Msg = msg.Msg()
	}
	var data interface{ Data() map[string]any }
	if errors.As(err, &data) {
		out.Data = data.Data()
	}
	var reason interface{ Reason() string }
	if errors.As(err, &reason) {
		out.Reason = reason.Reason()
	}
	var st interface{ Stack() []uintptr }
	if errors.As(err, &st) {
		out.Origin, out.Stack = formatStack(st.Stack())
	}
	out.CauseChain = causeChain(err)
	return out
}

// causeChain 第一项是 err 本身。
func causeChain(err error) []string {
	var out []string
	for cur := err; cur != nil && len(out) < maxCauseDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr) (origin, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, 8)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
