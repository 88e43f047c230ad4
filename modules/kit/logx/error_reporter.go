package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorLog 是从错误链里抽出来的可读字段，接口层统一打印一次。
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
	// 栈可能挂在链上更深的一层，逐层找第一个非空的
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		sp, ok := cur.(interface{ Stack() []uintptr })
		if !ok {
			continue
		}
		if pcs := sp.Stack(); len(pcs) != 0 {
			out.Origin, out.Stack = formatStack(pcs, 32)
			break
		}
	}
	out.CauseChain = causeChain(err, 20)
	return out
}

func causeChain(err error, depth int) []string {
	var out []string
	for cur := errors.Unwrap(err); cur != nil && len(out) < depth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		line := fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line)
		if origin == "" {
			origin = line
		}
		lines = append(lines, line)
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
