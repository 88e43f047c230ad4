package transport

import (
	"context"
	"time"

	"VillageRaid/modules/kit/logx"
	"VillageRaid/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文，覆盖 WS/HTTP 两种协议。
// PlayerID 在鉴权通过后写入，未登录的请求为 0。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	PlayerID    int64
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（以 background 为父 context）。
func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 创建带 AccessLog 的新 context（保留父 context 的取消/超时信号）。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx = tracex.Ensure(ctx)
	if _, ok := tracex.SpanIDFrom(ctx); !ok {
		ctx = tracex.WithSpanID(ctx, tracex.NewSpanID())
	}

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

// FromContext 从 context 读取 AccessLog。
func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// SetBizCode 设置业务码。
func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetPlayerID 记录本次请求所属的玩家。
func SetPlayerID(ctx context.Context, pid int64) {
	if al := FromContext(ctx); al != nil && pid > 0 {
		al.PlayerID = pid
	}
}

// WriteAccessLog 输出访问日志，extra 由各协议补充自己的字段（如 HTTP 状态码）。
func WriteAccessLog(ctx context.Context, log logx.Logger, extra ...zap.Field) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := make([]zap.Field, 0, len(extra)+4)
	fields = append(fields, zap.Duration("latency", time.Since(al.startTime)))
	if al.PlayerID > 0 {
		fields = append(fields, zap.Int64("player_id", al.PlayerID))
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	fields = append(fields, extra...)
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
