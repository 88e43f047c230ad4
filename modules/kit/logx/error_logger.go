package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BizLog 业务拒绝日志入参。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误日志入参。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccessWithLoggerContext 按业务码分级：0 INFO，1~499 WARN，>=500 ERROR。
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	all := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)

	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", all...)
	case bizCode >= 500:
		withCtx.Error("access", all...)
	default:
		withCtx.Warn("access", all...)
	}
}

// ReportBizWithLoggerContext 业务拒绝：INFO，不带栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := biz.Action
	if action == "" {
		action = "biz_reject"
	}
	all := []zap.Field{zap.String("err_type", "biz"), zap.String("action", action)}
	if biz.Reason != "" {
		all = append(all, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		all = append(all, zap.String("biz_message", biz.Message))
	}
	all = append(all, fields...)

	msg := action
	if biz.Reason != "" {
		msg += ", reason:" + biz.Reason
	}
	if biz.Message != "" {
		msg += ", msg:" + biz.Message
	}
	l.WithContext(ctx).Info(msg, all...)
}

// ReportSysErrorWithLoggerContext 技术错误：ERROR，带 code/cause 链/发生处栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if l == nil || sys.Err == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}
	meta := BuildErrorLog(sys.Err)

	all := []zap.Field{zap.String("err_type", "sys"), zap.String("action", action)}
	if meta.Code != "" {
		all = append(all, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		all = append(all, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		all = append(all, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		all = append(all, zap.String("origin_caller", meta.Origin), zap.String("stack_origin", meta.Stack))
	}
	all = append(all, fields...)

	var msg string
	switch {
	case meta.Reason != "":
		msg = fmt.Sprintf("%s, reason:%s, error:%s", action, meta.Reason, meta.Error)
	case meta.Msg != "":
		msg = fmt.Sprintf("%s, error:%s, msg:%s", action, meta.Error, meta.Msg)
	default:
		msg = fmt.Sprintf("%s, error:%s", action, meta.Error)
	}
	l.WithContext(ctx).Error(msg, all...)
}
