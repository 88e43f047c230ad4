package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是各层共用的日志接口，只保留结构化字段和 ctx 透传。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

// Nop 丢弃所有日志，测试和未注入 logger 时使用。
func Nop() Logger {
	return NewZapLogger(nil)
}
