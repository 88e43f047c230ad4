package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type ctxKey uint8

const (
	traceKey ctxKey = iota
	spanKey
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, traceKey)
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanKey, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, spanKey)
}

// Ensure 保证 ctx 上有 trace_id，已有则原样返回。
func Ensure(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := TraceIDFrom(ctx); ok {
		return ctx
	}
	if id := NewTraceID(); id != "" {
		ctx = WithTraceID(ctx, id)
	}
	return ctx
}

// NewTraceID 16 字节随机数的 hex。
func NewTraceID() string {
	return randomHex(16)
}

// NewSpanID 8 字节随机数的 hex。
func NewSpanID() string {
	return randomHex(8)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
