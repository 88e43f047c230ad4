package tracex

import (
	"context"
	"testing"
)

func TestTraceID_写入后可读取(t *testing.T) {
	ctx := WithSpanID(WithTraceID(context.Background(), "t-1"), "s-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 trace_id=t-1，got=%q ok=%v", got, ok)
	}
	if got, ok := SpanIDFrom(ctx); !ok || got != "s-1" {
		t.Fatalf("期望 span_id=s-1，got=%q ok=%v", got, ok)
	}
}

func TestEnsure_已有trace_id不覆盖(t *testing.T) {
	ctx := Ensure(WithTraceID(context.Background(), "keep"))
	if got, _ := TraceIDFrom(ctx); got != "keep" {
		t.Fatalf("期望保留原 trace_id，got=%q", got)
	}
	fresh := Ensure(nil)
	if got, ok := TraceIDFrom(fresh); !ok || len(got) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id，got=%q", got)
	}
	if len(NewSpanID()) != 16 {
		t.Fatalf("期望 span_id 为 16 位 hex")
	}
}
