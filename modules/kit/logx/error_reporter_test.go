package logx

import (
	"context"
	"errors"
	"testing"

	"VillageRaid/modules/kit/errx"
	"VillageRaid/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_提取code数据与栈(t *testing.T) {
	e := errx.NewSys("SYS_MONGO", "历史存储不可用").
		WithData("player_id", int64(7)).
		WithCause(errors.New("server selection timeout"))

	meta := BuildErrorLog(e)
	if meta.Code != "SYS_MONGO" || meta.Msg == "" {
		t.Fatalf("期望提取 code/msg，got=%+v", meta)
	}
	if meta.Data["player_id"] != int64(7) {
		t.Fatalf("期望 data 带 player_id，got=%v", meta.Data)
	}
	if len(meta.CauseChain) != 1 {
		t.Fatalf("期望 cause 链 1 层，got=%v", meta.CauseChain)
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望带发生处栈 origin=%q", meta.Origin)
	}
}

func TestBuildErrorLog_外层无栈时取内层栈(t *testing.T) {
	inner := errx.NewSys("SYS_MYSQL", "roster 读取失败").WithCause(errors.New("conn reset"))
	outer := errx.ErrUnavailable.WithCause(inner)
	if meta := BuildErrorLog(outer); meta.Origin == "" {
		t.Fatalf("期望从内层拿到栈")
	}
}

func TestReportAccess_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := tracex.WithTraceID(context.Background(), "trace-1")

	ReportAccessWithLoggerContext(ctx, l, "POST /raid/start", 0)
	ReportAccessWithLoggerContext(ctx, l, "POST /raid/deploy", 103)
	ReportAccessWithLoggerContext(ctx, l, "POST /raid/begin", 500)

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("期望 3 条日志，got=%d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条期望级别 %v，got=%v", i, want[i], e.Level)
		}
		if e.ContextMap()["trace_id"] != "trace-1" {
			t.Fatalf("期望带 trace_id，got=%v", e.ContextMap())
		}
	}
}
