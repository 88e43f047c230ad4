package handler

import (
	"context"
	"errors"
	"sync"
	"testing"

	raidactor "VillageRaid/internal/raid/actor"
	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/shared/session"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/modules/kit/errx"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHandleError_业务错误映射客户端码(t *testing.T) {
	r := NewRaid(nil, nil, nil, nil)
	cases := []struct {
		err  error
		code int
	}{
		{app.ErrRaidNotStarted, transport.RaidNotStarted},
		{app.ErrRaidAlreadyRunning, transport.RaidAlreadyRunning},
		{app.ErrPlacementRejected.WithReason(app.ReasonTileBlocked), transport.PlacementRejected},
		{app.ErrNothingDeployed, transport.NothingDeployed},
		{app.ErrHousingExceeded, transport.HousingExceeded},
		{app.ErrRaidFinished, transport.RaidFinished},
		{app.ErrUnknownTroop, transport.UnknownTroop},
		{app.ErrEmptyArmy, transport.EmptyArmy},
		{app.ErrInvalidParam, transport.InvalidParam},
	}
	for _, c := range cases {
		code, msg := r.HandleError(context.Background(), "test", c.err)
		e, _ := errx.FromError(c.err)
		if code != c.code || msg != e.Msg() {
			t.Fatalf("期望 %v 映射为 %d/%q，got=%d/%q", c.err, c.code, e.Msg(), code, msg)
		}
	}
}

func TestHandleError_系统错误不透出细节并记录reason(t *testing.T) {
	r := NewRaid(nil, nil, nil, nil)
	ctx := transport.NewContext("test")

	err := app.ErrUnavailable.WithReason(app.ReasonRosterReadFail).WithCause(errors.New("dial tcp: refused"))
	code, msg := r.HandleError(ctx, "raid.start", err)
	if code != transport.Unavailable || msg != busyMsg {
		t.Fatalf("期望 503 + 通用提示，got=%d/%q", code, msg)
	}
	if transport.FromContext(ctx).ErrorReason != app.ReasonRosterReadFail.Code {
		t.Fatalf("期望 access 日志记录 reason")
	}

	code, msg = r.HandleError(ctx, "raid.begin", &raidactor.RuntimeError{Code: transport.Timeout, Message: "actor 请求失败"})
	if code != transport.Timeout || msg != "请求超时" {
		t.Fatalf("期望 actor 超时映射为 504，got=%d/%q", code, msg)
	}
	if code, _ := r.HandleError(ctx, "x", errors.New("boom")); code != transport.SystemError {
		t.Fatalf("期望未知错误映射为 500，got=%d", code)
	}
}

func TestToRPCError_状态码(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{app.ErrPlacementRejected, codes.InvalidArgument},
		{app.ErrEmptyArmy, codes.InvalidArgument},
		{app.ErrUnavailable.WithCause(errors.New("x")), codes.Unavailable},
		{errx.ErrTimeout, codes.DeadlineExceeded},
		{errors.New("boom"), codes.Internal},
	}
	for _, c := range cases {
		if got := status.Code(ToRPCError(c.err)); got != c.code {
			t.Fatalf("期望 %v -> %v，got=%v", c.err, c.code, got)
		}
	}
	if ToRPCError(nil) != nil {
		t.Fatalf("期望 nil 透传")
	}
}

type pushConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushed []string
	done   chan struct{}
}

func newPushConn() *pushConn {
	return &pushConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *pushConn) SetProperty(key string, value any) { c.props[key] = value }
func (c *pushConn) GetProperty(key string) any        { return c.props[key] }
func (c *pushConn) RemoveProperty(key string)         { delete(c.props, key) }
func (c *pushConn) Addr() string                      { return "127.0.0.1:1" }
func (c *pushConn) Close()                            {}
func (c *pushConn) Done() <-chan struct{}             { return c.done }

func (c *pushConn) Push(name string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
}

func TestWsNotifier_在线推送离线丢弃(t *testing.T) {
	mgr := session.NewSessMgr()
	conn := newPushConn()
	mgr.Bind(7, "token", conn)

	n := NewWsNotifier(mgr, nil)
	n.RaidSettled(7, &app.Settlement{RaidID: 1})
	n.RaidSettled(8, &app.Settlement{RaidID: 2})
	n.RaidSettled(7, nil)

	if len(conn.pushed) != 1 || conn.pushed[0] != PushRaidResult {
		t.Fatalf("期望只推送一次 raid.result，got=%v", conn.pushed)
	}
}
