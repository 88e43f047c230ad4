package ws

import (
	"context"
	"testing"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/internal/raid/interfaces/handler/dto"
	"VillageRaid/internal/shared/security"
	"VillageRaid/internal/shared/session"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/internal/shared/transport/ws"
)

type fakeConn struct {
	props map[string]any
	done  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(key string, value any) { c.props[key] = value }
func (c *fakeConn) GetProperty(key string) any        { return c.props[key] }
func (c *fakeConn) RemoveProperty(key string)         { delete(c.props, key) }
func (c *fakeConn) Addr() string                      { return "127.0.0.1:1" }
func (c *fakeConn) Push(name string, data any)        {}
func (c *fakeConn) Close()                            {}
func (c *fakeConn) Done() <-chan struct{}             { return c.done }

type fakeRuntime struct {
	placed deploy.Unit
	seed   int64
	err    error
}

func (f *fakeRuntime) Start(ctx context.Context, playerID, seed int64) (app.View, error) {
	f.seed = seed
	return app.View{RaidID: 1}, f.err
}

func (f *fakeRuntime) Place(ctx context.Context, playerID int64, u deploy.Unit) (app.View, error) {
	f.placed = u
	return app.View{RaidID: 1}, f.err
}

func (f *fakeRuntime) Begin(ctx context.Context, playerID int64) (*app.Settlement, error) {
	return &app.Settlement{RaidID: 1}, f.err
}

func (f *fakeRuntime) Cancel(ctx context.Context, playerID int64) error { return f.err }

func (f *fakeRuntime) State(ctx context.Context, playerID int64) (app.View, error) {
	return app.View{}, f.err
}

func call(h ws.HandlerFunc, conn ws.WSConn, msg any) *ws.RespBody {
	req := &ws.WsMsgReq{Body: &ws.ReqBody{Seq: 1, Msg: msg}, Conn: conn}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Seq: 1}}
	h(context.Background(), req, resp)
	return resp.Body
}

func TestLogin_绑定连接与会话(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	token, err := security.Award(7)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	mgr := session.NewSessMgr()
	h := NewWsHandler(handler.NewRaid(&fakeRuntime{}, nil, mgr, nil))
	conn := newFakeConn()

	if resp := call(h.Login, conn, map[string]any{"token": "bad"}); resp.Code != transport.TokenInvalid {
		t.Fatalf("期望非法 token code=3，got=%d", resp.Code)
	}
	if resp := call(h.Login, conn, nil); resp.Code != transport.InvalidParam {
		t.Fatalf("期望缺少 msg code=1，got=%d", resp.Code)
	}

	resp := call(h.Login, conn, map[string]any{"token": token})
	if resp.Code != transport.OK {
		t.Fatalf("期望登录成功，got=%d", resp.Code)
	}
	if out, ok := resp.Msg.(dto.LoginResp); !ok || out.PlayerID != 7 {
		t.Fatalf("期望返回 pid=7，got=%+v", resp.Msg)
	}
	if pid, ok := ws.PlayerID(conn); !ok || pid != 7 {
		t.Fatalf("期望连接属性写入 pid")
	}
	if c, ok := mgr.GetConn(7); !ok || c != conn {
		t.Fatalf("期望会话绑定到当前连接")
	}
}

func TestRaid_未登录返回session无效(t *testing.T) {
	h := NewWsHandler(handler.NewRaid(&fakeRuntime{}, nil, nil, nil))
	for _, fn := range []ws.HandlerFunc{h.Start, h.Deploy, h.Begin, h.Cancel, h.State, h.History} {
		if resp := call(fn, newFakeConn(), nil); resp.Code != transport.SessionInvalid {
			t.Fatalf("期望 code=2，got=%d", resp.Code)
		}
	}
}

func TestDeploy_弱类型坐标与业务错误(t *testing.T) {
	rt := &fakeRuntime{}
	h := NewWsHandler(handler.NewRaid(rt, nil, nil, nil))
	conn := newFakeConn()
	conn.SetProperty(ws.ConnKeyPlayerID, int64(7))

	if resp := call(h.Start, conn, map[string]any{"seed": "42"}); resp.Code != transport.OK || rt.seed != 42 {
		t.Fatalf("期望 seed 字符串也能解析，code=%d seed=%d", resp.Code, rt.seed)
	}
	if resp := call(h.Deploy, conn, map[string]any{"x": 1}); resp.Code != transport.InvalidParam {
		t.Fatalf("期望缺少 troop_id code=1，got=%d", resp.Code)
	}

	resp := call(h.Deploy, conn, map[string]any{"troop_id": "giant", "x": float64(23), "y": "0"})
	if resp.Code != transport.OK || rt.placed != (deploy.Unit{TroopID: "giant", X: 23, Y: 0}) {
		t.Fatalf("期望部署成功，code=%d unit=%+v", resp.Code, rt.placed)
	}

	rt.err = app.ErrRaidFinished
	if resp := call(h.Begin, conn, nil); resp.Code != transport.RaidFinished {
		t.Fatalf("期望 code=106，got=%d", resp.Code)
	}
}
