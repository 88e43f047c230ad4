package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"VillageRaid/internal/raid/app"
	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/infra/persistence/memory"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/internal/shared/gameconfig/building"
	"VillageRaid/internal/shared/gameconfig/troop"
	"VillageRaid/internal/shared/security"
	"VillageRaid/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type fakeRuntime struct {
	startSeed int64
	placed    []deploy.Unit
	pid       int64
	err       error
}

func (f *fakeRuntime) Start(ctx context.Context, playerID, seed int64) (app.View, error) {
	f.pid, f.startSeed = playerID, seed
	return app.View{RaidID: 1, State: "deploying"}, f.err
}

func (f *fakeRuntime) Place(ctx context.Context, playerID int64, u deploy.Unit) (app.View, error) {
	f.pid = playerID
	f.placed = append(f.placed, u)
	return app.View{RaidID: 1, State: "deploying"}, f.err
}

func (f *fakeRuntime) Begin(ctx context.Context, playerID int64) (*app.Settlement, error) {
	f.pid = playerID
	if f.err != nil {
		return nil, f.err
	}
	return &app.Settlement{RaidID: 1, PlayerID: playerID}, nil
}

func (f *fakeRuntime) Cancel(ctx context.Context, playerID int64) error {
	f.pid = playerID
	return f.err
}

func (f *fakeRuntime) State(ctx context.Context, playerID int64) (app.View, error) {
	f.pid = playerID
	return app.View{}, f.err
}

type seqIDs struct{ n int64 }

func (s *seqIDs) NextID() int64 {
	s.n++
	return s.n
}

type body struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newEngine(rt *fakeRuntime) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewRaidService(memory.NewRosterRepo(nil), memory.NewHistoryRepo(), troop.MustLoad(), building.MustLoad(), &seqIDs{}, logx.Nop(), app.Options{})
	h := NewHttpHandler(handler.NewRaid(rt, svc, nil, nil))
	e := gin.New()
	h.RegisterRoutes(e.Group(""))
	return e
}

func do(t *testing.T, e *gin.Engine, method, path, token, payload string) body {
	t.Helper()
	var req *nethttp.Request
	if payload == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	var b body
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("响应不是 json: %s", w.Body.String())
	}
	return b
}

func award(t *testing.T, pid int64) string {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	token, err := security.Award(pid)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	return token
}

func TestLoot_无需登录返回区间(t *testing.T) {
	e := newEngine(&fakeRuntime{})
	b := do(t, e, nethttp.MethodGet, "/raid/loot?difficulty=2", "", "")
	if b.Code != 0 {
		t.Fatalf("期望 code=0，got=%d", b.Code)
	}
	var est struct {
		Gold struct{ Min, Max int } `json:"gold"`
	}
	_ = json.Unmarshal(b.Data, &est)
	if est.Gold.Min != 130 || est.Gold.Max != 260 {
		t.Fatalf("期望难度 2 金币区间 [130,260]，got=%+v", est.Gold)
	}
	if b := do(t, e, nethttp.MethodGet, "/raid/loot?difficulty=abc", "", ""); b.Code != 1 {
		t.Fatalf("期望非法难度 code=1，got=%d", b.Code)
	}
}

func TestRaid_未登录被拒(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	e := newEngine(&fakeRuntime{})
	if b := do(t, e, nethttp.MethodPost, "/raid/start", "", ""); b.Code != 3 {
		t.Fatalf("期望 code=3，got=%d", b.Code)
	}
}

func TestStart_空body与带seed(t *testing.T) {
	rt := &fakeRuntime{}
	e := newEngine(rt)
	token := award(t, 7)

	if b := do(t, e, nethttp.MethodPost, "/raid/start", token, ""); b.Code != 0 || rt.pid != 7 || rt.startSeed != 0 {
		t.Fatalf("期望空 body 也能开局，code=%d pid=%d seed=%d", b.Code, rt.pid, rt.startSeed)
	}
	if b := do(t, e, nethttp.MethodPost, "/raid/start", token, `{"seed":99}`); b.Code != 0 || rt.startSeed != 99 {
		t.Fatalf("期望 seed=99，code=%d seed=%d", b.Code, rt.startSeed)
	}
	if b := do(t, e, nethttp.MethodPost, "/raid/start", token, `{"seed":`); b.Code != 1 {
		t.Fatalf("期望坏 json code=1，got=%d", b.Code)
	}
}

func TestDeploy_参数校验与业务错误(t *testing.T) {
	rt := &fakeRuntime{}
	e := newEngine(rt)
	token := award(t, 7)

	if b := do(t, e, nethttp.MethodPost, "/raid/deploy", token, `{"x":1,"y":1}`); b.Code != 1 {
		t.Fatalf("期望缺少 troop_id code=1，got=%d", b.Code)
	}
	if b := do(t, e, nethttp.MethodPost, "/raid/deploy", token, `{"troop_id":"archer","x":0,"y":3}`); b.Code != 0 {
		t.Fatalf("期望部署成功，got=%d", b.Code)
	}
	if len(rt.placed) != 1 || rt.placed[0] != (deploy.Unit{TroopID: "archer", X: 0, Y: 3}) {
		t.Fatalf("期望透传部署坐标，got=%+v", rt.placed)
	}

	rt.err = app.ErrPlacementRejected.WithReason(app.ReasonOutsideBorder)
	b := do(t, e, nethttp.MethodPost, "/raid/deploy", token, `{"troop_id":"archer","x":9,"y":9}`)
	if b.Code != 103 || b.Msg == "" {
		t.Fatalf("期望 code=103 且带提示，got=%+v", b)
	}
}

func TestBeginCancelState_错误码映射(t *testing.T) {
	rt := &fakeRuntime{}
	e := newEngine(rt)
	token := award(t, 7)

	if b := do(t, e, nethttp.MethodPost, "/raid/begin", token, ""); b.Code != 0 || len(b.Data) == 0 {
		t.Fatalf("期望返回结算，got=%+v", b)
	}

	rt.err = app.ErrRaidNotStarted
	for _, path := range []string{"/raid/begin", "/raid/cancel"} {
		if b := do(t, e, nethttp.MethodPost, path, token, ""); b.Code != 101 {
			t.Fatalf("%s 期望 code=101，got=%d", path, b.Code)
		}
	}
	rt.err = app.ErrUnavailable
	if b := do(t, e, nethttp.MethodGet, "/raid/state", token, ""); b.Code != 503 {
		t.Fatalf("期望 code=503，got=%d", b.Code)
	}
}

func TestHistory_空列表(t *testing.T) {
	e := newEngine(&fakeRuntime{})
	token := award(t, 7)

	b := do(t, e, nethttp.MethodGet, "/raid/history?limit=3", token, "")
	if b.Code != 0 || string(b.Data) != `{"records":[]}` {
		t.Fatalf("期望空战报列表，got=%+v data=%s", b, b.Data)
	}
	if b := do(t, e, nethttp.MethodGet, "/raid/history?limit=x", token, ""); b.Code != 1 {
		t.Fatalf("期望非法 limit code=1，got=%d", b.Code)
	}
}
