package ws

import (
	"context"

	"VillageRaid/internal/raid/domain/deploy"
	"VillageRaid/internal/raid/interfaces/handler"
	"VillageRaid/internal/raid/interfaces/handler/dto"
	"VillageRaid/internal/shared/security"
	"VillageRaid/internal/shared/transport"
	"VillageRaid/internal/shared/transport/ws"
)

type WsHandler struct {
	raid *handler.Raid
}

func NewWsHandler(r *handler.Raid) *WsHandler {
	return &WsHandler{raid: r}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	raidGroup := r.Group("raid")
	raidGroup.Handle("login", h.Login)
	raidGroup.Handle("start", h.Start)
	raidGroup.Handle("deploy", h.Deploy)
	raidGroup.Handle("begin", h.Begin)
	raidGroup.Handle("cancel", h.Cancel)
	raidGroup.Handle("state", h.State)
	raidGroup.Handle("history", h.History)
}

// Login 用 http 登录拿到的 jwt 绑定 ws 连接，之后自动结算的结果才能推到这条连接上。
func (h *WsHandler) Login(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req dto.LoginReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.Token == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	pid, err := security.ParsePlayerID(req.Token)
	if err != nil {
		transport.SetErrorReason(ctx, "TOKEN_INVALID")
		h.fail(wsResp, transport.TokenInvalid, "登录已失效")
		return
	}

	wsReq.Conn.SetProperty(ws.ConnKeyPlayerID, pid)
	transport.SetPlayerID(ctx, pid)
	h.raid.Session.Bind(pid, req.Token, wsReq.Conn)
	h.ok(wsResp, dto.LoginResp{PlayerID: pid})
}

func (h *WsHandler) Start(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	pid, ok := h.player(wsReq, wsResp)
	if !ok {
		return
	}
	var req dto.StartReq
	if wsReq.Body.Msg != nil {
		if err := ws.BindJSON(wsReq, &req); err != nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return
		}
	}

	view, err := h.raid.Runtime.Start(ctx, pid, req.Seed)
	if err != nil {
		h.error(ctx, wsResp, "raid.start", err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) Deploy(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	pid, ok := h.player(wsReq, wsResp)
	if !ok {
		return
	}
	var req dto.DeployReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.TroopID == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	view, err := h.raid.Runtime.Place(ctx, pid, deploy.Unit{TroopID: req.TroopID, X: req.X, Y: req.Y})
	if err != nil {
		h.error(ctx, wsResp, "raid.deploy", err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) Begin(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	pid, ok := h.player(wsReq, wsResp)
	if !ok {
		return
	}
	st, err := h.raid.Runtime.Begin(ctx, pid)
	if err != nil {
		h.error(ctx, wsResp, "raid.begin", err)
		return
	}
	h.ok(wsResp, st)
}

func (h *WsHandler) Cancel(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	pid, ok := h.player(wsReq, wsResp)
	if !ok {
		return
	}
	if err := h.raid.Runtime.Cancel(ctx, pid); err != nil {
		h.error(ctx, wsResp, "raid.cancel", err)
		return
	}
	h.ok(wsResp, nil)
}

func (h *WsHandler) State(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	pid, ok := h.player(wsReq, wsResp)
	if !ok {
		return
	}
	view, err := h.raid.Runtime.State(ctx, pid)
	if err != nil {
		h.error(ctx, wsResp, "raid.state", err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) History(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	pid, ok := h.player(wsReq, wsResp)
	if !ok {
		return
	}
	recs, err := h.raid.Service.History(ctx, pid, 0)
	if err != nil {
		h.error(ctx, wsResp, "raid.history", err)
		return
	}
	h.ok(wsResp, dto.HistoryResp{Records: recs})
}

// player 校验参数并取出连接上绑定的玩家。
func (h *WsHandler) player(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (int64, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return 0, false
	}
	pid, ok := ws.PlayerID(wsReq.Conn)
	if !ok {
		h.fail(wsResp, transport.SessionInvalid, "session 无效")
		return 0, false
	}
	return pid, true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error) {
	code, msg := h.raid.HandleError(ctx, action, err)
	h.fail(resp, code, msg)
}
